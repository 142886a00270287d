// Package archive detects zip archives by content and extracts them.
//
// Detection never looks at the file name: a registry may hand back an archive
// without an extension, or a plain file whose name ends in ".zip".
package archive
