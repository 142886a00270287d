// Package services holds the fetch workflow that turns a dataset reference
// into a ready-to-use local file.
package services
