// Package files groups the local file concerns of kagglefetch.
//
//   - filesystem: read-only filesystem abstraction (OS and in-memory)
//   - loader: NDJSON loading into record tables under a byte cap
//
// # Usage
//
//	import (
//	    "github.com/vvka-141/kagglefetch/internal/files/filesystem"
//	    "github.com/vvka-141/kagglefetch/internal/files/loader"
//	)
//
//	l := loader.NewLoader(filesystem.NewOSFileSystem(), logger)
//	tbl, err := l.Load("business.json", loader.NoLimit)
package files
