// Package filesystem provides filesystem abstraction interfaces and implementations.
//
// Loading reads input files through FileSystemProvider, which keeps parsing
// testable against an in-memory tree while production code reads the OS
// filesystem.
//
// Implementations:
//   - OSFileSystem: Production implementation using OS filesystem
//   - MemoryFileSystem: In-memory implementation for testing; it also counts
//     open readers so tests can assert that every handle was closed
package filesystem
