// Package fileutil walks directory trees and collects per-file metadata.
//
// The scanner runs over a go-billy filesystem so the same code serves the host
// filesystem (osfs) and in-memory trees (memfs) used in tests.
//
// # Scan semantics
//
// Scan returns one models.FileRecord per regular file reachable from the root:
//   - Path is the root joined with the entry's relative path, so relative roots
//     produce relative paths and absolute roots produce absolute paths
//   - SizeMB is the byte size divided by 1048576, never rounded
//   - LastModified is the modification time reported by the filesystem
//
// Records come back unclassified and in walk order (lexical within a directory).
//
// # Error tolerance
//
// Nothing in a scan is fatal:
//
//	result := fileutil.NewOSScanner(log).Scan("/srv/share")
//	if result.RootMissing {
//	    // root does not exist; result.Records is empty
//	}
//	for _, s := range result.Skipped {
//	    fmt.Printf("could not read %s: %v\n", s.Path, s.Err)
//	}
//
// A missing root sets RootMissing and logs a warning. Entries that fail to stat
// or list (permission denied, broken symlinks) land in Skipped and the walk
// continues past them.
//
// # Symlinks and special files
//
// A symlink whose target is a regular file is reported under the link's path with
// the target's size and mtime. Symlinks to directories are not descended, which
// keeps the walk free of cycles. Named pipes, sockets and device nodes are not
// regular files and produce no record.
package fileutil
