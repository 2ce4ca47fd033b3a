package fileutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/harrison/filetier/internal/models"
)

// Logger receives scan diagnostics. A nil Logger discards them.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// SkippedEntry is a filesystem entry the scanner could not read.
type SkippedEntry struct {
	Path string
	Err  error
}

// ScanResult contains the results of a directory scan
type ScanResult struct {
	// Records holds one unclassified record per regular file, in walk order
	Records []models.FileRecord
	// Skipped lists entries that could not be stat'd or listed
	Skipped []SkippedEntry
	// RootMissing is true when the scan root does not exist
	RootMissing bool
}

// Scanner walks a directory tree and collects file metadata.
type Scanner struct {
	fs  billy.Filesystem
	log Logger

	// absRoots makes roots absolute before they reach fs. Set for the host
	// filesystem, which is mounted at "/".
	absRoots bool
}

// NewScanner creates a Scanner over fs. Paths handed to Scan are interpreted by fs.
func NewScanner(fs billy.Filesystem, log Logger) *Scanner {
	return &Scanner{fs: fs, log: log}
}

// NewOSScanner creates a Scanner over the host filesystem. Relative roots
// resolve against the working directory and records keep the root as given.
func NewOSScanner(log Logger) *Scanner {
	s := NewScanner(osfs.New(string(filepath.Separator)), log)
	s.absRoots = true
	return s
}

// Scan recursively collects a FileRecord for every regular file under root.
//
// A missing root is not an error: it is reported through the logger and the
// returned result is empty with RootMissing set. Entries that cannot be read are
// recorded in Skipped and the walk continues.
//
// Symlinks to regular files are followed and reported under the link path with
// the target's size and modification time. Symlinks to directories are never
// descended. Broken symlinks are skipped. Pipes, sockets and devices are ignored.
func (s *Scanner) Scan(root string) *ScanResult {
	if root == "" {
		root = "."
	}

	result := &ScanResult{
		Records: make([]models.FileRecord, 0),
		Skipped: make([]SkippedEntry, 0),
	}

	fsRoot := root
	if s.absRoots {
		abs, err := filepath.Abs(root)
		if err != nil {
			s.skip(result, root, err)
			return result
		}
		fsRoot = abs
	}

	info, err := s.fs.Stat(fsRoot)
	if err != nil {
		if os.IsNotExist(err) {
			s.warn(fmt.Sprintf("Path %s does not exist.", root))
			result.RootMissing = true
			return result
		}
		s.skip(result, root, err)
		return result
	}
	if !info.IsDir() {
		s.warn(fmt.Sprintf("Path %s is not a directory, nothing to scan.", root))
		return result
	}

	// A root that is itself a symlink is walked through the link. Records keep
	// the root as the caller spelled it.
	walkRoot := s.resolveRoot(fsRoot)

	err = util.Walk(s.fs, walkRoot, func(fsPath string, info os.FileInfo, err error) error {
		path := fsPath
		if walkRoot != root {
			path = rebase(fsPath, walkRoot, root)
		}
		if err != nil {
			s.skip(result, path, err)
			return nil // Continue walking
		}

		switch mode := info.Mode(); {
		case mode.IsDir():
			return nil
		case mode.IsRegular():
			result.Records = append(result.Records, models.NewFileRecord(path, info.Size(), info.ModTime()))
		case mode&os.ModeSymlink != 0:
			s.followLink(result, fsPath, path)
		default:
			s.debug(fmt.Sprintf("ignoring non-regular file %s (%s)", path, mode.Type()))
		}
		return nil
	})
	if err != nil {
		// The walk callback never aborts, so this is a failure on the root listing.
		s.skip(result, root, err)
	}

	return result
}

// maxLinkHops bounds symlink resolution of the scan root.
const maxLinkHops = 16

// resolveRoot follows a chain of symlinks starting at root and returns the final
// target. Non-links and unreadable links are returned unchanged.
func (s *Scanner) resolveRoot(root string) string {
	current := root
	for i := 0; i < maxLinkHops; i++ {
		info, err := s.fs.Lstat(current)
		if err != nil || info.Mode()&os.ModeSymlink == 0 {
			return current
		}
		target, err := s.fs.Readlink(current)
		if err != nil {
			return current
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(filepath.Dir(current), target)
		}
		current = target
	}
	return current
}

// rebase rewrites a path under from so that it sits under to instead.
func rebase(path, from, to string) string {
	rel, err := filepath.Rel(from, path)
	if err != nil {
		return path
	}
	return filepath.Join(to, rel)
}

// followLink records the target of the symlink at fsPath, under path, when it
// resolves to a regular file.
func (s *Scanner) followLink(result *ScanResult, fsPath, path string) {
	target, err := s.fs.Stat(fsPath)
	if err != nil {
		s.skip(result, path, fmt.Errorf("broken symlink: %w", err))
		return
	}
	if !target.Mode().IsRegular() {
		s.debug(fmt.Sprintf("not following symlink %s to non-regular target", path))
		return
	}
	result.Records = append(result.Records, models.NewFileRecord(path, target.Size(), target.ModTime()))
}

// skip records an unreadable entry. Callers report Skipped as a whole, so the
// per-entry log line is debug only.
func (s *Scanner) skip(result *ScanResult, path string, err error) {
	result.Skipped = append(result.Skipped, SkippedEntry{Path: path, Err: err})
	s.debug(fmt.Sprintf("skipping %s: %v", path, err))
}

func (s *Scanner) warn(message string) {
	if s.log != nil {
		s.log.LogWarn(message)
	}
}

func (s *Scanner) debug(message string) {
	if s.log != nil {
		s.log.LogDebug(message)
	}
}
