package utils

import (
	"bufio"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
)

// FileProcessor finds input files and generated outputs below directory trees
type FileProcessor struct {
	fileReader *FileReader
}

// NewFileProcessor creates a new file processor
func NewFileProcessor() *FileProcessor {
	return &FileProcessor{
		fileReader: NewFileReader(),
	}
}

// FileFilter defines a function that determines whether a file should be processed
type FileFilter func(path string, info os.DirEntry) bool

// DirectoryFilter defines a function that determines whether a directory should be processed
type DirectoryFilter func(path string, info os.DirEntry) bool

// FileWalkOptions configures file walking behavior
type FileWalkOptions struct {
	FileFilter      FileFilter
	DirectoryFilter DirectoryFilter
	Recursive       bool
	SkipErrors      bool
}

// SuffixFilter matches regular files ending in one of the suffixes
func SuffixFilter(suffixes ...string) FileFilter {
	return func(path string, info os.DirEntry) bool {
		if info.IsDir() {
			return false
		}
		for _, suffix := range suffixes {
			if strings.HasSuffix(info.Name(), suffix) {
				return true
			}
		}
		return false
	}
}

// HeaderFilter matches regular files whose first line is header
func HeaderFilter(header string, suffixes ...string) FileFilter {
	bySuffix := SuffixFilter(suffixes...)
	return func(path string, info os.DirEntry) bool {
		if !bySuffix(path, info) {
			return false
		}
		first, err := firstLine(path)
		return err == nil && first == header
	}
}

// DefaultDirectoryFilter skips common directories that shouldn't contain inputs
func DefaultDirectoryFilter() DirectoryFilter {
	skipDirs := map[string]bool{
		"vendor":       true,
		"node_modules": true,
		".git":         true,
		".svn":         true,
		".hg":          true,
		"testdata":     true,
		"build":        true,
		"dist":         true,
		"target":       true,
	}

	return func(path string, info os.DirEntry) bool {
		if !info.IsDir() {
			return true
		}

		name := info.Name()

		if strings.HasPrefix(name, ".") && name != "." && name != ".." {
			return false
		}

		return !skipDirs[name]
	}
}

// WalkFiles returns the files below rootDir accepted by the filters, sorted.
// Without Recursive only rootDir itself is read.
func (fp *FileProcessor) WalkFiles(rootDir string, options FileWalkOptions) ([]string, error) {
	var matched []string

	err := filepath.WalkDir(rootDir, func(path string, entry os.DirEntry, err error) error {
		if err != nil {
			if options.SkipErrors {
				return nil
			}
			return errors.Wrapf(err, "walk %s", path)
		}

		if entry.IsDir() {
			if path == rootDir {
				return nil
			}
			if !options.Recursive {
				return filepath.SkipDir
			}
			if options.DirectoryFilter != nil && !options.DirectoryFilter(path, entry) {
				return filepath.SkipDir
			}
			return nil
		}

		if options.FileFilter == nil || options.FileFilter(path, entry) {
			matched = append(matched, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(matched)
	return matched, nil
}

// ScanFiles collects matching files below each root. A root ending in "/..."
// is walked recursively; duplicate paths are reported once.
func (fp *FileProcessor) ScanFiles(roots []string, filter FileFilter) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	for _, root := range roots {
		dir, recursive := SplitPattern(root)
		absDir, err := filepath.Abs(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "resolve path %s", dir)
		}
		info, err := os.Stat(absDir)
		if err != nil {
			return nil, errors.WithHint(errors.Wrapf(err, "scan %s", dir), "check that the directory exists")
		}
		if !info.IsDir() {
			return nil, errors.Newf("%s is not a directory", dir)
		}

		found, err := fp.WalkFiles(absDir, FileWalkOptions{
			FileFilter:      filter,
			DirectoryFilter: DefaultDirectoryFilter(),
			Recursive:       recursive,
		})
		if err != nil {
			return nil, err
		}
		for _, f := range found {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// ReadFiles reads each path through the file reader's cache, keyed by path
func (fp *FileProcessor) ReadFiles(paths []string) (map[string]string, error) {
	contents := make(map[string]string, len(paths))
	for _, path := range paths {
		content, err := fp.fileReader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		contents[path] = content
	}
	return contents, nil
}

// RemoveFiles removes every file below roots accepted by filter and returns
// the removed paths
func (fp *FileProcessor) RemoveFiles(roots []string, filter FileFilter) ([]string, error) {
	files, err := fp.ScanFiles(roots, filter)
	if err != nil {
		return nil, err
	}

	removed := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return removed, errors.Wrapf(err, "remove %s", f)
		}
		fp.fileReader.InvalidateFile(f)
		removed = append(removed, f)
	}
	return removed, nil
}

// GetFileReader returns the underlying FileReader for advanced operations
func (fp *FileProcessor) GetFileReader() *FileReader {
	return fp.fileReader
}

// SplitPattern splits a "./..." style pattern into its base directory and
// whether it is recursive
func SplitPattern(pattern string) (dir string, recursive bool) {
	if pattern == "..." {
		return ".", true
	}
	if strings.HasSuffix(pattern, "/...") {
		dir = strings.TrimSuffix(pattern, "/...")
		if dir == "" {
			dir = "."
		}
		return dir, true
	}
	return pattern, false
}

func firstLine(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if scanner.Scan() {
		return strings.TrimRight(scanner.Text(), "\r"), nil
	}
	return "", scanner.Err()
}
