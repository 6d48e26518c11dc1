package cli

import (
	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/parser"
	"github.com/bisgardo/reification/internal/utils"
)

// DirectoryScanner finds declaration and snapshot files below input directories
type DirectoryScanner struct {
	fileProcessor *utils.FileProcessor
}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// InputFilter matches the files the parser reads
func InputFilter() utils.FileFilter {
	return utils.SuffixFilter(parser.DeclExtension, parser.SnapshotExtension)
}

// ScanDirectories returns the input files below the provided directories,
// sorted. Supports Go-style patterns like "./..." for recursive scanning.
func (s *DirectoryScanner) ScanDirectories(rootDirs []string) ([]string, error) {
	files, err := s.fileProcessor.ScanFiles(rootDirs, InputFilter())
	if err != nil {
		return nil, errors.Wrap(errors.FileSystemErrorCode, "failed to scan input directories", err)
	}
	return files, nil
}

// ReadInputs reads the given files. Files unchanged since the previous read
// come from the cache, so repeated rounds in watch mode stay cheap.
func (s *DirectoryScanner) ReadInputs(files []string) (map[string]string, error) {
	contents, err := s.fileProcessor.ReadFiles(files)
	if err != nil {
		return nil, errors.WrapFileSystemError("read", "input files", err)
	}
	return contents, nil
}

// CacheStats reports the input cache counters
func (s *DirectoryScanner) CacheStats() utils.CacheStats {
	return s.fileProcessor.GetFileReader().GetCacheStats()
}
