package cli

import (
	"github.com/bisgardo/reification/internal/errors"
	"github.com/bisgardo/reification/internal/templates"
	"github.com/bisgardo/reification/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// GeneratedFilter matches Java files whose first line is the generated header.
// Hand-written files next to generated ones are left alone.
func GeneratedFilter() utils.FileFilter {
	return utils.HeaderFilter(templates.GeneratedHeader, ".java")
}

// CleanGeneratedFiles removes all generated files from the specified
// directories and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	removed, err := c.fileProcessor.RemoveFiles(directories, GeneratedFilter())
	if err != nil {
		return removed, errors.Wrap(errors.FileSystemErrorCode, "failed to clean generated files", err)
	}
	return removed, nil
}
