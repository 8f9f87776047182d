package validation

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// MaxWorkbookSize caps the source workbook at 256 MiB. Anything larger is
// almost certainly the wrong file and would stall extraction.
const MaxWorkbookSize = 256 << 20

// WorkbookValidator checks a source workbook before extraction touches it.
type WorkbookValidator struct {
	logger *slog.Logger
}

// NewWorkbookValidator creates a new workbook validator.
func NewWorkbookValidator(logger *slog.Logger) *WorkbookValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookValidator{logger: logger}
}

// ValidateSource verifies the path points at a readable spreadsheet file of
// sane size. It does not open the workbook; format errors surface later from
// the parser.
func (v *WorkbookValidator) ValidateSource(path string) error {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("source workbook %s does not exist", path)
	}
	if err != nil {
		return fmt.Errorf("failed to stat source workbook %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source path %s is a directory, not a workbook", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm", ".xls":
	default:
		return fmt.Errorf("source file %s is not a spreadsheet", path)
	}

	if info.Size() == 0 {
		return fmt.Errorf("source workbook %s is empty", path)
	}
	if info.Size() > MaxWorkbookSize {
		v.logger.Error("source workbook exceeds size limit",
			slog.String("path", path),
			slog.Int64("size", info.Size()))
		return fmt.Errorf("source workbook %s is too large (%d bytes)", path, info.Size())
	}

	return nil
}

// ValidateOutputDirectory ensures the directory exists and is writable.
func (v *WorkbookValidator) ValidateOutputDirectory(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}

	probe := filepath.Join(dir, ".write_test")
	f, err := os.Create(probe)
	if err != nil {
		return fmt.Errorf("output directory %s is not writable: %w", dir, err)
	}
	f.Close()
	os.Remove(probe)
	return nil
}
