package files

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// FileInfo describes a discovered workbook file.
type FileInfo struct {
	Path    string
	Name    string
	Size    int64
	ModTime time.Time
}

// workbookExtensions are the spreadsheet formats the extractor can read.
var workbookExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
	".xls":  {},
}

// FindWorkbooks lists the spreadsheet files directly inside dir, newest
// first. Subdirectories are not descended into.
func FindWorkbooks(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if _, ok := workbookExtensions[strings.ToLower(filepath.Ext(name))]; !ok {
			continue
		}
		// Office lock files start with ~$ and are never real workbooks.
		if strings.HasPrefix(name, "~$") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, FileInfo{
			Path:    filepath.Join(dir, name),
			Name:    name,
			Size:    info.Size(),
			ModTime: info.ModTime(),
		})
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].ModTime.After(files[j].ModTime)
	})
	return files, nil
}

// LatestWorkbook returns the most recently modified workbook in dir.
func LatestWorkbook(dir string) (FileInfo, error) {
	workbooks, err := FindWorkbooks(dir)
	if err != nil {
		return FileInfo{}, err
	}
	if len(workbooks) == 0 {
		return FileInfo{}, fmt.Errorf("no workbook files in %s", dir)
	}
	return workbooks[0], nil
}
