package loandata

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	apperrors "loanlens/internal/errors"
)

// FindDatasetFiles lists CSV and XLSX files in dir, newest first
func FindDatasetFiles(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, apperrors.NewStorageError("read dataset directory", err).WithContext("dir", dir)
	}

	var files []FileInfo
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext != ".csv" && ext != ".xlsx" {
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
		if !files[i].ModTime.Equal(files[j].ModTime) {
			return files[i].ModTime.After(files[j].ModTime)
		}
		return files[i].Name < files[j].Name
	})

	return files, nil
}

// LatestDataset returns the newest dataset file in dir, the CLI default input
func LatestDataset(dir string) (string, error) {
	files, err := FindDatasetFiles(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", apperrors.NewNotFoundError("dataset file").WithContext("dir", dir)
	}
	return files[0].Path, nil
}
