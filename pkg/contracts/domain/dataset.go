package domain

import (
	"time"

	"github.com/google/uuid"
)

// DatasetFormat identifies the flat-file format a dataset was loaded from
type DatasetFormat string

const (
	FormatCSV  DatasetFormat = "csv"
	FormatXLSX DatasetFormat = "xlsx"
)

// DatasetMetadata describes a loaded dataset for logging and reporting
type DatasetMetadata struct {
	ID         string        `json:"id" validate:"required,uuid"`
	SourcePath string        `json:"source_path" validate:"required"`
	Format     DatasetFormat `json:"format"`
	RowCount   int           `json:"row_count"`
	LoadedAt   time.Time     `json:"loaded_at"`
}

// NewDatasetMetadata creates metadata for a freshly loaded dataset
func NewDatasetMetadata(sourcePath string, format DatasetFormat, rowCount int) DatasetMetadata {
	return DatasetMetadata{
		ID:         uuid.New().String(),
		SourcePath: sourcePath,
		Format:     format,
		RowCount:   rowCount,
		LoadedAt:   time.Now().UTC(),
	}
}
