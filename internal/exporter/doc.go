// Package exporter provides CSV export functionality for LoanLens.
//
// This package contains three main components:
//
// CSVWriter: Core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// RecordExporter: Streams cleaned loan records to disk so a filtered dataset
// can be re-used as input to later runs.
//
// Distribution exports: status and grade distribution tables produced during
// dataset inspection.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter(paths)
//
//	// Export cleaned records
//	recordExporter := exporter.NewRecordExporter(writer)
//	err := recordExporter.ExportCleanedRecords(records, "loans_cleaned.csv")
//
//	// Export a status distribution table
//	err = recordExporter.ExportStatusDistribution(statuses, "status_distribution.csv")
package exporter
