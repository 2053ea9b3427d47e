// Package exporter writes cleaned registration data and derived reports to
// disk.
//
// This package contains two main components:
//
// CSVWriter: Core CSV writing functionality with support for headers,
// streaming, and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: Writes the cleaned vehicle table, the summary statistics
// as JSON, and a multi-sheet Excel report.
//
// Example usage:
//
//	writer := exporter.NewCSVWriter("data")
//	reports := exporter.NewReportExporter(writer, logger)
//
//	// Export the cleaned records
//	err := reports.ExportVehicles(dataset.Vehicles, "cleaned.csv")
//
//	// Export summary statistics
//	err = reports.ExportSummaryJSON(summary, "summary.json")
package exporter
