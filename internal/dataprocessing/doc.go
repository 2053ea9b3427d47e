// Package dataprocessing provides the data-cleaning and analysis pipeline for
// electric-vehicle registration datasets. It consolidates ingestion,
// normalization, and statistics into a cohesive package that handles the
// complete lifecycle from CSV/XLSX ingestion to derived insight tables.
//
// # Architecture
//
// The package is organized into four main components:
//
//  1. Loader: Reads CSV or Excel files into a raw tabular form
//  2. Normalizer: Reconciles column names, coerces types, and imputes gaps
//  3. Summarizer: Computes descriptive summary statistics
//  4. Analytics: Generates growth, trend, and top-N breakdown tables
//
// # Usage
//
// Basic pipeline example:
//
//	loader := dataprocessing.NewLoader(logger)
//	raw, err := loader.LoadCSVFile("ev_population.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	norm := dataprocessing.NewNormalizer(logger)
//	dataset, err := norm.Normalize(raw, "ev_population.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	summary := dataprocessing.NewSummarizer(logger).Summarize(dataset.Vehicles)
//
// # Data Flow
//
// The typical data flow through this package:
//
//	CSV/XLSX → Loader → RawTable → Normalizer → Dataset → Summarizer/Analytics → Structured tables
//
// # Error Handling
//
// Only two conditions are fatal: an unreadable or malformed input file, and
// required columns (Make, Model, Model Year) missing after reconciliation.
// The latter is reported as *MissingColumnsError naming exactly the missing
// columns. Every other anomaly degrades gracefully: optional columns are
// synthesized, unparseable numeric cells are imputed with the column median,
// and unmatched geometry strings are excluded from the coordinate set only.
// Recoverable conditions surface as warnings on the produced Dataset.
package dataprocessing
