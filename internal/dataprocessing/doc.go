// Package dataprocessing turns per-product spreadsheets into the unified
// product dataset and derives the series the dashboard charts.
//
// The pipeline is:
//
//	TableReader (xlsx or Google Sheets) → LoadAll → Unify → Dataset
//	Dataset + Selection → Resolve → Subset → RollingMean / ComparisonSeries / Describe
//
// Everything after loading is a pure function of its inputs. A Dataset is
// immutable once built and may be shared across goroutines.
package dataprocessing
