// Package table provides the schema-free tabular model shared by all
// pipeline stages, plus readers for the raw file formats produced by the
// simulation layer (CSV, Excel, HDF5).
//
// Column sets vary by source file; tables merge as a union of observed
// columns with explicit null cells for absences. Every ingested row carries
// a provenance column naming its originating file, and row identity is
// never merged across files.
package table
