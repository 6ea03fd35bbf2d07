// Package exporter writes pipeline artefacts to disk: corrected flow tables
// and per-country metrics as CSV, full comparison reports as HTML, and
// multi-sheet Excel workbooks for downstream spreadsheet work.
package exporter
