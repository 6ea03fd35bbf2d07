// Package dataload reads bilateral trade-flow and production datasets for a
// crop and year and turns them into normalised, aligned tables.
//
// Datasets follow the FAOSTAT-derived preprocessed layout: a trade matrix file
// (rows are exporters, columns are importers) and a production file (one row
// per country), named
//
//	<crop>_Y<year>_<region>_trade.csv
//	<crop>_Y<year>_<region>_production.csv
//
// or a single workbook <crop>_Y<year>_<region>.xlsx with Trade and Production
// sheets.
//
// Country identifiers are normalised to one canonical short name: historical
// and composite entries are remapped (e.g. "Serbia and Montenegro" becomes
// "Serbia"), long official names are shortened, and aggregate rows that do not
// represent countries ("World", "European Union (27)", ...) are removed.
// Negative and missing quantities are treated as zero.
//
// The Provider interface decouples the model from the storage format so tests
// can substitute synthetic in-memory fixtures.
package dataload
