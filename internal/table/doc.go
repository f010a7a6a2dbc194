// Package table provides the row-oriented storage the registry and the price log sit on.
//
// A Table is an ordered list of string rows addressed by position. Backends:
//   - Sheets: one worksheet of a Google spreadsheet (the production layout)
//   - Postgres: one PostgreSQL table with a serial position column
//   - Memory: an in-process slice, used by tests and dry runs
//
// Tables know nothing about headers; callers decide which rows are data.
package table
