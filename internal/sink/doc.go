// Package sink appends price observations to the append-only price log.
//
// Each observation becomes one row [timestamp, source, product, value] placed after all
// existing rows. The sink never updates, deduplicates, or deletes rows.
package sink
