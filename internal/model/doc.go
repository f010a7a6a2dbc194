// Package model defines shared data types used across the price monitor.
//
// Conventions:
//   - Articles: marketplace product identifiers, digits only (e.g. "100200300")
//   - Prices: decimal text in major currency units (e.g. "1500.0")
//   - Timestamps: wall clock in the configured time zone
//   - IDs: uuid.UUID for batch runs
package model
