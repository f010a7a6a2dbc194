// Package database provides connection pool management for the PostgreSQL storage backend.
//
// When storage.backend is "postgres", both the article registry and the price log
// live in one database, each in its own table (see package table).
package database
