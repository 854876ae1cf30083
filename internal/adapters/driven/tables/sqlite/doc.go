// Package sqlite writes aggregated records to a local SQLite database.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. It is the local alternative to the BigQuery sink and uses
// the same column names and types.
//
// # Schema
//
// The donors and recipients tables are created by versioned migrations
// embedded from the migrations/ directory. Amount is stored as INTEGER.
//
// # Data Location
//
// By default, the database is stored at ~/.pfgrants/data/grants.db
//
// # Writes
//
// Each bulk insert runs in its own transaction. A failed insert rolls back
// that table only.
package sqlite
