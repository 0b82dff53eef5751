// Package writer persists fetched time-series rows into TimescaleDB.
//
// Rows are inserted in chunks via pgx.Batch with ON CONFLICT DO NOTHING,
// so re-fetching an overlapping window is safe.
package writer
