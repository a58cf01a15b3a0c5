// Package storage defines the relational records and persistence interfaces
// shared by the site and the back-office.
//
// The SQLite implementation lives in the sqlite subpackage. Lookups of
// missing records fail with ErrNotFound (code NOT_FOUND).
package storage
