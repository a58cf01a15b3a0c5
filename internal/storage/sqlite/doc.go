// Package sqlite implements storage.Store on a single SQLite file.
package sqlite
