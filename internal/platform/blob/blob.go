// Package blob stores small JSON documents in object storage with
// compare-and-swap writes.
//
// Every object carries an opaque Version. Writers read an object, modify it
// and write it back conditioned on the version they read; a concurrent writer
// makes the conditional write fail with ErrConflict, and UpdateJSON retries
// the whole read-modify-write cycle.
package blob

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when no object exists at the key.
	ErrNotFound = errors.New("blob: not found")
	// ErrConflict is returned when a conditional write loses a race.
	ErrConflict = errors.New("blob: version conflict")
)

// Object is a stored document and the version it was read at.
type Object struct {
	Data    []byte
	Version string
}

// PutOptions makes a write conditional.
type PutOptions struct {
	// IfVersion only writes when the stored version matches.
	IfVersion string
	// IfAbsent only writes when no object exists yet.
	IfAbsent bool
}

// Store is the object storage surface used by the site and back-office.
type Store interface {
	Get(ctx context.Context, key string) (Object, error)
	// Put writes data and returns the new version.
	Put(ctx context.Context, key string, data []byte, opts PutOptions) (string, error)
	Delete(ctx context.Context, key string) error
}

func normalizeKey(key string) (string, error) {
	key = strings.Trim(strings.TrimSpace(key), "/")
	if key == "" {
		return "", errors.New("blob key is required")
	}
	return key, nil
}
