package blob

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
)

// ErrSkipWrite may be returned by an UpdateJSON mutation to finish without
// writing, e.g. when the document already has the desired content.
var ErrSkipWrite = errors.New("blob: skip write")

const (
	defaultUpdateAttempts = 20
	updateBaseDelay       = 5 * time.Millisecond
	updateMaxJitter       = 20 * time.Millisecond
	updateMaxDelay        = 250 * time.Millisecond
)

// ReadJSON decodes the document at key into a T. A missing document yields
// the zero value and a nil error.
func ReadJSON[T any](ctx context.Context, store Store, key string) (T, string, error) {
	var value T
	obj, err := store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return value, "", nil
	}
	if err != nil {
		return value, "", err
	}
	if len(obj.Data) == 0 {
		return value, obj.Version, nil
	}
	if err := json.Unmarshal(obj.Data, &value); err != nil {
		return value, "", fmt.Errorf("decode blob %s: %w", key, err)
	}
	return value, obj.Version, nil
}

// WriteJSON unconditionally replaces the document at key.
func WriteJSON[T any](ctx context.Context, store Store, key string, value T) error {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Errorf("encode blob %s: %w", key, err)
	}
	if _, err := store.Put(ctx, key, data, PutOptions{}); err != nil {
		return err
	}
	return nil
}

// UpdateJSON runs a read-modify-write cycle on the document at key. mutate
// receives the current value (zero when absent) and edits it in place. The
// write is conditioned on the version read; on ErrConflict the cycle is
// retried with backoff so concurrent writers never lose updates.
func UpdateJSON[T any](ctx context.Context, store Store, key string, mutate func(*T) error) (T, error) {
	if store == nil {
		var zero T
		return zero, fmt.Errorf("blob store is required")
	}
	var result T
	err := retry.Do(
		func() error {
			value, version, err := ReadJSON[T](ctx, store, key)
			if err != nil {
				return retry.Unrecoverable(err)
			}
			if err := mutate(&value); err != nil {
				if errors.Is(err, ErrSkipWrite) {
					result = value
					return nil
				}
				return retry.Unrecoverable(err)
			}
			data, err := json.MarshalIndent(value, "", "  ")
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("encode blob %s: %w", key, err))
			}
			opts := PutOptions{IfVersion: version}
			if version == "" {
				opts = PutOptions{IfAbsent: true}
			}
			if _, err := store.Put(ctx, key, data, opts); err != nil {
				if errors.Is(err, ErrConflict) {
					return err
				}
				return retry.Unrecoverable(err)
			}
			result = value
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(defaultUpdateAttempts),
		retry.Delay(updateBaseDelay),
		retry.MaxJitter(updateMaxJitter),
		retry.MaxDelay(updateMaxDelay),
		retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		retry.RetryIf(func(err error) bool { return errors.Is(err, ErrConflict) }),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		var zero T
		return zero, err
	}
	return result, nil
}
