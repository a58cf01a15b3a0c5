package blob

import (
	"context"
	"strconv"
	"sync"
)

// Memory is an in-process Store used in tests and local development.
type Memory struct {
	mu      sync.Mutex
	objects map[string]memoryObject
	seq     uint64
}

type memoryObject struct {
	data    []byte
	version string
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]memoryObject)}
}

func (m *Memory) Get(ctx context.Context, key string) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return Object{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	obj, ok := m.objects[key]
	if !ok {
		return Object{}, ErrNotFound
	}
	return Object{Data: append([]byte(nil), obj.data...), Version: obj.version}, nil
}

func (m *Memory) Put(ctx context.Context, key string, data []byte, opts PutOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	current, exists := m.objects[key]
	if opts.IfAbsent && exists {
		return "", ErrConflict
	}
	if opts.IfVersion != "" && (!exists || current.version != opts.IfVersion) {
		return "", ErrConflict
	}
	m.seq++
	version := strconv.FormatUint(m.seq, 10)
	m.objects[key] = memoryObject{data: append([]byte(nil), data...), version: version}
	return version, nil
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := normalizeKey(key)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

var _ Store = (*Memory)(nil)
