package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// fakeS3 emulates conditional PutObject semantics in memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	etags   map[string]string
	seq     int
	keys    []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, etags: map[string]string{}}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	data, ok := f.objects[key]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{
		Body: io.NopCloser(bytes.NewReader(data)),
		ETag: aws.String(f.etags[key]),
	}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	f.keys = append(f.keys, key)
	current, exists := f.etags[key]
	if aws.ToString(in.IfNoneMatch) == "*" && exists {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "exists"}
	}
	if match := aws.ToString(in.IfMatch); match != "" && match != current {
		return nil, &smithy.GenericAPIError{Code: "PreconditionFailed", Message: "etag mismatch"}
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.seq++
	etag := fmt.Sprintf("\"etag-%d\"", f.seq)
	f.objects[key] = data
	f.etags[key] = etag
	return &s3.PutObjectOutput{ETag: aws.String(etag)}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := aws.ToString(in.Key)
	delete(f.objects, key)
	delete(f.etags, key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3ConditionalWrites(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	store := NewS3WithClient(client, "bucket", "/pathway/")

	if _, err := store.Get(ctx, "stats.json"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get missing = %v", err)
	}
	v1, err := store.Put(ctx, "stats.json", []byte("{}"), PutOptions{IfAbsent: true})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := store.Put(ctx, "stats.json", []byte("{}"), PutOptions{IfAbsent: true}); !errors.Is(err, ErrConflict) {
		t.Fatalf("duplicate create = %v", err)
	}
	if _, err := store.Put(ctx, "stats.json", []byte(`{"a":1}`), PutOptions{IfVersion: v1}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if _, err := store.Put(ctx, "stats.json", []byte(`{"a":2}`), PutOptions{IfVersion: v1}); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale update = %v", err)
	}
	if client.keys[0] != "pathway/stats.json" {
		t.Fatalf("object key = %q, want prefixed key", client.keys[0])
	}
	if err := store.Delete(ctx, "stats.json"); err != nil {
		t.Fatalf("delete: %v", err)
	}
}

func TestS3UpdateJSONConcurrent(t *testing.T) {
	ctx := context.Background()
	store := NewS3WithClient(newFakeS3(), "bucket", "")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := UpdateJSON(ctx, store, "n.json", func(c *counter) error {
				c.N++
				return nil
			}); err != nil {
				t.Errorf("update: %v", err)
			}
		}()
	}
	wg.Wait()

	got, _, err := ReadJSON[counter](ctx, store, "n.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.N != 8 {
		t.Fatalf("counter = %d, want 8", got.N)
	}
}

func TestIsS3PreconditionFailed(t *testing.T) {
	if !isS3PreconditionFailed(&smithy.GenericAPIError{Code: "ConditionalRequestConflict"}) {
		t.Fatal("expected conditional conflict to map to precondition failure")
	}
	if isS3PreconditionFailed(errors.New("timeout")) {
		t.Fatal("plain error must not map to precondition failure")
	}
}
