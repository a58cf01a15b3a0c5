package blob

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
)

// Config selects and configures a blob backend.
type Config struct {
	Backend    string `env:"PATHWAY_BLOB_BACKEND" envDefault:"sqlite"`
	S3Bucket   string `env:"PATHWAY_BLOB_S3_BUCKET"`
	S3Prefix   string `env:"PATHWAY_BLOB_S3_PREFIX" envDefault:"pathway"`
	S3Region   string `env:"PATHWAY_BLOB_S3_REGION"`
	S3Endpoint string `env:"PATHWAY_BLOB_S3_ENDPOINT"`
}

// Open builds the configured backend. db backs the sqlite backend and may be
// nil for the others.
func Open(ctx context.Context, cfg Config, db *sql.DB) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendSQLite:
		return NewSQLite(ctx, db)
	case BackendMemory:
		return NewMemory(), nil
	case BackendS3:
		return NewS3(ctx, S3Config{
			Bucket:   cfg.S3Bucket,
			Prefix:   cfg.S3Prefix,
			Region:   cfg.S3Region,
			Endpoint: cfg.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown blob backend %q", cfg.Backend)
	}
}
