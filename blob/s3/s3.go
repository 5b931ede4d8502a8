// Package s3 implements the object-store driver for blob.Store,
// grounded on the minio-go client used throughout the example pack's S3
// drivers (_examples/akash-rp-kopia/repo/blob/s3/s3_storage.go).
package s3

import (
	"bytes"
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tc-cache/tc-cache/blob"
	"github.com/tc-cache/tc-cache/internal/errs"
)

// Scheme is the URI scheme recognized by ParseURI.
const Scheme = "s3"

// partSize and maxParts implement §4.6's multi-part contract: 10 MiB
// parts, at most 10 in flight.
const (
	partSize = 10 * 1024 * 1024
	maxParts = 10
)

// Config is the result of parsing a URI of the form
// s3://bucket[/key_prefix][?region=NAME][&endpoint=URL]. endpoint wins
// over region when both are present (SPEC_FULL.md Open Questions).
type Config struct {
	Bucket   string
	Prefix   string
	Region   string
	Endpoint string
	UseSSL   bool
}

// ParseURI parses an s3:// URI into a Config.
func ParseURI(uri string) (Config, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return Config{}, errs.Storage("invalid storage uri", err)
	}

	if u.Scheme != Scheme {
		return Config{}, errs.Storagef("unknown remote uri scheme %q", u.Scheme)
	}

	if u.Host == "" {
		return Config{}, errs.Storagef("unrecognized bucket in uri %q", uri)
	}

	cfg := Config{
		Bucket: u.Host,
		Prefix: strings.TrimPrefix(u.Path, "/"),
		Region: u.Query().Get("region"),
	}

	if endpoint := u.Query().Get("endpoint"); endpoint != "" {
		cfg.Endpoint = endpoint
		cfg.UseSSL = strings.HasPrefix(endpoint, "https://")
		cfg.Endpoint = strings.TrimPrefix(strings.TrimPrefix(cfg.Endpoint, "https://"), "http://")
	} else {
		cfg.Endpoint = "s3.amazonaws.com"
		cfg.UseSSL = true
	}

	return cfg, nil
}

// String reassembles the URI, endpoint taking precedence over region in
// the query string, matching original_source/src/storage/backend/s3.rs's
// ToString impl.
func (c Config) String() string {
	var b strings.Builder

	b.WriteString("s3://")
	b.WriteString(c.Bucket)

	if c.Prefix != "" {
		b.WriteByte('/')
		b.WriteString(c.Prefix)
	}

	if c.Endpoint != "" && c.Endpoint != "s3.amazonaws.com" {
		b.WriteString("?endpoint=")
		b.WriteString(c.Endpoint)
	} else if c.Region != "" {
		b.WriteString("?region=")
		b.WriteString(c.Region)
	}

	return b.String()
}

// Storage is the minio-go-backed blob.Store implementation.
type Storage struct {
	cli    *minio.Client
	bucket string
	prefix string
}

// New builds a Storage from cfg using creds, the driver's standard
// credential mechanism (env vars, shared config file, or IAM role — see
// DefaultCredentials).
func New(cfg Config, creds *credentials.Credentials) (*Storage, error) {
	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Storage("failed to build s3 client", err)
	}

	return &Storage{cli: cli, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// DefaultCredentials chains the standard discovery mechanisms: explicit
// environment variables, then the shared AWS credentials file, then an
// IAM instance role.
func DefaultCredentials() *credentials.Credentials {
	return credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{},
	})
}

func (s *Storage) keyPrefixed(key string) string {
	if s.prefix == "" {
		return key
	}

	return s.prefix + "/" + key
}

// Get fetches the full object named key via a single ranged GET; the
// content-length header must be positive or the driver fails.
func (s *Storage) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.cli.GetObject(ctx, s.bucket, s.keyPrefixed(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(err)
	}
	defer obj.Close()

	info, err := obj.Stat()
	if err != nil {
		return nil, translateError(err)
	}

	if info.Size <= 0 {
		return nil, errs.Storagef("content length must be positive, got %d", info.Size)
	}

	buf := make([]byte, info.Size)
	if _, err := io.ReadFull(obj, buf); err != nil {
		return nil, errs.Storage("failed to read object body", err)
	}

	return buf, nil
}

// Put uploads data under key using multi-part transfer: 10 MiB parts,
// at most 10 in flight.
func (s *Storage) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.cli.PutObject(ctx, s.bucket, s.keyPrefixed(key), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{
			SendContentMd5: true,
			PartSize:       partSize,
			NumThreads:     maxParts,
		})
	if err != nil {
		return translateError(err)
	}

	return nil
}

func translateError(err error) error {
	resp := minio.ToErrorResponse(err)

	switch resp.StatusCode {
	case 404:
		return blob.ErrBlobNotFound
	default:
		return errs.Storage("s3 request failed", err)
	}
}
