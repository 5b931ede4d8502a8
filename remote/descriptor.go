// Package remote implements the storage descriptor (C7): the small
// record handed from pull to push via a JSON file in the working
// directory, and the construction of a blob.Store from it.
package remote

import (
	"encoding/json"
	"os"

	"github.com/tc-cache/tc-cache/blob"
	"github.com/tc-cache/tc-cache/blob/s3"
	"github.com/tc-cache/tc-cache/internal/errs"
)

// Descriptor is the serializable handoff described in §3: remote URI,
// key prefix, and uploadability flag.
type Descriptor struct {
	URI        string `json:"uri,omitempty"`
	KeyPrefix  string `json:"key_prefix,omitempty"`
	Uploadable bool   `json:"uploadable"`
}

// Load reads a Descriptor from path.
func Load(path string) (Descriptor, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return Descriptor{}, errs.IO(path, err)
	}

	var d Descriptor
	if err := json.Unmarshal(b, &d); err != nil {
		return Descriptor{}, errs.Snapshot("failed to decode storage descriptor", err)
	}

	return d, nil
}

// Save atomically rewrites path with d encoded as JSON.
func Save(path string, d Descriptor) error {
	b, err := json.Marshal(d)
	if err != nil {
		return errs.Snapshot("failed to encode storage descriptor", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return errs.IO(path, err)
	}

	if err := os.Rename(tmp, path); err != nil {
		return errs.IO(path, err)
	}

	return nil
}

// IsDownloadable reports whether d names a usable remote at all.
func (d Descriptor) IsDownloadable() bool {
	return d.URI != ""
}

// IsUploadable reports whether d names a usable remote and the CI
// source marked this build eligible to publish.
func (d Descriptor) IsUploadable() bool {
	return d.URI != "" && d.Uploadable
}

// Key composes the blob-store key for filename: {key_prefix}/{filename}.
func (d Descriptor) Key(filename string) string {
	if d.KeyPrefix == "" {
		return filename
	}

	return d.KeyPrefix + "/" + filename
}

// Store builds the blob.Store driver named by d.URI. Only the s3://
// scheme is currently recognized, per §4.6.
func (d Descriptor) Store() (blob.Store, error) {
	cfg, err := s3.ParseURI(d.URI)
	if err != nil {
		return nil, err
	}

	return s3.New(cfg, s3.DefaultCredentials())
}
