package s3_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/blob/s3"
)

func TestParseURI(t *testing.T) {
	cases := []struct {
		uri      string
		bucket   string
		prefix   string
		region   string
		endpoint string
	}{
		{"s3://bucket-name/prefix?region=eu-west-1", "bucket-name", "prefix", "eu-west-1", "s3.amazonaws.com"},
		{"s3://bucket-name?region=eu-west-1", "bucket-name", "", "eu-west-1", "s3.amazonaws.com"},
		{"s3://bucket-name/prefix", "bucket-name", "prefix", "", "s3.amazonaws.com"},
		{"s3://bucket-name", "bucket-name", "", "", "s3.amazonaws.com"},
		{"s3://bucket-name/?endpoint=http://localhost:8080", "bucket-name", "", "", "localhost:8080"},
	}

	for _, c := range cases {
		cfg, err := s3.ParseURI(c.uri)
		require.NoError(t, err, c.uri)
		require.Equal(t, c.bucket, cfg.Bucket, c.uri)
		require.Equal(t, c.prefix, cfg.Prefix, c.uri)
		require.Equal(t, c.region, cfg.Region, c.uri)
		require.Equal(t, c.endpoint, cfg.Endpoint, c.uri)
	}
}

func TestParseURIEndpointWinsOverRegion(t *testing.T) {
	cfg, err := s3.ParseURI("s3://bucket?region=eu-west&endpoint=localhost:9000")
	require.NoError(t, err)
	require.Equal(t, "localhost:9000", cfg.Endpoint)
}

func TestParseURIRejectsUnknownScheme(t *testing.T) {
	_, err := s3.ParseURI("http://example.com")
	require.Error(t, err)
}
