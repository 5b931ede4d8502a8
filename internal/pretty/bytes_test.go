package pretty_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/internal/pretty"
)

func TestBytes(t *testing.T) {
	cases := []struct {
		n        uint64
		expected string
	}{
		{0, "0b"},
		{1, "1b"},
		{10, "10b"},
		{999, "999b"},
		{1001, "1001b"},
		{1678, "1.64kb"},
		{14368916, "13.70mb"},
		{1186806872, "1.11gb"},
	}

	for _, c := range cases {
		require.Equal(t, c.expected, pretty.Bytes(c.n), "for %d", c.n)
	}
}
