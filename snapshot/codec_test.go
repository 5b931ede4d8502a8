package snapshot_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tc-cache/tc-cache/snapshot"
)

func TestLEBytesRoundTrip(t *testing.T) {
	cases := []uint32{0, 1, 123456789, math.MaxUint32}

	for _, u := range cases {
		require.Equal(t, u, snapshot.FromLEBytes(snapshot.IntoLEBytes(u)))
	}
}
