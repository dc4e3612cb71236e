package snapshot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelope(t *testing.T) {
	t.Parallel()

	want := &Snapshot{Tick: 42, Timestamp: time.Unix(1700000000, 5).UTC(), Data: []byte(`{"entities":[]}`), Version: 1}
	data, err := marshalEnvelope(want)
	require.NoError(t, err)

	got, err := unmarshalEnvelope(data)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	for _, garbage := range [][]byte{nil, {0xc1}, {0x81, 0xa4}, data[:len(data)/2]} {
		_, err = unmarshalEnvelope(garbage)
		assert.Error(t, err, "input %x", garbage)
	}
}
