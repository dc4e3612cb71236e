package snapshot

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/shamaton/msgpack/v3"
)

// marshalEnvelope encodes a snapshot for storage backends that hold it as a single blob.
// The underlying format is an implementation detail and may change.
func marshalEnvelope(s *Snapshot) ([]byte, error) {
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, eris.Wrap(err, "failed to serialize snapshot")
	}
	return data, nil
}

// unmarshalEnvelope decodes the output of marshalEnvelope.
func unmarshalEnvelope(data []byte) (s *Snapshot, err error) {
	defer func() {
		// msgpack may panic on malformed input instead of returning an error.
		if r := recover(); r != nil {
			s, err = nil, eris.Wrap(fmt.Errorf("panic: %v", r), "failed to deserialize snapshot")
		}
	}()

	var snapshot Snapshot
	if err := msgpack.Unmarshal(data, &snapshot); err != nil {
		return nil, eris.Wrap(err, "failed to deserialize snapshot")
	}
	snapshot.Timestamp = snapshot.Timestamp.UTC()
	return &snapshot, nil
}
