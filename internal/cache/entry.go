package cache

import (
	"time"

	"github.com/vmihailenco/msgpack/v5"
)

// entry is the stored envelope around a serialized response body.
type entry struct {
	Body     []byte    `msgpack:"body"`
	Tag      string    `msgpack:"tag"`
	StoredAt time.Time `msgpack:"stored_at"`
}

func encodeEntry(e entry) ([]byte, error) {
	return msgpack.Marshal(&e)
}

func decodeEntry(b []byte) (entry, error) {
	var e entry
	err := msgpack.Unmarshal(b, &e)
	return e, err
}
