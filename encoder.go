package shiftview

import (
	"github.com/pthm/shiftview/lib/encoding"
)

// Encoder is an alias for encoding.Encoder for convenience.
type Encoder = encoding.Encoder

// Encodable is implemented by props that encode themselves into a map.
type Encodable = encoding.Encodable

// Decodable is implemented by props that decode themselves from a map.
type Decodable = encoding.Decodable

// NewEncoder creates a new encoder with the given encryption key.
func NewEncoder(key []byte) (*Encoder, error) {
	return encoding.NewEncoder(key)
}
