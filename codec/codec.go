// Package codec centralizes record encoding.
//
// Cached records are persisted as JSON; both codecs here produce
// interchangeable bytes, so switching between them does not invalidate
// an existing cache directory.
package codec

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is configured.
var Default Codec = GoJSON{}
