// Package chunk partitions system id lists into bounded batches for
// dispatch.
package chunk

import (
	"fmt"

	"github.com/hupe1980/esiq/model"
)

// ConfigError indicates a structurally invalid partitioning parameter.
type ConfigError struct {
	Field string
	Value int
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %d", e.Field, e.Value)
}

// DefaultSize is the chunk size used when none is configured. ESI tolerates
// around this many sequential requests per worker without tripping the
// error limit.
const DefaultSize = 100

// Partition splits ids into ordered chunks of at most size elements.
//
// The result covers every id exactly once, preserves relative order, and
// the final chunk may be shorter than size. The returned chunks share the
// backing array of ids; callers must not mutate the input afterwards.
func Partition(ids []model.SystemID, size int) ([][]model.SystemID, error) {
	if size <= 0 {
		return nil, &ConfigError{Field: "chunk size", Value: size}
	}

	if len(ids) == 0 {
		return nil, nil
	}

	chunks := make([][]model.SystemID, 0, (len(ids)+size-1)/size)
	for start := 0; start < len(ids); start += size {
		end := start + size
		if end > len(ids) {
			end = len(ids)
		}
		chunks = append(chunks, ids[start:end])
	}

	return chunks, nil
}
