package chunk

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/esiq/model"
)

func seq(n int) []model.SystemID {
	ids := make([]model.SystemID, n)
	for i := range ids {
		ids[i] = model.SystemID(30000000 + i)
	}
	return ids
}

func TestPartition(t *testing.T) {
	tests := []struct {
		name      string
		n         int
		size      int
		wantLens  []int
		wantCount int
	}{
		{"Exact multiple", 200, 100, []int{100, 100}, 2},
		{"Short tail", 250, 100, []int{100, 100, 50}, 3},
		{"Single short chunk", 7, 100, []int{7}, 1},
		{"Size one", 3, 1, []int{1, 1, 1}, 3},
		{"Empty input", 0, 100, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids := seq(tt.n)

			chunks, err := Partition(ids, tt.size)
			require.NoError(t, err)
			require.Len(t, chunks, tt.wantCount)

			// Concatenation must reproduce the input exactly: no
			// gaps, no overlaps, order preserved.
			flat := make([]model.SystemID, 0, tt.n)
			for i, c := range chunks {
				assert.Equal(t, tt.wantLens[i], len(c))
				assert.LessOrEqual(t, len(c), tt.size)
				flat = append(flat, c...)
			}
			assert.Equal(t, ids, flat)
		})
	}
}

func TestPartitionCeilCount(t *testing.T) {
	for _, n := range []int{1, 99, 100, 101, 999, 1000, 8000} {
		for _, size := range []int{1, 7, 100, 250} {
			chunks, err := Partition(seq(n), size)
			require.NoError(t, err)

			want := (n + size - 1) / size
			assert.Len(t, chunks, want, "n=%d size=%d", n, size)
		}
	}
}

func TestPartitionInvalidSize(t *testing.T) {
	for _, size := range []int{0, -1, -100} {
		_, err := Partition(seq(10), size)
		require.Error(t, err)

		var ce *ConfigError
		require.ErrorAs(t, err, &ce)
		assert.Equal(t, size, ce.Value)
	}
}
