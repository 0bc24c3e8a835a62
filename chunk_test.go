package parfor

import (
	"slices"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	tests := []struct {
		name string
		in   []int
		size int
	}{
		{name: "exact multiple", in: lo.Range(6), size: 3},
		{name: "remainder", in: lo.Range(7), size: 3},
		{name: "single element chunks", in: lo.Range(3), size: 1},
		{name: "larger than input", in: lo.Range(2), size: 5},
		{name: "empty input", in: nil, size: 3},
		{name: "non-positive size", in: lo.Range(4), size: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := slices.Collect(Chunk(slices.Values(tt.in), tt.size))

			want := [][]int{}
			if len(tt.in) > 0 {
				size := tt.size
				if size <= 0 {
					size = len(tt.in)
				}
				want = lo.Chunk(tt.in, size)
			}
			if len(want) == 0 {
				require.Empty(t, got)
				return
			}
			require.Equal(t, want, got)
		})
	}
}

func TestChunk_StopsEarly(t *testing.T) {
	reads := 0
	source := func(yield func(int) bool) {
		for i := 0; i < 100; i++ {
			reads++
			if !yield(i) {
				return
			}
		}
	}

	for c := range Chunk(source, 4) {
		require.Equal(t, []int{0, 1, 2, 3}, c)
		break
	}
	require.Equal(t, 4, reads)
}
