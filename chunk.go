package parfor

import "iter"

// Chunk splits source into consecutive slices of at most size elements.
// It is lazy: source is read once, one chunk ahead of the consumer.
// A non-positive size yields a single chunk holding the whole source.
func Chunk[T any](source iter.Seq[T], size int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		var buf []T
		for v := range source {
			buf = append(buf, v)
			if size > 0 && len(buf) == size {
				if !yield(buf) {
					return
				}
				buf = nil
			}
		}
		if len(buf) > 0 {
			yield(buf)
		}
	}
}
