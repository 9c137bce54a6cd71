package imagecache

import (
	"image"

	"vincit.fi/picture-triage/api/apitype"
)

// pendingEntry is produced by a worker and owned by the pending queue until
// the interactive thread drains it. Either img or err is set.
type pendingEntry struct {
	imageFile  *apitype.ImageFile
	name       string
	img        *image.NRGBA
	err        error
	generation string
}

func (s *pendingEntry) succeeded() bool {
	return s.err == nil
}

// partition splits items into n contiguous chunks. The last chunk absorbs the
// remainder. n is capped to len(items).
func partition[T any](items []T, n int) [][]T {
	if len(items) == 0 {
		return nil
	}
	n = min(max(n, 1), len(items))
	size := len(items) / n
	chunks := make([][]T, 0, n)
	for i := 0; i < n; i++ {
		start := i * size
		end := start + size
		if i == n-1 {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}
