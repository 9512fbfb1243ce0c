package ds

// MakeChunks groups the elements of a slice into chunks of n elements each.
// The last chunk is shorter when len(ts) is not a multiple of n. For example,
//
//	MakeChunks([]int{1, 2, 3, 4, 5}, 2)
//
// returns
//
//	[][]int{{1, 2}, {3, 4}, {5}}
func MakeChunks[T any](ts []T, n int) [][]T {
	if n <= 0 || len(ts) == 0 {
		return nil
	}
	chunks := make([][]T, 0, (len(ts)+n-1)/n)
	for i := 0; i < len(ts); i += n {
		end := i + n
		if end > len(ts) {
			end = len(ts)
		}
		chunks = append(chunks, ts[i:end])
	}
	return chunks
}
