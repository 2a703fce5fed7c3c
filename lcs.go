package jsondelta

import "github.com/jsondelta/jsondelta/internal/jsondelta"

// lcs returns the longest common subsequence of two hash sequences.
//
// When several subsequences have the maximal length the one that skips source
// elements first is returned, which keeps the result deterministic.
func lcs(a, b []jsondelta.Hash) []jsondelta.Hash {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return nil
	}

	// table[i*(m+1)+j] is the LCS length of a[i:] and b[j:].
	width := m + 1
	table := make([]int, (n+1)*width)
	for i := n - 1; i >= 0; i-- {
		for j := m - 1; j >= 0; j-- {
			if a[i] == b[j] {
				table[i*width+j] = table[(i+1)*width+j+1] + 1
			} else if down, right := table[(i+1)*width+j], table[i*width+j+1]; down >= right {
				table[i*width+j] = down
			} else {
				table[i*width+j] = right
			}
		}
	}

	result := make([]jsondelta.Hash, 0, table[0])
	i, j := 0, 0
	for i < n && j < m {
		switch {
		case a[i] == b[j]:
			result = append(result, a[i])
			i++
			j++
		case table[(i+1)*width+j] >= table[i*width+j+1]:
			i++
		default:
			j++
		}
	}
	return result
}
