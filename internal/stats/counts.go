package stats

import "sort"

// Count is a value with its number of occurrences.
type Count struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Counts tallies values and returns them by count descending, ties by value.
func Counts(vals []string) []Count {
	m := map[string]int{}
	for _, v := range vals {
		m[v]++
	}
	out := make([]Count, 0, len(m))
	for k, n := range m {
		out = append(out, Count{Value: k, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Value < out[j].Value
		}
		return out[i].Count > out[j].Count
	})
	return out
}

// Top returns at most k entries of Counts(vals).
func Top(vals []string, k int) []Count {
	c := Counts(vals)
	if len(c) > k {
		c = c[:k]
	}
	return c
}

// Mode returns the most frequent value; ties go to the lexicographically
// smallest. ok is false for empty input.
func Mode(vals []string) (string, bool) {
	c := Counts(vals)
	if len(c) == 0 {
		return "", false
	}
	return c[0].Value, true
}
