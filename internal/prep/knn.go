package prep

import (
	"math"
	"sort"
)

// knnModel imputes a numeric matrix from a fitted donor matrix. NaN marks a
// missing cell in both the donors and the receivers.
type knnModel struct {
	k      int
	donors [][]float64
	means  []float64
}

// nanEuclidean is the distance over coordinates present in both rows,
// scaled up by total/present coordinates. ok is false when the rows share
// no present coordinate.
func nanEuclidean(a, b []float64) (float64, bool) {
	var sum float64
	present := 0
	for j := range a {
		if math.IsNaN(a[j]) || math.IsNaN(b[j]) {
			continue
		}
		d := a[j] - b[j]
		sum += d * d
		present++
	}
	if present == 0 {
		return 0, false
	}
	return math.Sqrt(float64(len(a)) / float64(present) * sum), true
}

type neighbor struct {
	idx  int
	dist float64
}

// impute fills the NaN cells of row in place and returns how many it filled.
func (m *knnModel) impute(row []float64) int {
	var missing []int
	for j, v := range row {
		if math.IsNaN(v) {
			missing = append(missing, j)
		}
	}
	if len(missing) == 0 {
		return 0
	}

	near := make([]neighbor, 0, len(m.donors))
	for i, d := range m.donors {
		if dist, ok := nanEuclidean(row, d); ok {
			near = append(near, neighbor{idx: i, dist: dist})
		}
	}
	sort.SliceStable(near, func(a, b int) bool { return near[a].dist < near[b].dist })

	for _, j := range missing {
		var sum float64
		n := 0
		for _, nb := range near {
			v := m.donors[nb.idx][j]
			if math.IsNaN(v) {
				continue
			}
			sum += v
			n++
			if n == m.k {
				break
			}
		}
		if n == 0 {
			row[j] = m.means[j]
			continue
		}
		row[j] = sum / float64(n)
	}
	return len(missing)
}

// columnMeans averages the present cells per column; an all-missing column
// gets 0.
func columnMeans(rows [][]float64, width int) []float64 {
	means := make([]float64, width)
	for j := 0; j < width; j++ {
		var sum float64
		n := 0
		for _, r := range rows {
			if !math.IsNaN(r[j]) {
				sum += r[j]
				n++
			}
		}
		if n > 0 {
			means[j] = sum / float64(n)
		}
	}
	return means
}
