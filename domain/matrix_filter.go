package domain

// FilteredCorrelation is a correlation matrix with every invalid comment
// removed from both axes.
type FilteredCorrelation struct {
	Matrix   [][]float64 `json:"matrix"`
	Tids     []int       `json:"tids"`
	Excluded []int       `json:"excluded"`
}

// IsExcluded reports whether tid was dropped by the filter.
func (f FilteredCorrelation) IsExcluded(tid int) bool {
	for _, t := range f.Excluded {
		if t == tid {
			return true
		}
	}
	return false
}

// FilterCorrelationMatrix drops every tid whose row is marked invalid or
// is shorter than the matrix, removing its row and its column. Remaining
// rows, columns and tids keep their relative order, so the result is
// square. Rows and tids beyond their common length are ignored.
func FilterCorrelationMatrix(m CorrelationMatrix) FilteredCorrelation {
	n := min(len(m.Matrix), len(m.Comments))

	keep := make([]int, 0, n)
	excluded := []int{}
	for i := 0; i < n; i++ {
		if m.Matrix[i].Invalid || len(m.Matrix[i].Values) < n {
			excluded = append(excluded, m.Comments[i])
			continue
		}
		keep = append(keep, i)
	}

	filtered := FilteredCorrelation{
		Matrix:   make([][]float64, 0, len(keep)),
		Tids:     make([]int, 0, len(keep)),
		Excluded: excluded,
	}
	for _, i := range keep {
		values := m.Matrix[i].Values
		row := make([]float64, 0, len(keep))
		for _, j := range keep {
			row = append(row, values[j])
		}
		filtered.Matrix = append(filtered.Matrix, row)
		filtered.Tids = append(filtered.Tids, m.Comments[i])
	}
	return filtered
}
