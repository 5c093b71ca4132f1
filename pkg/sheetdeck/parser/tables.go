package parser

// bounds is the bounding box of non-empty cells, 0-based and inclusive.
type bounds struct {
	minRow, maxRow int
	minCol, maxCol int
}

// empty reports whether no non-empty cell was found.
func (b bounds) empty() bool {
	return b.maxRow < 0
}

// dataBounds finds the bounding box of non-empty cells.
func dataBounds(rows [][]string) bounds {
	b := bounds{minRow: -1, maxRow: -1, minCol: -1, maxCol: -1}

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell == "" {
				continue
			}
			if b.minRow < 0 {
				b.minRow = rowIdx
			}
			b.maxRow = rowIdx
			if b.minCol < 0 || colIdx < b.minCol {
				b.minCol = colIdx
			}
			if colIdx > b.maxCol {
				b.maxCol = colIdx
			}
		}
	}

	return b
}
