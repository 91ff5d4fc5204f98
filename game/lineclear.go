package game

// ClearLines removes every full row, shifting the rows above down
// Scans bottom-up and re-examines the same index after a shift so stacked
// full rows resolve in a single pass. Returns the number of rows removed
func ClearLines(b *Board) int {
	cleared := 0
	for r := Height - 1; r >= 0; {
		if b.RowFull(r) {
			b.ShiftRowsDown(r)
			cleared++
			continue
		}
		r--
	}
	return cleared
}
