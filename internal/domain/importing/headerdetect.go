package importing

import "strings"

const (
	// headerScanLimit bounds how many leading rows are inspected for headers
	headerScanLimit = 20
	// minHeaderMatches is the minimum keyword hits a row needs to be
	// accepted as the header row; below it we assume headers sit on row 0.
	minHeaderMatches = 2
)

// DetectHeaderRow returns the index of the most plausible header row.
// It counts cells containing a known header keyword over the first
// min(len(rows), headerScanLimit) rows; the first row with the strictly
// highest count wins. Sheets with no recognizable header default to row 0.
func DetectHeaderRow(rows [][]string) int {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	bestRow := 0
	bestCount := 0
	for i := 0; i < limit; i++ {
		count := countHeaderKeywords(rows[i])
		if count > bestCount {
			bestCount = count
			bestRow = i
		}
	}

	if bestCount < minHeaderMatches {
		return 0
	}
	return bestRow
}

func countHeaderKeywords(row []string) int {
	count := 0
	for _, cell := range row {
		cell = strings.ToLower(strings.TrimSpace(cell))
		if cell == "" {
			continue
		}
		for _, keyword := range headerKeywords {
			if strings.Contains(cell, keyword) {
				count++
				break
			}
		}
	}
	return count
}
