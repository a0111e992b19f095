// Package result shapes the rows of a succeeded query into the summary
// returned to callers.
package result

import (
	"fmt"

	"github.com/jmorrell/longquery/internal/backend"
)

// Summary is the caller-facing view of a completed result set.
type Summary struct {
	RowCount int           `json:"row_count"`
	Text     string        `json:"summary"`
	Data     []backend.Row `json:"data"`
}

// Materialize builds a Summary from any row sequence, including an empty or
// nil one. It never fails.
func Materialize(rows []backend.Row) Summary {
	if rows == nil {
		rows = []backend.Row{}
	}
	return Summary{
		RowCount: len(rows),
		Text:     fmt.Sprintf("Retrieved %d rows", len(rows)),
		Data:     rows,
	}
}
