package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	CorrelationStatusPending               = "pending"
	CorrelationStatusNeedsCommentSelection = "polis_report_needs_comment_selection"
)

// invalidRowMarker replaces a whole matrix row when the correlation of a
// comment could not be computed.
const invalidRowMarker = "NaN"

// CorrelationMatrix is the pairwise comment correlation computed
// asynchronously by the math service. Matrix rows and Comments are index
// aligned.
type CorrelationMatrix struct {
	Status   string           `json:"status,omitempty"`
	Matrix   []CorrelationRow `json:"matrix,omitempty"`
	Comments []int            `json:"comments,omitempty"`
}

// IsPending reports whether the computation is still running.
func (m CorrelationMatrix) IsPending() bool {
	return m.Status == CorrelationStatusPending
}

func (m CorrelationMatrix) NeedsCommentSelection() bool {
	return m.Status == CorrelationStatusNeedsCommentSelection
}

type CorrelationRow struct {
	Values  []float64
	Invalid bool
}

func (r CorrelationRow) MarshalJSON() ([]byte, error) {
	if r.Invalid {
		return json.Marshal(invalidRowMarker)
	}
	if r.Values == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(r.Values)
}

// UnmarshalJSON accepts a list of numbers, the "NaN" marker or null. A
// null row carries no correlations and is treated like the marker.
func (r *CorrelationRow) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = CorrelationRow{Invalid: true}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var marker string
		if err := json.Unmarshal(data, &marker); err != nil {
			return err
		}
		if marker != invalidRowMarker {
			return fmt.Errorf("unexpected correlation row marker %q", marker)
		}
		*r = CorrelationRow{Invalid: true}
		return nil
	}
	var values []float64
	if err := json.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to decode correlation row: %w", err)
	}
	*r = CorrelationRow{Values: values}
	return nil
}
