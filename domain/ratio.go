package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// Ratio is a quotient that may be undefined. A zero denominator yields an
// invalid Ratio, which serializes as JSON null.
type Ratio struct {
	Value float64
	Valid bool
}

func NewRatio(numerator, denominator float64) Ratio {
	if denominator == 0 {
		return Ratio{}
	}
	v := numerator / denominator
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Ratio{}
	}
	return Ratio{Value: v, Valid: true}
}

// String renders the ratio with two decimals, or "-" when undefined.
func (r Ratio) String() string {
	if !r.Valid {
		return "-"
	}
	return strconv.FormatFloat(r.Value, 'f', 2, 64)
}

func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.Valid {
		return []byte("null"), nil
	}
	return strconv.AppendFloat(nil, r.Value, 'g', -1, 64), nil
}

func (r *Ratio) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*r = Ratio{}
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio{Value: v, Valid: true}
	return nil
}
