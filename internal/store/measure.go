package store

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Measure is a nullable decimal as it appears on entry forms. Absent,
// empty, and malformed inputs all decode to the zero Measure so they
// contribute 0 to totals instead of failing the request.
type Measure struct {
	Value float64
	Valid bool
}

func MeasureOf(v float64) Measure {
	return Measure{Value: v, Valid: true}
}

func measureFromPtr(p *float64) Measure {
	if p == nil {
		return Measure{}
	}
	return Measure{Value: *p, Valid: true}
}

func (m Measure) Ptr() *float64 {
	if !m.Valid {
		return nil
	}
	v := m.Value
	return &v
}

func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(m.Value, 'f', -1, 64)), nil
}

func (m *Measure) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*m = Measure{}
		return nil
	}
	if s[0] == '"' {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			*m = Measure{}
			return nil
		}
		s = strings.TrimSpace(str)
		if s == "" {
			*m = Measure{}
			return nil
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		*m = Measure{}
		return nil
	}
	*m = Measure{Value: f, Valid: true}
	return nil
}
