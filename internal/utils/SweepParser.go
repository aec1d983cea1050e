package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseSweep parses an adversarial-fraction sweep spec of the form
// "start:end:step", e.g. "0.05:0.5:0.05". The range is inclusive of end
// up to float tolerance.
func ParseSweep(s string) (start, end, step float64, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("unexpected sweep format: %s", s)
	}
	start, err = strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected sweep format: %s", s)
	}
	end, err = strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected sweep format: %s", s)
	}
	step, err = strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("unexpected sweep format: %s", s)
	}
	if step <= 0 {
		return 0, 0, 0, fmt.Errorf("sweep step must be positive: %s", s)
	}
	if end < start {
		return 0, 0, 0, fmt.Errorf("sweep end below start: %s", s)
	}
	return start, end, step, nil
}

// SweepValues expands a sweep spec into its value list.
func SweepValues(s string) ([]float64, error) {
	start, end, step, err := ParseSweep(s)
	if err != nil {
		return nil, err
	}
	var values []float64
	for v := start; v <= end+step/1e6; v += step {
		values = append(values, v)
	}
	return values, nil
}
