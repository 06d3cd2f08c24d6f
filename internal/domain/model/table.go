// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
	"strings"
)

// Value is a single cell of a RawTable: a finite number or missing.
type Value struct {
	Number  float64
	Present bool
}

// Present returns a present value. Non-finite numbers are treated as missing.
func Present(x float64) Value {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return Missing()
	}
	return Value{Number: x, Present: true}
}

// Missing returns an absent value.
func Missing() Value { return Value{} }

// ParseValue trims the cell and parses it as a float. Any token that does not
// parse as a finite number (empty, "n/a", "NaN", "Inf") is missing.
func ParseValue(cell string) Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return Missing()
	}
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Missing()
	}
	return Present(x)
}

// Row is one entity's raw values, aligned positionally with RawTable.Periods.
type Row struct {
	Name   string
	Values []Value
}

// RawTable is the loader's output and the normalizer's input.
type RawTable struct {
	// EntityLabel is the header of the first column, e.g. "Technology".
	EntityLabel string
	// Periods are the remaining header labels in column order.
	Periods []string
	// Rows keep input order; ties and missing values are ordered by it.
	Rows []Row
}
