// SPDX-License-Identifier: MIT
// Package: usgflow/datafile
//
// fortran.go — numbers as Fortran text output writes them.

package datafile

import (
	"math"
	"strconv"
	"strings"
)

var fortranExp = strings.NewReplacer("D", "E", "d", "e")

// ParseFloat parses a Fortran real: D exponents are accepted and a field of
// asterisks (an overflowed edit descriptor) reads as NaN.
func ParseFloat(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s != "" && strings.Trim(s, "*") == "" {
		return math.NaN(), nil
	}
	return strconv.ParseFloat(fortranExp.Replace(s), 64)
}
