// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package view

import (
	"math"
	"strconv"
)

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatFileSize renders a byte count the way the file info panel shows it:
// powers of 1024, at most two decimals, trailing zeros dropped.
// Sizes beyond the GB range stay in GB.
func FormatFileSize(n int64) string {
	if n <= 0 {
		return "0 Bytes"
	}
	i := 0
	for div := int64(1024); i < len(sizeUnits)-1 && n >= div; div *= 1024 {
		i++
	}
	v := float64(n) / math.Pow(1024, float64(i))
	v = math.Round(v*100) / 100
	return strconv.FormatFloat(v, 'f', -1, 64) + " " + sizeUnits[i]
}
