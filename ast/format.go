package ast

import "strconv"

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
