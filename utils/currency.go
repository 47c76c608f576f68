package utils

import "fmt"

// FormatAmount renders an integer amount in the smallest currency unit with
// thousands separators, e.g. 1500000 -> "Rp 1.500.000".
func FormatAmount(amount int64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	digits := fmt.Sprintf("%d", amount)
	out := ""
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out += "."
		}
		out += string(d)
	}

	if negative {
		return "Rp -" + out
	}
	return "Rp " + out
}
