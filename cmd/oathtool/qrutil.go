package main

import (
	"strings"
)

// qrcodeToUTF8 renders a QR bitmap as double-width block characters so each
// module is roughly square in a terminal font.
func qrcodeToUTF8(bitmap [][]bool, inverse bool) string {
	var sb strings.Builder
	dark, light := "██", "  "
	if inverse {
		dark, light = light, dark
	}
	for _, row := range bitmap {
		for _, module := range row {
			if module {
				sb.WriteString(dark)
			} else {
				sb.WriteString(light)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
