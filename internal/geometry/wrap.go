package geometry

import "strings"

const (
	// DefaultLineHeight multiplies the font size when a text shape carries
	// no explicit line height.
	DefaultLineHeight = 1.25
	// glyphWidthFactor approximates the average advance of a glyph as a
	// fraction of the font size. Rendering measures precisely; layout math
	// only needs a stable estimate.
	glyphWidthFactor = 0.6
)

// WrapText breaks content into lines that fit maxWidth at the given font
// size. Words longer than a full line are split hard so no line ever
// overflows the box.
func WrapText(content string, maxWidth, fontSize float64) []string {
	if content == "" {
		return nil
	}
	maxChars := 1
	if fontSize > 0 {
		if n := int(maxWidth / (fontSize * glyphWidthFactor)); n > 1 {
			maxChars = n
		}
	}

	var lines []string
	for _, paragraph := range strings.Split(content, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}
		line := ""
		for _, word := range strings.Fields(paragraph) {
			for len(word) > maxChars {
				if line != "" {
					lines = append(lines, line)
					line = ""
				}
				lines = append(lines, word[:maxChars])
				word = word[maxChars:]
			}
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) <= maxChars:
				line += " " + word
			default:
				lines = append(lines, line)
				line = word
			}
		}
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
