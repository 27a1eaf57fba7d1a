// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Sketchbridge Authors

package sketch

import "strings"

// SnakeToCamel converts a snake_case identifier to camelCase. Generated
// dispatch function names are synthesized in snake style (method, kind tag,
// attachment index joined by underscores) and converted here.
func SnakeToCamel(text string) string {
	parts := strings.Split(text, "_")
	var b strings.Builder
	b.WriteString(parts[0])
	for _, part := range parts[1:] {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

var whitespaceEscaper = strings.NewReplacer(
	"\r", `\r`,
	"\n", `\n`,
	"\t", `\t`,
	"\f", `\f`,
	"\v", `\v`,
)

// EscapeWhitespace rewrites control characters as visible two-character
// sequences so terminator strings survive substitution into firmware string
// literals.
func EscapeWhitespace(text string) string {
	return whitespaceEscaper.Replace(text)
}
