// Package csvio parses the transaction CSV feed into model records.
package csvio

import "strings"

// TokenizeLine splits one line of CSV text into trimmed field strings.
// A quote toggles quoted state unless doubled inside quotes, which
// decodes to one literal quote. Commas separate fields only outside
// quotes. Malformed quoting never fails: an unmatched quote simply
// toggles state and the rest of the line is consumed literally.
func TokenizeLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
		case c == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}

	fields = append(fields, strings.TrimSpace(current.String()))
	return fields
}

// EncodeLine is the inverse of TokenizeLine: fields containing commas or
// quotes are wrapped in quotes with internal quotes doubled.
func EncodeLine(fields []string) string {
	encoded := make([]string, len(fields))
	for i, f := range fields {
		if strings.ContainsAny(f, `",`) {
			encoded[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
		} else {
			encoded[i] = f
		}
	}
	return strings.Join(encoded, ",")
}
