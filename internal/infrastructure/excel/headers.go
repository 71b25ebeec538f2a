package excel

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizeHeader pasa a minúsculas y quita tildes: "Descripción" -> "descripcion".
func normalizeHeader(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.TrimSpace(out))
}

// columns índices de las columnas reconocidas; -1 si no existe.
type columns struct {
	code, description, unit, department int
}

// detectColumns busca la primera columna cuyo encabezado contiene cada palabra clave.
func detectColumns(headers []string) columns {
	c := columns{code: -1, description: -1, unit: -1, department: -1}
	for i, h := range headers {
		n := normalizeHeader(h)
		switch {
		case c.code < 0 && strings.Contains(n, "codigo"):
			c.code = i
		case c.description < 0 && (strings.Contains(n, "producto") || strings.Contains(n, "descripcion")):
			c.description = i
		case c.unit < 0 && strings.Contains(n, "unidad"):
			c.unit = i
		case c.department < 0 && strings.Contains(n, "departamento"):
			c.department = i
		}
	}
	return c
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
