package util

import (
	"encoding/json"
	"strconv"
	"strings"
)

// CoerceInt converte valores numéricos vindos de JSON sem tipo fixo
// (número, string numérica) em int. Ausência ou valor não numérico
// vira 0, nunca erro.
func CoerceInt(value any) int {
	switch v := value.(type) {
	case nil:
		return 0
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0
		}
		return int(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0
		}
		return int(f)
	default:
		return 0
	}
}
