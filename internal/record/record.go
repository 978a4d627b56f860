package record

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is the strongly-shaped form of a despesa or receita payload. Field
// names on the wire follow the remote API's naming.
type Record struct {
	ID          string  `json:"id,omitempty"`
	OwnerID     float64 `json:"idUsuario"`
	Amount      float64 `json:"valor"`
	Date        string  `json:"data"`
	Description string  `json:"descricao"`
	Category    string  `json:"categoria"`
}

// Normalize converts a decoded JSON value into a Record. It returns false
// when the value is not an object or when idUsuario/valor do not resolve to
// finite numbers; callers drop such payloads instead of surfacing a partial
// record. The id is resolved by trying each alias key in priority order.
func Normalize(raw any, idAliases []string) (*Record, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}

	owner, ok := ParseNumber(obj["idUsuario"])
	if !ok {
		return nil, false
	}

	amount, ok := ParseAmount(obj["valor"])
	if !ok {
		return nil, false
	}

	return &Record{
		ID:          resolveID(obj, idAliases),
		OwnerID:     owner,
		Amount:      amount,
		Date:        stringField(obj, "data"),
		Description: stringField(obj, "descricao"),
		Category:    stringField(obj, "categoria"),
	}, true
}

// resolveID returns the first alias value usable as a path segment: a finite
// number, or a non-empty string. The remote API is not consistent about
// which spelling it uses, so every known alias is tried.
func resolveID(obj map[string]any, aliases []string) string {
	for _, key := range aliases {
		switch v := obj[key].(type) {
		case float64:
			if finite(v) {
				return strconv.FormatFloat(v, 'f', -1, 64)
			}
		case string:
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}

	return ""
}

// ParseNumber accepts a native number or a numeric string.
func ParseNumber(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, finite(x)
	case string:
		trimmed := strings.TrimSpace(x)
		if trimmed == "" {
			return 0, false
		}

		n, err := strconv.ParseFloat(trimmed, 64)
		if err != nil || !finite(n) {
			return 0, false
		}

		return n, true
	}

	return 0, false
}

// ParseAmount accepts a native number or a Brazilian-formatted decimal
// string, where "." separates thousands and "," marks the decimal:
// "1.234,56" parses to 1234.56.
func ParseAmount(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, finite(x)
	case string:
		clean := strings.ReplaceAll(strings.TrimSpace(x), ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")

		d, err := decimal.NewFromString(clean)
		if err != nil {
			return 0, false
		}

		return d.InexactFloat64(), true
	}

	return 0, false
}

// UnwrapList extracts the array from a list response that may arrive either
// bare or wrapped under one of the conventional keys, tried in order.
// Returns false when no array is found.
func UnwrapList(raw any, keys []string) ([]any, bool) {
	if items, ok := raw.([]any); ok {
		return items, true
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, false
	}

	for _, key := range keys {
		if items, ok := obj[key].([]any); ok {
			return items, true
		}
	}

	return nil, false
}

func stringField(obj map[string]any, key string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}

	return ""
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
