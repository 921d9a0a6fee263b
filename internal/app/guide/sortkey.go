package guide

import (
	"strconv"
	"strings"
)

// SortKey orders channels by their channel number. Numbers that parse as
// floats (including fractional ones like "2.1") sort numerically; anything
// else sorts as text after all numeric values.
type SortKey struct {
	num    float64
	text   string
	isText bool
}

func NewSortKey(raw string) SortKey {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return SortKey{num: f}
		}
	}
	return SortKey{text: raw, isText: true}
}

// Compare returns -1, 0 or 1 in the usual cmp convention.
func (k SortKey) Compare(o SortKey) int {
	switch {
	case !k.isText && !o.isText:
		switch {
		case k.num < o.num:
			return -1
		case k.num > o.num:
			return 1
		}
		return 0
	case k.isText && o.isText:
		return strings.Compare(k.text, o.text)
	case k.isText:
		return 1
	default:
		return -1
	}
}
