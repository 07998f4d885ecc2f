package query

import (
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire format for date parameters and date output.
const DateLayout = "2006-01-02"

// Kind is the semantic type a raw parameter is coerced to.
type Kind string

// Supported parameter kinds.
const (
	KindString Kind = "string"
	KindInt    Kind = "integer"
	KindDate   Kind = "date"
	KindBool   Kind = "boolean"
)

// Date is a calendar date without a time of day.
type Date struct {
	t time.Time
}

// NewDate truncates t to its calendar date in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time { return d.t }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string { return d.t.Format(DateLayout) }

// Coerce converts a raw request value into kind. field names the parameter in
// the returned *InvalidFilterValue.
func Coerce(field, raw string, kind Kind) (any, error) {
	raw = strings.TrimSpace(raw)
	switch kind {
	case KindString, "":
		return raw, nil
	case KindInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, &InvalidFilterValue{Field: field, Value: raw, Kind: kind}
		}
		return n, nil
	case KindDate:
		t, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, &InvalidFilterValue{Field: field, Value: raw, Kind: kind}
		}
		return Date{t: t}, nil
	case KindBool:
		b, err := parseBool(raw)
		if err != nil {
			return nil, &InvalidFilterValue{Field: field, Value: raw, Kind: kind}
		}
		return b, nil
	}
	return nil, &InvalidFilterValue{Field: field, Value: raw, Kind: kind}
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "si", "sí":
		return true, nil
	case "no":
		return false, nil
	}
	return strconv.ParseBool(s)
}

// Absent reports whether v counts as "not supplied". Only nil, pointer chains
// ending in nil and the empty string are absent; 0 and false are values.
func Absent(v any) bool {
	if deref(v) == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}

// Int parses an optional integer parameter, returning fallback when raw is empty.
func Int(field, raw string, fallback int) (int, error) {
	if strings.TrimSpace(raw) == "" {
		return fallback, nil
	}
	v, err := Coerce(field, raw, KindInt)
	if err != nil {
		return 0, err
	}
	return int(v.(int64)), nil
}
