package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NumberPair is a position within a set, e.g. track 5 of 12.
// Total is 0 when the set size is unknown.
type NumberPair struct {
	Position uint
	Total    uint
}

func (p NumberPair) String() string {
	if p.Total == 0 {
		return strconv.FormatUint(uint64(p.Position), 10)
	}
	return fmt.Sprintf("%d/%d", p.Position, p.Total)
}

var ErrMalformedNumber = errors.New("malformed number")

// ParseNumberPair parses "N" or "N/M".
func ParseNumberPair(s string) (NumberPair, error) {
	s = strings.TrimSpace(s)
	pos, total, hasTotal := strings.Cut(s, "/")

	position, err := parseUint(pos)
	if err != nil {
		return NumberPair{}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
	}

	pair := NumberPair{Position: position}
	if hasTotal && strings.TrimSpace(total) != "" {
		pair.Total, err = parseUint(total)
		if err != nil {
			return NumberPair{}, fmt.Errorf("%w: %q", ErrMalformedNumber, s)
		}
	}

	return pair, nil
}

func parseUint(s string) (uint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrMalformedNumber
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, ErrMalformedNumber
		}
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(n), nil
}

// ParseYear accepts "YYYY" or a date starting with the year ("YYYY-MM-DD").
func ParseYear(s string) (uint, error) {
	s = strings.TrimSpace(s)
	if len(s) > 4 && (s[4] == '-' || s[4] == 'T' || s[4] == ' ') {
		s = s[:4]
	}
	year, err := parseUint(s)
	if err != nil {
		return 0, fmt.Errorf("%w: year %q", ErrMalformedNumber, s)
	}
	return year, nil
}

func FormatYear(year uint) string {
	return fmt.Sprintf("%04d", year)
}

var ErrMalformedISRC = errors.New("malformed ISRC")

var isrcPattern = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9]{3}[0-9]{7}$`)

// NormalizeISRC uppercases s and strips hyphens and spaces.
func NormalizeISRC(s string) (string, error) {
	code := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(s))
	if !isrcPattern.MatchString(code) {
		return "", fmt.Errorf("%w: %q", ErrMalformedISRC, s)
	}
	return code, nil
}

// Normalize validates values about to be written to f and returns them in
// the textual form adapters store. An empty result clears the field.
func Normalize(f Field, values []string) ([]string, error) {
	values = compact(values)
	if len(values) == 0 {
		return nil, nil
	}

	switch f.Kind() {
	case KindList:
		return values, nil
	case KindText:
		if len(values) > 1 {
			return nil, &FieldError{Field: string(f), Err: ErrTypeMismatch}
		}
		if f == FieldISRC {
			code, err := NormalizeISRC(values[0])
			if err != nil {
				return nil, &FieldError{Field: string(f), Err: err}
			}
			return []string{code}, nil
		}
		return values, nil
	case KindNumber:
		if len(values) > 1 {
			return nil, &FieldError{Field: string(f), Err: ErrTypeMismatch}
		}
		pair, err := ParseNumberPair(values[0])
		if err != nil {
			return nil, &FieldError{Field: string(f), Err: err}
		}
		return []string{pair.String()}, nil
	case KindYear:
		if len(values) > 1 {
			return nil, &FieldError{Field: string(f), Err: ErrTypeMismatch}
		}
		year, err := ParseYear(values[0])
		if err != nil {
			return nil, &FieldError{Field: string(f), Err: err}
		}
		return []string{FormatYear(year)}, nil
	}

	return nil, &FieldError{Field: string(f), Err: ErrUnknownField}
}
