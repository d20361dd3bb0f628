package model

import "strings"

// CustomField is a user defined text record such as an ID3v2 TXXX frame.
// Key matching is exact.
type CustomField struct {
	Key   string
	Value string
}

// CustomFields maps user defined keys to values. Keys keep their case;
// Lookup ignores it.
type CustomFields map[string]string

func (c CustomFields) Lookup(key string) (string, bool) {
	if v, ok := c[key]; ok {
		return v, true
	}
	for k, v := range c {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return "", false
}
