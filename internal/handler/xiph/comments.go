package xiph

import (
	"strings"

	"github.com/go-flac/flacvorbis"
	"github.com/solidcopy/tagcore/internal/model"
)

// pictureKey holds base64 FLAC picture blocks inside Ogg comments.
const pictureKey = "METADATA_BLOCK_PICTURE"

type comment struct {
	name  string
	value string
}

// comments is an ordered list of NAME=value pairs. Names compare
// case-insensitively except for custom fields.
type comments struct {
	entries []comment
}

func parseComments(raw []string) comments {
	var c comments
	for _, line := range raw {
		name, value, ok := strings.Cut(line, "=")
		if !ok || name == "" {
			continue
		}
		c.entries = append(c.entries, comment{name: name, value: value})
	}
	return c
}

func (c *comments) get(name string) []string {
	var values []string
	for _, e := range c.entries {
		if strings.EqualFold(e.name, name) && e.value != "" {
			values = append(values, e.value)
		}
	}
	return values
}

func (c *comments) first(names ...string) (string, bool) {
	for _, name := range names {
		if values := c.get(name); len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

func (c *comments) remove(match func(name string) bool) {
	entries := c.entries[:0]
	for _, e := range c.entries {
		if !match(e.name) {
			entries = append(entries, e)
		}
	}
	c.entries = entries
}

// set replaces every comment named name (and its aliases) with values.
func (c *comments) set(name string, aliases []string, values []string) {
	c.remove(func(n string) bool {
		if strings.EqualFold(n, name) {
			return true
		}
		for _, alias := range aliases {
			if strings.EqualFold(n, alias) {
				return true
			}
		}
		return false
	})
	for _, v := range values {
		c.entries = append(c.entries, comment{name: name, value: v})
	}
}

// checkName rejects field names the Vorbis comment format does not allow.
func checkName(name string) error {
	if name == "" {
		return flacvorbis.ErrorInvalidFieldName
	}
	return flacvorbis.New().Add(name, "")
}

func (c *comments) readField(f model.Field) ([]string, bool) {
	codec, ok := registry[f]
	if !ok {
		return nil, false
	}
	values := codec.read(c)
	return values, len(values) > 0
}

func (c *comments) writeField(f model.Field, values []string) error {
	codec, ok := registry[f]
	if !ok {
		return &model.FieldError{Field: string(f), Err: model.ErrUnknownField}
	}
	return codec.write(c, values)
}

func (c *comments) setRaw(key string, values []string) error {
	if err := checkName(key); err != nil {
		return &model.FieldError{Field: key, Err: err}
	}
	c.set(strings.ToUpper(key), nil, values)
	return nil
}

func (c *comments) readFreeform(keys []string) (string, bool) {
	return c.first(keys...)
}

// customFields lists every comment that is not a standard field.
func (c *comments) customFields() []model.CustomField {
	fields := []model.CustomField{}
	for _, e := range c.entries {
		if isStandardKey(e.name) || strings.EqualFold(e.name, pictureKey) {
			continue
		}
		fields = append(fields, model.CustomField{Key: e.name, Value: e.value})
	}
	return fields
}

func (c *comments) setCustomField(key, value string) error {
	if err := checkName(key); err != nil {
		return &model.FieldError{Field: key, Err: err}
	}
	c.removeCustomField(key)
	c.entries = append(c.entries, comment{name: key, value: value})
	return nil
}

func (c *comments) removeCustomField(key string) {
	c.remove(func(name string) bool { return name == key })
}

func (c *comments) lines() []string {
	lines := make([]string, 0, len(c.entries))
	for _, e := range c.entries {
		lines = append(lines, e.name+"="+e.value)
	}
	return lines
}

// properties groups the comments by upper-cased name as TagLib expects.
func (c *comments) properties() map[string][]string {
	props := make(map[string][]string, len(c.entries))
	for _, e := range c.entries {
		name := strings.ToUpper(e.name)
		props[name] = append(props[name], e.value)
	}
	return props
}
