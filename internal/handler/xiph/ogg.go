package xiph

import (
	"sort"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
	"go.senan.xyz/taglib"
)

// Ogg is the Xiph comment view of an Ogg Vorbis, Opus or FLAC-in-Ogg file,
// read and written through TagLib. Pictures are not handled.
type Ogg struct {
	path    string
	present bool
	comments
}

func OpenOgg(path string) (*Ogg, error) {
	props, err := taglib.ReadTags(path)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	o := &Ogg{path: path, present: len(props) > 0}
	for _, name := range names {
		for _, value := range props[name] {
			o.entries = append(o.entries, comment{name: name, value: value})
		}
	}

	return o, nil
}

func (o *Ogg) Name() string {
	return "Xiph"
}

func (o *Ogg) Present() bool {
	return o.present
}

func (o *Ogg) ReadField(f model.Field) ([]string, bool) {
	return o.readField(f)
}

func (o *Ogg) WriteField(f model.Field, values []string) error {
	return o.writeField(f, values)
}

func (o *Ogg) SetRaw(key string, values []string) error {
	return o.setRaw(key, values)
}

func (o *Ogg) ReadFreeform(keys []string) (string, bool) {
	return o.readFreeform(keys)
}

func (o *Ogg) CustomFields() []model.CustomField {
	return o.customFields()
}

// SetCustomField stores key upper-cased, as TagLib returns it on the next
// read.
func (o *Ogg) SetCustomField(key, value string) error {
	return o.setCustomField(strings.ToUpper(key), value)
}

func (o *Ogg) RemoveCustomField(key string) {
	o.removeCustomField(strings.ToUpper(key))
}

// Save replaces every property of the file; properties not in the list are
// cleared.
func (o *Ogg) Save() error {
	if err := taglib.WriteTags(o.path, o.properties(), taglib.Clear); err != nil {
		return err
	}
	o.present = len(o.entries) > 0
	return nil
}

func (o *Ogg) Close() error {
	return nil
}
