package m4a

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/solidcopy/tagcore/internal/model"
)

// Adapter reads and writes the iTunes item list (moov/udta/meta/ilst) of
// an MP4 file. It also serves as the freeform-atom probe for other
// containers.
type Adapter struct {
	path    string
	present bool
	items   []item
}

// Probe reports whether the file starts with an ftyp box.
func Probe(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()
	return IsMP4(file)
}

// IsMP4 reports whether the next box in r is ftyp.
func IsMP4(r io.Reader) bool {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return false
	}
	return string(header[4:8]) == "ftyp"
}

func Open(path string) (*Adapter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a := &Adapter{path: path, items: []item{}}

	var parseErr error
	_, err = mp4.ReadBoxStructure(file, func(h *mp4.ReadHandle) (interface{}, error) {
		switch {
		case isPath(h.Path, mp4.BoxTypeMoov()),
			isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta()),
			isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta()):
			return h.Expand()

		case isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta(), mp4.BoxTypeIlst()):
			buff := new(bytes.Buffer)
			if _, err := h.ReadData(buff); err != nil {
				return nil, err
			}
			a.present = true
			a.items, parseErr = parseItems(buff.Bytes())
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}
	if parseErr != nil {
		return nil, parseErr
	}

	return a, nil
}

func isPath(path mp4.BoxPath, types ...mp4.BoxType) bool {
	if len(path) != len(types) {
		return false
	}
	for i := range types {
		if path[i] != types[i] {
			return false
		}
	}
	return true
}

func (a *Adapter) Name() string {
	return "iTunes"
}

func (a *Adapter) Present() bool {
	return a.present
}

func (a *Adapter) ReadField(f model.Field) ([]string, bool) {
	c, ok := registry[f]
	if !ok {
		return nil, false
	}
	values := c.read(a)
	return values, len(values) > 0
}

func (a *Adapter) WriteField(f model.Field, values []string) error {
	c, ok := registry[f]
	if !ok {
		return &model.FieldError{Field: string(f), Err: model.ErrUnknownField}
	}
	return c.write(a, values)
}

// SetRaw sets a text atom by its four character code. A leading "©" is
// stored as the single byte 0xA9.
func (a *Adapter) SetRaw(key string, values []string) error {
	code := strings.Replace(key, "©", "\251", 1)
	if len(code) != 4 {
		return &model.FieldError{Field: key, Err: model.ErrUnknownField}
	}
	typ := mp4.StrToBoxType(code)
	if typ == atomFreeform || typ == atomCover || typ == atomTrack || typ == atomDisc {
		return &model.FieldError{Field: key, Err: model.ErrTypeMismatch}
	}
	a.setText(typ, values)
	return nil
}

func (a *Adapter) Close() error {
	return nil
}

// find returns the index of the first item matching match, or -1.
func (a *Adapter) find(match func(*item) bool) int {
	for i := range a.items {
		if match(&a.items[i]) {
			return i
		}
	}
	return -1
}

// replace removes every item matching match and puts it in place of the
// first one removed. A nil it only removes.
func (a *Adapter) replace(match func(*item) bool, it *item) {
	at := -1
	items := a.items[:0]
	for i := range a.items {
		if match(&a.items[i]) {
			if at < 0 {
				at = len(items)
			}
			continue
		}
		items = append(items, a.items[i])
	}
	a.items = items

	if it == nil {
		return
	}
	if at < 0 {
		a.items = append(a.items, *it)
		return
	}
	a.items = append(a.items[:at], append([]item{*it}, a.items[at:]...)...)
}

func byType(typ mp4.BoxType) func(*item) bool {
	return func(it *item) bool { return it.typ == typ }
}

func byName(name string, exact bool) func(*item) bool {
	return func(it *item) bool {
		if it.typ != atomFreeform || it.mean != itunesMean {
			return false
		}
		if exact {
			return it.name == name
		}
		return strings.EqualFold(it.name, name)
	}
}

func (a *Adapter) setText(typ mp4.BoxType, values []string) {
	if len(values) == 0 {
		a.replace(byType(typ), nil)
		return
	}
	it := textItem(typ, values)
	a.replace(byType(typ), &it)
}

func (a *Adapter) setFreeform(name string, values []string) {
	if len(values) == 0 {
		a.replace(byName(name, false), nil)
		return
	}
	it := freeformItem(name, values)
	a.replace(byName(name, false), &it)
}

// ReadFreeform returns the first value among the iTunes freeform items named
// by keys. A four character key also matches a standard atom of that type,
// such as "purd".
func (a *Adapter) ReadFreeform(keys []string) (string, bool) {
	for _, key := range keys {
		i := a.find(byName(key, false))
		if i < 0 && len(key) == 4 {
			i = a.find(byType(mp4.StrToBoxType(key)))
		}
		if i < 0 {
			continue
		}
		if values := a.items[i].text(); len(values) > 0 {
			return values[0], true
		}
	}
	return "", false
}

// CustomFields lists iTunes freeform atoms that are not standard fields.
func (a *Adapter) CustomFields() []model.CustomField {
	fields := []model.CustomField{}
	for _, it := range a.items {
		if it.typ != atomFreeform || it.mean != itunesMean || isStandardName(it.name) {
			continue
		}
		values := it.text()
		if len(values) == 0 {
			continue
		}
		fields = append(fields, model.CustomField{Key: it.name, Value: values[0]})
	}
	return fields
}

func (a *Adapter) SetCustomField(key, value string) error {
	a.RemoveCustomField(key)
	a.items = append(a.items, freeformItem(key, []string{value}))
	return nil
}

func (a *Adapter) RemoveCustomField(key string) {
	a.replace(byName(key, true), nil)
}
