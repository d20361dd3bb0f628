package m4a

import (
	"encoding/binary"
	"errors"

	"github.com/abema/go-mp4"
)

const (
	itunesMean = "com.apple.iTunes"

	kindImplicit = 0
	kindUTF8     = 1
	kindJPEG     = 13
	kindPNG      = 14
	kindBMP      = 27
)

var (
	atomFreeform = mp4.StrToBoxType("----")
	atomMean     = mp4.StrToBoxType("mean")
	atomName     = mp4.StrToBoxType("name")
	atomData     = mp4.StrToBoxType("data")
	atomCover    = mp4.StrToBoxType("covr")
	atomTrack    = mp4.StrToBoxType("trkn")
	atomDisc     = mp4.StrToBoxType("disk")
)

var errMalformedAtom = errors.New("m4a: malformed ilst atom")

type data struct {
	kind  uint32
	value []byte
}

// item is one child of ilst. Freeform items ("----") carry a mean and a
// name. Items whose layout is not understood keep their raw bytes.
type item struct {
	typ  mp4.BoxType
	mean string
	name string
	data []data
	raw  []byte
}

func (it *item) text() []string {
	var values []string
	for _, d := range it.data {
		if d.kind == kindUTF8 && len(d.value) > 0 {
			values = append(values, string(d.value))
		}
	}
	return values
}

func textItem(typ mp4.BoxType, values []string) item {
	it := item{typ: typ}
	for _, v := range values {
		it.data = append(it.data, data{kind: kindUTF8, value: []byte(v)})
	}
	return it
}

func freeformItem(name string, values []string) item {
	it := textItem(atomFreeform, values)
	it.mean = itunesMean
	it.name = name
	return it
}

// parseItems decodes the payload of an ilst box.
func parseItems(payload []byte) ([]item, error) {
	items := []item{}
	for len(payload) > 0 {
		atom, typ, body, rest, err := splitAtom(payload)
		if err != nil {
			return nil, err
		}
		payload = rest

		items = append(items, parseItem(atom, typ, body))
	}
	return items, nil
}

func parseItem(atom []byte, typ mp4.BoxType, body []byte) item {
	it := item{typ: typ}
	for len(body) > 0 {
		_, childType, child, rest, err := splitAtom(body)
		if err != nil {
			return item{typ: typ, raw: atom}
		}
		body = rest

		switch childType {
		case atomMean:
			if len(child) < 4 {
				return item{typ: typ, raw: atom}
			}
			it.mean = string(child[4:])
		case atomName:
			if len(child) < 4 {
				return item{typ: typ, raw: atom}
			}
			it.name = string(child[4:])
		case atomData:
			// version(1) type(3) locale(4) value
			if len(child) < 8 {
				return item{typ: typ, raw: atom}
			}
			it.data = append(it.data, data{
				kind:  binary.BigEndian.Uint32(child[0:4]) & 0xffffff,
				value: append([]byte(nil), child[8:]...),
			})
		default:
			return item{typ: typ, raw: atom}
		}
	}
	return it
}

// splitAtom cuts the first atom off b.
func splitAtom(b []byte) (atom []byte, typ mp4.BoxType, body []byte, rest []byte, err error) {
	if len(b) < 8 {
		return nil, typ, nil, nil, errMalformedAtom
	}
	size := int(binary.BigEndian.Uint32(b[0:4]))
	if size == 0 {
		size = len(b)
	}
	if size < 8 || size > len(b) {
		return nil, typ, nil, nil, errMalformedAtom
	}
	copy(typ[:], b[4:8])
	return b[:size], typ, b[8:size], b[size:], nil
}

// writeItems writes a complete ilst box.
func writeItems(w *mp4.Writer, items []item) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeIlst()}); err != nil {
		return err
	}

	for _, it := range items {
		if err := writeItem(w, it); err != nil {
			return err
		}
	}

	_, err := w.EndBox()
	return err
}

func writeItem(w *mp4.Writer, it item) error {
	if it.raw != nil {
		_, err := w.Write(it.raw)
		return err
	}

	if _, err := w.StartBox(&mp4.BoxInfo{Type: it.typ}); err != nil {
		return err
	}

	if it.typ == atomFreeform {
		if err := writeString(w, atomMean, it.mean); err != nil {
			return err
		}
		if err := writeString(w, atomName, it.name); err != nil {
			return err
		}
	}

	for _, d := range it.data {
		if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeData()}); err != nil {
			return err
		}
		boxData := mp4.Data{DataType: d.kind, Data: d.value}
		if _, err := mp4.Marshal(w, &boxData, mp4.Context{UnderIlstMeta: true}); err != nil {
			return err
		}
		if _, err := w.EndBox(); err != nil {
			return err
		}
	}

	_, err := w.EndBox()
	return err
}

// writeString writes a mean or name atom: version and flags, then the text.
func writeString(w *mp4.Writer, typ mp4.BoxType, s string) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: typ}); err != nil {
		return err
	}
	if _, err := w.Write(append([]byte{0, 0, 0, 0}, s...)); err != nil {
		return err
	}
	_, err := w.EndBox()
	return err
}
