package m4a

import (
	"encoding/binary"
	"strconv"
	"strings"

	"github.com/abema/go-mp4"
	"github.com/solidcopy/tagcore/internal/model"
)

type codec struct {
	read  func(a *Adapter) []string
	write func(a *Adapter, values []string) error
}

var registry = map[model.Field]codec{
	model.FieldTitle:          text("\251nam"),
	model.FieldSubtitle:       freeform("SUBTITLE"),
	model.FieldArtist:         list("\251ART"),
	model.FieldAlbumArtist:    list("aART"),
	model.FieldAlbum:          text("\251alb"),
	model.FieldGenre:          list("\251gen"),
	model.FieldComposer:       list("\251wrt"),
	model.FieldLyricist:       freeform("LYRICIST"),
	model.FieldOriginalArtist: freeform("ORIGINALARTIST"),
	model.FieldPublisher:      freeform("LABEL"),
	model.FieldComments:       text("\251cmt"),
	model.FieldLyrics:         text("\251lyr"),
	model.FieldTrackNumber:    number(atomTrack, 8),
	model.FieldDiscNumber:     number(atomDisc, 6),
	model.FieldYear:           text("\251day"),
	model.FieldISRC:           freeform("ISRC"),
}

var standardNames = []string{"SUBTITLE", "LYRICIST", "ORIGINALARTIST", "LABEL", "ISRC"}

func isStandardName(name string) bool {
	for _, n := range standardNames {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

func text(code string) codec {
	typ := mp4.StrToBoxType(code)
	return codec{
		read: func(a *Adapter) []string {
			i := a.find(byType(typ))
			if i < 0 {
				return nil
			}
			values := a.items[i].text()
			if len(values) == 0 {
				return nil
			}
			return values[:1]
		},
		write: func(a *Adapter, values []string) error {
			a.setText(typ, values)
			return nil
		},
	}
}

func list(code string) codec {
	typ := mp4.StrToBoxType(code)
	return codec{
		read: func(a *Adapter) []string {
			var values []string
			for _, it := range a.items {
				if it.typ == typ {
					values = append(values, it.text()...)
				}
			}
			return values
		},
		write: func(a *Adapter, values []string) error {
			a.setText(typ, values)
			return nil
		},
	}
}

func freeform(name string) codec {
	return codec{
		read: func(a *Adapter) []string {
			if v, ok := a.ReadFreeform([]string{name}); ok {
				return []string{v}
			}
			return nil
		},
		write: func(a *Adapter, values []string) error {
			a.setFreeform(name, values)
			return nil
		},
	}
}

// number stores position and total as big endian uint16 pairs after two
// reserved bytes. trkn is 8 bytes long, disk 6.
func number(typ mp4.BoxType, size int) codec {
	return codec{
		read: func(a *Adapter) []string {
			i := a.find(byType(typ))
			if i < 0 || len(a.items[i].data) == 0 {
				return nil
			}
			value := a.items[i].data[0].value
			if len(value) < 6 {
				return nil
			}
			pair := model.NumberPair{
				Position: uint(binary.BigEndian.Uint16(value[2:4])),
				Total:    uint(binary.BigEndian.Uint16(value[4:6])),
			}
			if pair.Position == 0 {
				return nil
			}
			return []string{pair.String()}
		},
		write: func(a *Adapter, values []string) error {
			if len(values) == 0 {
				a.replace(byType(typ), nil)
				return nil
			}
			pair, err := model.ParseNumberPair(values[0])
			if err != nil {
				return err
			}
			if pair.Position > 0xffff || pair.Total > 0xffff {
				return &model.FieldError{Field: typ.String(), Err: strconv.ErrRange}
			}

			value := make([]byte, size)
			binary.BigEndian.PutUint16(value[2:4], uint16(pair.Position))
			binary.BigEndian.PutUint16(value[4:6], uint16(pair.Total))

			it := item{typ: typ, data: []data{{kind: kindImplicit, value: value}}}
			a.replace(byType(typ), &it)
			return nil
		},
	}
}
