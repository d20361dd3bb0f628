package xiph

import (
	"strconv"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
)

type codec struct {
	keys  []string
	read  func(c *comments) []string
	write func(c *comments, values []string) error
}

var registry = map[model.Field]codec{
	model.FieldTitle:          text("TITLE"),
	model.FieldSubtitle:       text("SUBTITLE"),
	model.FieldArtist:         list("ARTIST"),
	model.FieldAlbumArtist:    list("ALBUMARTIST", "ALBUM ARTIST"),
	model.FieldAlbum:          text("ALBUM"),
	model.FieldGenre:          list("GENRE"),
	model.FieldComposer:       list("COMPOSER"),
	model.FieldLyricist:       text("LYRICIST"),
	model.FieldOriginalArtist: text("ORIGINALARTIST"),
	model.FieldPublisher:      text("PUBLISHER", "LABEL", "ORGANIZATION"),
	model.FieldComments:       text("COMMENT", "DESCRIPTION"),
	model.FieldLyrics:         text("LYRICS", "UNSYNCEDLYRICS"),
	model.FieldTrackNumber:    number("TRACKNUMBER", "TRACKTOTAL", "TOTALTRACKS"),
	model.FieldDiscNumber:     number("DISCNUMBER", "DISCTOTAL", "TOTALDISCS"),
	model.FieldYear:           text("DATE", "YEAR"),
	model.FieldISRC:           text("ISRC"),
}

// isStandardKey reports whether name is claimed by a registry field.
func isStandardKey(name string) bool {
	for _, c := range registry {
		for _, key := range c.keys {
			if strings.EqualFold(key, name) {
				return true
			}
		}
	}
	return false
}

func text(name string, aliases ...string) codec {
	return codec{
		keys: append([]string{name}, aliases...),
		read: func(c *comments) []string {
			if v, ok := c.first(append([]string{name}, aliases...)...); ok {
				return []string{v}
			}
			return nil
		},
		write: func(c *comments, values []string) error {
			c.set(name, aliases, values)
			return nil
		},
	}
}

func list(name string, aliases ...string) codec {
	return codec{
		keys: append([]string{name}, aliases...),
		read: func(c *comments) []string {
			for _, key := range append([]string{name}, aliases...) {
				if values := c.get(key); len(values) > 0 {
					return values
				}
			}
			return nil
		},
		write: func(c *comments, values []string) error {
			c.set(name, aliases, values)
			return nil
		},
	}
}

// number keeps position and total in separate comments. A position written
// as "N/M" by other taggers is accepted on read.
func number(name string, totals ...string) codec {
	return codec{
		keys: append([]string{name}, totals...),
		read: func(c *comments) []string {
			position, ok := c.first(name)
			if !ok {
				return nil
			}
			if strings.Contains(position, "/") {
				return []string{position}
			}
			if total, ok := c.first(totals...); ok {
				return []string{position + "/" + total}
			}
			return []string{position}
		},
		write: func(c *comments, values []string) error {
			c.set(name, nil, nil)
			c.set(totals[0], totals[1:], nil)
			if len(values) == 0 {
				return nil
			}
			pair, err := model.ParseNumberPair(values[0])
			if err != nil {
				return err
			}
			c.set(name, nil, []string{strconv.FormatUint(uint64(pair.Position), 10)})
			if pair.Total > 0 {
				c.set(totals[0], nil, []string{strconv.FormatUint(uint64(pair.Total), 10)})
			}
			return nil
		},
	}
}
