package id3v2

import (
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/solidcopy/tagcore/internal/model"
)

type codec struct {
	read  func(a *Adapter) []string
	write func(a *Adapter, values []string)
}

var registry = map[model.Field]codec{
	model.FieldTitle:          textFrame("TIT2"),
	model.FieldSubtitle:       textFrame("TIT3"),
	model.FieldArtist:         listFrame("TPE1"),
	model.FieldAlbumArtist:    listFrame("TPE2"),
	model.FieldAlbum:          textFrame("TALB"),
	model.FieldGenre:          listFrame("TCON"),
	model.FieldComposer:       listFrame("TCOM"),
	model.FieldLyricist:       textFrame("TEXT"),
	model.FieldOriginalArtist: textFrame("TOPE"),
	model.FieldPublisher:      textFrame("TPUB"),
	model.FieldComments:       {read: readComment, write: writeComment},
	model.FieldLyrics:         {read: readLyrics, write: writeLyrics},
	model.FieldTrackNumber:    textFrame("TRCK"),
	model.FieldDiscNumber:     textFrame("TPOS"),
	model.FieldYear:           {read: readYear, write: writeYear},
	model.FieldISRC:           textFrame("TSRC"),
}

func textFrame(id string) codec {
	return codec{
		read: func(a *Adapter) []string {
			text, _, _ := strings.Cut(a.tag.GetTextFrame(id).Text, "\x00")
			if text = strings.TrimSpace(text); text == "" {
				return nil
			}
			return []string{text}
		},
		write: func(a *Adapter, values []string) {
			writeList(a, id, values)
		},
	}
}

// frames holding multiple values
var listFrameIDs = []string{"TPE1", "TPE2", "TCON", "TCOM"}

func listFrame(id string) codec {
	return codec{
		read: func(a *Adapter) []string {
			return splitValues(a.tag.GetTextFrame(id).Text, "\x00")
		},
		write: func(a *Adapter, values []string) {
			writeList(a, id, values)
		},
	}
}

// splitValues splits a multi-valued text frame on sep and drops empty
// values.
func splitValues(text, sep string) []string {
	text = strings.TrimRight(text, "\x00")
	if text == "" {
		return nil
	}

	var out []string
	for _, v := range strings.Split(text, sep) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// upgradeLists re-encodes the "/" separated list frames of a v2.3 tag as
// NUL separated v2.4 lists, so they decode the same after the tag is saved
// as v2.4.
func (a *Adapter) upgradeLists() {
	if a.version != 3 {
		return
	}
	for _, id := range listFrameIDs {
		if text := a.tag.GetTextFrame(id).Text; text != "" {
			writeList(a, id, splitValues(text, "/"))
		}
	}
}

// writeList stores values NUL separated, since the tag is saved as v2.4.
func writeList(a *Adapter, id string, values []string) {
	a.tag.DeleteFrames(id)
	if len(values) == 0 {
		return
	}
	a.tag.AddTextFrame(id, id3v2.EncodingUTF8, strings.Join(values, "\x00"))
}

func readYear(a *Adapter) []string {
	for _, id := range []string{"TDRC", "TYER", "TDRL"} {
		text, _, _ := strings.Cut(a.tag.GetTextFrame(id).Text, "\x00")
		if text = strings.TrimSpace(text); text != "" {
			return []string{text}
		}
	}
	return nil
}

func writeYear(a *Adapter, values []string) {
	a.tag.DeleteFrames("TYER")
	writeList(a, "TDRC", values)
}

func readComment(a *Adapter) []string {
	var fallback string
	for _, frame := range a.tag.GetFrames("COMM") {
		cf, ok := frame.(id3v2.CommentFrame)
		if !ok || cf.Text == "" {
			continue
		}
		if cf.Description == "" {
			return []string{cf.Text}
		}
		if fallback == "" {
			fallback = cf.Text
		}
	}
	if fallback == "" {
		return nil
	}
	return []string{fallback}
}

// writeComment replaces the undescribed comment and keeps the others, such
// as iTunNORM.
func writeComment(a *Adapter, values []string) {
	a.rebuild("COMM", func(frame id3v2.Framer) bool {
		cf, ok := frame.(id3v2.CommentFrame)
		return ok && cf.Description == ""
	})
	if len(values) == 0 {
		return
	}
	a.tag.AddCommentFrame(id3v2.CommentFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Text:     values[0],
	})
}

func readLyrics(a *Adapter) []string {
	for _, frame := range a.tag.GetFrames("USLT") {
		lf, ok := frame.(id3v2.UnsynchronisedLyricsFrame)
		if ok && lf.Lyrics != "" {
			return []string{lf.Lyrics}
		}
	}
	return nil
}

func writeLyrics(a *Adapter, values []string) {
	a.tag.DeleteFrames("USLT")
	if len(values) == 0 {
		return
	}
	a.tag.AddUnsynchronisedLyricsFrame(id3v2.UnsynchronisedLyricsFrame{
		Encoding: id3v2.EncodingUTF8,
		Language: "eng",
		Lyrics:   values[0],
	})
}

// rebuild drops the frames with the given id for which remove returns true
// and re-adds the rest in their original order.
func (a *Adapter) rebuild(id string, remove func(id3v2.Framer) bool) {
	frames := a.tag.GetFrames(id)
	a.tag.DeleteFrames(id)
	for _, frame := range frames {
		if !remove(frame) {
			a.tag.AddFrame(id, frame)
		}
	}
}
