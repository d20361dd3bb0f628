package id3v2

import (
	"net/http"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/solidcopy/tagcore/internal/model"
	"golang.org/x/exp/slices"
)

func (a *Adapter) CustomFields() []model.CustomField {
	fields := []model.CustomField{}
	for _, frame := range a.tag.GetFrames("TXXX") {
		if udtf, ok := frame.(id3v2.UserDefinedTextFrame); ok {
			fields = append(fields, model.CustomField{Key: udtf.Description, Value: udtf.Value})
		}
	}
	return fields
}

func (a *Adapter) SetCustomField(key, value string) error {
	a.RemoveCustomField(key)
	a.tag.AddUserDefinedTextFrame(id3v2.UserDefinedTextFrame{
		Encoding:    id3v2.EncodingUTF8,
		Description: key,
		Value:       value,
	})
	return nil
}

func (a *Adapter) RemoveCustomField(key string) {
	a.rebuild("TXXX", func(frame id3v2.Framer) bool {
		udtf, ok := frame.(id3v2.UserDefinedTextFrame)
		return ok && udtf.Description == key
	})
}

func (a *Adapter) ReadFreeform(keys []string) (string, bool) {
	frames := a.tag.GetFrames("TXXX")
	for _, key := range keys {
		for _, frame := range frames {
			udtf, ok := frame.(id3v2.UserDefinedTextFrame)
			if !ok || !strings.EqualFold(udtf.Description, key) {
				continue
			}
			if value := strings.TrimRight(udtf.Value, "\x00"); value != "" {
				return value, true
			}
		}
	}
	return "", false
}

func (a *Adapter) Pictures() []model.Picture {
	pictures := []model.Picture{}
	for _, frame := range a.tag.GetFrames("APIC") {
		p, ok := frame.(id3v2.PictureFrame)
		if !ok {
			continue
		}

		mimeType := p.MimeType
		if mimeType == "" {
			mimeType = http.DetectContentType(p.Picture)
		}

		pictures = append(pictures, model.Picture{
			Type:        model.PictureType(p.PictureType),
			MimeType:    mimeType,
			Description: p.Description,
			Data:        p.Picture,
		})
	}
	return pictures
}

func (a *Adapter) ReplacePictures(t model.PictureType, pics []model.Picture) error {
	a.RemovePictures([]model.PictureType{t}, false)
	for _, p := range pics {
		a.tag.AddAttachedPicture(id3v2.PictureFrame{
			Encoding:    id3v2.EncodingUTF8,
			MimeType:    p.MimeType,
			PictureType: byte(t),
			Description: p.Description,
			Picture:     p.Data,
		})
	}
	return nil
}

func (a *Adapter) RemovePictures(types []model.PictureType, all bool) {
	a.rebuild("APIC", func(frame id3v2.Framer) bool {
		p, ok := frame.(id3v2.PictureFrame)
		return ok && (all || slices.Contains(types, model.PictureType(p.PictureType)))
	})
}
