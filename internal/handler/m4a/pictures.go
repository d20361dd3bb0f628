package m4a

import (
	"net/http"

	"github.com/solidcopy/tagcore/internal/model"
	"golang.org/x/exp/slices"
)

// Pictures returns the cover images. iTunes has no picture types; every
// image is a front cover.
func (a *Adapter) Pictures() []model.Picture {
	pictures := []model.Picture{}
	i := a.find(byType(atomCover))
	if i < 0 {
		return pictures
	}

	for _, d := range a.items[i].data {
		if len(d.value) == 0 {
			continue
		}
		pictures = append(pictures, model.Picture{
			Type:     model.PictureFrontCover,
			MimeType: mimeTypeOf(d),
			Data:     d.value,
		})
	}
	return pictures
}

func mimeTypeOf(d data) string {
	switch d.kind {
	case kindJPEG:
		return "image/jpeg"
	case kindPNG:
		return "image/png"
	case kindBMP:
		return "image/bmp"
	}
	return http.DetectContentType(d.value)
}

func kindOf(mimeType string) uint32 {
	switch mimeType {
	case "image/jpeg":
		return kindJPEG
	case "image/png":
		return kindPNG
	case "image/bmp":
		return kindBMP
	}
	return kindImplicit
}

func (a *Adapter) ReplacePictures(t model.PictureType, pics []model.Picture) error {
	if t != model.PictureFrontCover {
		return &model.FieldError{Field: "picture " + t.String(), Err: model.ErrNotSupported}
	}

	if len(pics) == 0 {
		a.replace(byType(atomCover), nil)
		return nil
	}

	it := item{typ: atomCover}
	for _, p := range pics {
		it.data = append(it.data, data{kind: kindOf(p.MimeType), value: p.Data})
	}
	a.replace(byType(atomCover), &it)
	return nil
}

func (a *Adapter) RemovePictures(types []model.PictureType, all bool) {
	if all || slices.Contains(types, model.PictureFrontCover) {
		a.replace(byType(atomCover), nil)
	}
}
