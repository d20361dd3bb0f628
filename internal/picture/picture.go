package picture

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
	"golang.org/x/exp/slices"
)

var mimeTypesByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tif":  "image/tiff",
	".tiff": "image/tiff",
	".webp": "image/webp",
}

var extsByMimeType = map[string]string{
	"image/jpeg": ".jpg",
	"image/jpg":  ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tif",
	"image/webp": ".webp",
}

// DefaultTypes is the selection used when no picture type is given.
var DefaultTypes = []model.PictureType{model.PictureFrontCover}

// MimeType returns the MIME type for a file name by its extension.
func MimeType(filename string) (string, bool) {
	mimeType, ok := mimeTypesByExt[strings.ToLower(filepath.Ext(filename))]
	return mimeType, ok
}

// Ext returns the file extension for a MIME type.
func Ext(mimeType string) (string, bool) {
	ext, ok := extsByMimeType[strings.ToLower(mimeType)]
	return ext, ok
}

// Import builds a picture from image bytes. The MIME type comes from the
// file name; unknown extensions are rejected.
func Import(data []byte, filename string, t model.PictureType) (model.Picture, error) {
	mimeType, ok := MimeType(filename)
	if !ok {
		return model.Picture{}, fmt.Errorf("%s: %w", filename, model.ErrUnsupportedImage)
	}

	p := model.Picture{
		Type:     t,
		MimeType: mimeType,
		Filename: filepath.Base(filename),
		Data:     data,
	}
	Describe(&p)

	return p, nil
}

// ImportFile reads an image file and imports it.
func ImportFile(path string, t model.PictureType) (model.Picture, error) {
	if _, ok := MimeType(path); !ok {
		return model.Picture{}, fmt.Errorf("%s: %w", path, model.ErrUnsupportedImage)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return model.Picture{}, err
	}

	return Import(data, path, t)
}

// Describe fills in the MIME type when missing and the dimensions when the
// image can be decoded.
func Describe(p *model.Picture) {
	if p.MimeType == "" {
		p.MimeType = http.DetectContentType(p.Data)
	}

	config, _, err := image.DecodeConfig(bytes.NewReader(p.Data))
	if err != nil {
		return
	}
	p.Width = config.Width
	p.Height = config.Height
}

// Select returns the pictures whose type is in types. all selects every
// picture. An empty types selects front covers.
func Select(pics []model.Picture, types []model.PictureType, all bool) []model.Picture {
	if len(types) == 0 {
		types = DefaultTypes
	}

	selected := []model.Picture{}
	for _, p := range pics {
		if all || slices.Contains(types, p.Type) {
			selected = append(selected, p)
		}
	}
	return selected
}

// Remove returns pics without the pictures of the given types. An empty
// types removes front covers. Removing a type that is not there changes
// nothing.
func Remove(pics []model.Picture, types []model.PictureType, all bool) []model.Picture {
	if all {
		return []model.Picture{}
	}
	if len(types) == 0 {
		types = DefaultTypes
	}

	kept := []model.Picture{}
	for _, p := range pics {
		if !slices.Contains(types, p.Type) {
			kept = append(kept, p)
		}
	}
	return kept
}

// ParseTypes resolves picture type names. Unknown names are returned as an
// error listing them.
func ParseTypes(names []string) ([]model.PictureType, error) {
	types := []model.PictureType{}
	var unknown []string
	for _, name := range names {
		t, ok := model.ParsePictureType(name)
		if !ok {
			unknown = append(unknown, name)
			continue
		}
		types = append(types, t)
	}
	if len(unknown) > 0 {
		return types, fmt.Errorf("unknown picture types: %s", strings.Join(unknown, ", "))
	}
	return types, nil
}
