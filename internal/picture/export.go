package picture

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/solidcopy/tagcore/internal/model"
)

var searchExts = []string{".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

var errNoDirectory = errors.New("no directory for exported pictures")

type ExportOptions struct {
	// Source is the audio file the pictures came from.
	Source string
	// Dir overrides the directory of Source.
	Dir    string
	Prefix string
}

// Target is a picture and the file it will be written to.
type Target struct {
	Path    string
	Picture model.Picture
}

// Export plans the image files for pics. A file is named prefix + picture
// type + extension; a type seen again gets "-2", "-3" and so on.
func Export(pics []model.Picture, opts ExportOptions) ([]Target, []model.Warning) {
	var warnings []model.Warning

	dir := opts.Dir
	if dir == "" && opts.Source != "" {
		dir = filepath.Dir(opts.Source)
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}
		dir = wd
		warnings = append(warnings, model.Warning{Path: opts.Source, Field: "picture", Err: fmt.Errorf("%w, using %s", errNoDirectory, dir)})
	}

	seen := map[model.PictureType]int{}
	targets := make([]Target, 0, len(pics))

	for _, p := range pics {
		ext, ok := Ext(p.MimeType)
		if !ok {
			ext = ".jpg"
			warnings = append(warnings, model.Warning{
				Path:  opts.Source,
				Field: "picture " + p.Type.String(),
				Err:   fmt.Errorf("%w: unknown MIME type %q, saved as %s", model.ErrUnsupportedImage, p.MimeType, ext),
			})
		}

		seen[p.Type]++
		name := opts.Prefix + p.Type.String()
		if n := seen[p.Type]; n > 1 {
			name += "-" + strconv.Itoa(n)
		}

		targets = append(targets, Target{Path: filepath.Join(dir, name+ext), Picture: p})
	}

	return targets, warnings
}

// WriteFiles writes every target to disk.
func WriteFiles(targets []Target) error {
	for _, target := range targets {
		if err := os.WriteFile(target.Path, target.Picture.Data, 0644); err != nil {
			return err
		}
	}
	return nil
}

// Find looks in dir for image files named prefix + picture type with a known
// extension and imports them.
func Find(dir string, prefix string, types []model.PictureType) ([]model.Picture, error) {
	pics := []model.Picture{}
	for _, t := range types {
		for _, ext := range searchExts {
			path := filepath.Join(dir, prefix+t.String()+ext)
			if stat, err := os.Stat(path); err != nil || stat.IsDir() {
				continue
			}

			p, err := ImportFile(path, t)
			if err != nil {
				return nil, err
			}
			pics = append(pics, p)
			break
		}
	}
	return pics, nil
}
