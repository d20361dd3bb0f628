package handler

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	"github.com/solidcopy/tagcore/internal/handler/id3v2"
	"github.com/solidcopy/tagcore/internal/handler/m4a"
	"github.com/solidcopy/tagcore/internal/handler/xiph"
	"github.com/solidcopy/tagcore/internal/model"
)

// Format is the physical container of an audio file.
type Format string

const (
	FormatMP3  Format = "MP3"
	FormatDSF  Format = "DSF"
	FormatFLAC Format = "FLAC"
	FormatOGG  Format = "OGG"
	FormatM4A  Format = "M4A"
)

var formatsByExtension = map[string]Format{
	".mp3":  FormatMP3,
	".dsf":  FormatDSF,
	".flac": FormatFLAC,
	".ogg":  FormatOGG,
	".oga":  FormatOGG,
	".opus": FormatOGG,
	".m4a":  FormatM4A,
	".m4b":  FormatM4A,
	".mp4":  FormatM4A,
}

// IsAudioFile reports whether path has a supported extension.
func IsAudioFile(path string) bool {
	_, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Container is an opened audio file with every tag subsystem found in it.
// It must be closed.
type Container struct {
	Path   string
	Format Format
	// what the file identifies itself as, e.g. "FLAC" or "M4A"
	Descriptor string

	primary Adapter
	probes  []Adapter
}

// Open opens path and probes all known tag containers. The primary adapter
// is chosen by container format; the others are opened read-only and only
// when their signature is found in the file. The file header is read once
// for identification and for every signature check.
func Open(path string) (*Container, error) {
	format, ok := formatsByExtension[strings.ToLower(filepath.Ext(path))]
	if !ok {
		if _, err := os.Stat(path); err != nil {
			return nil, &model.OpenError{Path: path, Err: err}
		}
		return nil, &model.UnsupportedFormatError{Path: path, Reason: "unknown extension " + filepath.Ext(path)}
	}

	c := &Container{Path: path, Format: format}
	hasXiph, hasApple, err := c.readHeader()
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatMP3, FormatDSF:
		c.primary, err = id3v2.Open(path)
	case FormatFLAC:
		c.primary, err = xiph.OpenFLAC(path)
	case FormatOGG:
		c.primary, err = xiph.OpenOgg(path)
	case FormatM4A:
		c.primary, err = m4a.Open(path)
	}
	if err != nil {
		return nil, containerError(path, format, err)
	}

	// probe order after the primary tag is fixed: Xiph, then Apple
	if format != FormatFLAC && format != FormatOGG && hasXiph {
		a, err := xiph.OpenFLAC(path)
		if err == nil {
			c.probes = append(c.probes, a)
		}
	}
	if format != FormatM4A && hasApple {
		a, err := m4a.Open(path)
		if err == nil {
			c.probes = append(c.probes, a)
		}
	}

	return c, nil
}

// readHeader opens the file once, sets the descriptor and reports which
// secondary tag signatures are present.
func (c *Container) readHeader() (hasXiph, hasApple bool, err error) {
	file, err := os.Open(c.Path)
	if err != nil {
		return false, false, &model.OpenError{Path: c.Path, Err: err}
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return false, false, &model.OpenError{Path: c.Path, Err: err}
	}
	if stat.IsDir() {
		return false, false, &model.OpenError{Path: c.Path, Err: fs.ErrInvalid}
	}

	c.Descriptor = identify(file, c.Format)
	if _, err := file.Seek(0, io.SeekStart); err == nil {
		hasXiph = xiph.IsFLAC(file)
	}
	if _, err := file.Seek(0, io.SeekStart); err == nil {
		hasApple = m4a.IsMP4(file)
	}
	return hasXiph, hasApple, nil
}

func containerError(path string, format Format, err error) error {
	var openErr *model.OpenError
	if errors.As(err, &openErr) || errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		return &model.OpenError{Path: path, Err: err}
	}
	return &model.CorruptContainerError{Path: path, Format: string(format), Err: err}
}

// identify asks dhowden/tag what the file is. Files without any tag (a bare
// MP3 stream) fall back to the extension.
func identify(r io.ReadSeeker, format Format) string {
	_, fileType, err := tag.Identify(r)
	if err != nil || fileType == tag.UnknownFileType {
		return string(format)
	}
	return string(fileType)
}

// Primary is the adapter for the container's native tag. Writes go here.
func (c *Container) Primary() Adapter {
	return c.primary
}

// ProbeOrder lists present adapters in catalog probe order: primary, Xiph,
// Apple. Absent adapters are left out.
func (c *Container) ProbeOrder() []Adapter {
	adapters := []Adapter{}
	if c.primary.Present() {
		adapters = append(adapters, c.primary)
	}
	for _, a := range c.probes {
		if a.Present() {
			adapters = append(adapters, a)
		}
	}
	return adapters
}

// TagTypes names every tag subsystem present in the file.
func (c *Container) TagTypes() []string {
	names := []string{}
	for _, a := range c.ProbeOrder() {
		names = append(names, a.Name())
	}
	return names
}

func (c *Container) Save() error {
	return c.primary.Save()
}

// Close releases every adapter. It is safe to call more than once.
func (c *Container) Close() error {
	var errs []error
	if c.primary != nil {
		errs = append(errs, c.primary.Close())
	}
	for _, a := range c.probes {
		errs = append(errs, a.Close())
	}
	return errors.Join(errs...)
}
