package xiph

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/go-flac/flacpicture"
	"github.com/go-flac/flacvorbis"
	"github.com/go-flac/go-flac"
	tagcore "github.com/solidcopy/tagcore/internal"
	"github.com/solidcopy/tagcore/internal/model"
	"golang.org/x/exp/slices"
)

const (
	flacMagic   = "fLaC"
	paddingSize = 1024
)

type Blocks = []*flac.MetaDataBlock

// FLAC is the Vorbis comment and picture view of a FLAC stream. It also
// serves as the extension probe for FLAC streams behind an ID3v2 header.
type FLAC struct {
	path     string
	file     *flac.File
	present  bool
	pictures []*flacpicture.MetadataBlockPicture
	comments
}

// Probe reports whether the file at path holds a FLAC stream.
func Probe(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()
	return IsFLAC(file)
}

// IsFLAC reports whether r holds a FLAC stream, possibly behind an ID3v2
// tag. It reads from the current offset.
func IsFLAC(r io.ReadSeeker) bool {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return false
	}

	var header [10]byte
	if _, err := io.ReadFull(r, header[:4]); err != nil {
		return false
	}
	if string(header[:4]) == flacMagic {
		return true
	}
	if string(header[:3]) != "ID3" {
		return false
	}

	if _, err := io.ReadFull(r, header[4:]); err != nil {
		return false
	}
	size := int64(header[6]&0x7f)<<21 | int64(header[7]&0x7f)<<14 | int64(header[8]&0x7f)<<7 | int64(header[9]&0x7f)
	if _, err := r.Seek(start+10+size, io.SeekStart); err != nil {
		return false
	}
	if _, err := io.ReadFull(r, header[:4]); err != nil {
		return false
	}
	return string(header[:4]) == flacMagic
}

func OpenFLAC(path string) (*FLAC, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	flacFile, err := flac.ParseBytes(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	x := &FLAC{path: path, file: flacFile}

	for _, block := range flacFile.Meta {
		switch block.Type {
		case flac.VorbisComment:
			comment, err := flacvorbis.ParseFromMetaDataBlock(*block)
			if err != nil {
				return nil, err
			}
			x.present = true
			x.comments = parseComments(comment.Comments)
		case flac.Picture:
			picture, err := flacpicture.ParseFromMetaDataBlock(*block)
			if err != nil {
				continue
			}
			x.pictures = append(x.pictures, picture)
		}
	}

	return x, nil
}

func (x *FLAC) Name() string {
	return "Xiph"
}

func (x *FLAC) Present() bool {
	return x.present
}

func (x *FLAC) ReadField(f model.Field) ([]string, bool) {
	return x.readField(f)
}

func (x *FLAC) WriteField(f model.Field, values []string) error {
	return x.writeField(f, values)
}

func (x *FLAC) SetRaw(key string, values []string) error {
	return x.setRaw(key, values)
}

func (x *FLAC) ReadFreeform(keys []string) (string, bool) {
	return x.readFreeform(keys)
}

func (x *FLAC) CustomFields() []model.CustomField {
	return x.customFields()
}

func (x *FLAC) SetCustomField(key, value string) error {
	return x.setCustomField(key, value)
}

func (x *FLAC) RemoveCustomField(key string) {
	x.removeCustomField(key)
}

func (x *FLAC) Pictures() []model.Picture {
	pictures := []model.Picture{}
	for _, p := range x.pictures {
		mimeType := p.MIME
		if mimeType == "" {
			mimeType = http.DetectContentType(p.ImageData)
		}
		pictures = append(pictures, model.Picture{
			Type:        model.PictureType(p.PictureType),
			MimeType:    mimeType,
			Description: p.Description,
			Width:       int(p.Width),
			Height:      int(p.Height),
			Data:        p.ImageData,
		})
	}
	return pictures
}

func (x *FLAC) ReplacePictures(t model.PictureType, pics []model.Picture) error {
	x.RemovePictures([]model.PictureType{t}, false)
	for _, p := range pics {
		// NewFromImageData decodes the image; the bytes are stored as given
		x.pictures = append(x.pictures, &flacpicture.MetadataBlockPicture{
			PictureType: flacpicture.PictureType(t),
			MIME:        p.MimeType,
			Description: p.Description,
			Width:       uint32(p.Width),
			Height:      uint32(p.Height),
			ImageData:   p.Data,
		})
	}
	return nil
}

func (x *FLAC) RemovePictures(types []model.PictureType, all bool) {
	x.pictures = slices.DeleteFunc(x.pictures, func(p *flacpicture.MetadataBlockPicture) bool {
		return all || slices.Contains(types, model.PictureType(p.PictureType))
	})
}

// Save rewrites the metadata blocks. The comment block keeps its position,
// pictures and padding are appended after the other blocks.
func (x *FLAC) Save() error {
	comment := flacvorbis.New()
	comment.Vendor = "tagcore " + tagcore.Version
	comment.Comments = x.lines()
	commentBlock := comment.Marshal()

	blocks := Blocks{}
	replaced := false
	for _, block := range x.file.Meta {
		switch block.Type {
		case flac.VorbisComment:
			if !replaced {
				blocks = append(blocks, &commentBlock)
				replaced = true
			}
		case flac.Picture, flac.Padding:
		default:
			blocks = append(blocks, block)
		}
	}

	if !replaced {
		if len(blocks) == 0 || blocks[0].Type != flac.StreamInfo {
			return errors.New("flac: missing STREAMINFO block")
		}
		blocks = slices.Insert(blocks, 1, &commentBlock)
	}

	for _, picture := range x.pictures {
		pictureBlock := picture.Marshal()
		blocks = append(blocks, &pictureBlock)
	}

	padding := flac.MetaDataBlock{Type: flac.Padding, Data: make([]byte, paddingSize)}
	blocks = append(blocks, &padding)

	x.file.Meta = blocks
	if err := x.file.Save(x.path); err != nil {
		return err
	}

	x.present = true
	return nil
}

func (x *FLAC) Close() error {
	x.file = nil
	return nil
}
