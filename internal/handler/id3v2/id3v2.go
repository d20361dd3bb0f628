package id3v2

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/solidcopy/tagcore/internal/model"
)

const id3Magic = "ID3"

// Adapter reads and writes the ID3v2 tag of an MP3 or DSF file.
// Tags are always saved as ID3v2.4 with UTF-8 text.
type Adapter struct {
	path    string
	dsf     bool
	present bool
	version byte
	tag     *id3v2.Tag
}

// Probe reports whether the file starts with an ID3v2 header.
func Probe(path string) bool {
	file, err := os.Open(path)
	if err != nil {
		return false
	}
	defer file.Close()

	var buff [3]byte
	if _, err := io.ReadFull(file, buff[:]); err != nil {
		return false
	}
	return string(buff[:]) == id3Magic
}

func Open(path string) (*Adapter, error) {
	if strings.EqualFold(filepath.Ext(path), ".dsf") {
		return openDSF(path)
	}

	a := &Adapter{path: path, present: Probe(path)}

	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	a.tag = tag
	a.version = tag.Version()
	a.upgradeLists()

	return a, nil
}

func openDSF(path string) (*Adapter, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	a := &Adapter{path: path, dsf: true}

	pointer, err := seekToMetadataChunk(file)
	if err != nil {
		return nil, err
	}

	if pointer == 0 {
		a.tag = id3v2.NewEmptyTag()
		a.version = 4
		return a, nil
	}

	tag, err := id3v2.ParseReader(file, id3v2.Options{Parse: true})
	if err != nil {
		return nil, err
	}
	a.tag = tag
	a.present = true
	a.version = tag.Version()
	a.upgradeLists()

	return a, nil
}

func (a *Adapter) Name() string {
	return fmt.Sprintf("ID3v2.%d", a.version)
}

func (a *Adapter) Present() bool {
	return a.present
}

func (a *Adapter) ReadField(f model.Field) ([]string, bool) {
	c, ok := registry[f]
	if !ok {
		return nil, false
	}
	values := c.read(a)
	return values, len(values) > 0
}

func (a *Adapter) WriteField(f model.Field, values []string) error {
	c, ok := registry[f]
	if !ok {
		return &model.FieldError{Field: string(f), Err: model.ErrUnknownField}
	}
	c.write(a, values)
	return nil
}

// SetRaw sets any text information frame ("T" + three characters) by id.
func (a *Adapter) SetRaw(key string, values []string) error {
	if !isTextFrameID(key) {
		return &model.FieldError{Field: key, Err: model.ErrUnknownField}
	}
	writeList(a, key, values)
	return nil
}

func isTextFrameID(id string) bool {
	if len(id) != 4 || id[0] != 'T' || id == "TXXX" {
		return false
	}
	for _, r := range id {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

func (a *Adapter) Save() error {
	a.tag.SetVersion(4)
	a.tag.SetDefaultEncoding(id3v2.EncodingUTF8)
	a.version = 4

	if a.dsf {
		return a.saveDSF()
	}

	return a.tag.Save()
}

func (a *Adapter) Close() error {
	if a.dsf || a.tag == nil {
		return nil
	}
	err := a.tag.Close()
	a.tag = nil
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// saveDSF replaces the tag at the end of a DSF file and updates the
// file size and metadata pointer in the DSD chunk.
func (a *Adapter) saveDSF() error {
	var pointer int64
	{
		file, err := os.Open(a.path)
		if err != nil {
			return err
		}
		pointer, err = seekToMetadataChunk(file)
		file.Close()
		if err != nil {
			return err
		}
	}

	// drop the existing tag
	if pointer != 0 {
		if err := os.Truncate(a.path, pointer); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(a.path, os.O_WRONLY, 0666)
	if err != nil {
		return err
	}
	defer file.Close()

	endPointer, err := file.Seek(0, io.SeekEnd)
	if err != nil {
		return err
	}

	writtenSize, err := a.tag.WriteTo(file)
	if err != nil {
		return err
	}

	buff := make([]byte, 16)
	binary.LittleEndian.PutUint64(buff[0:8], uint64(endPointer)+uint64(writtenSize))
	binary.LittleEndian.PutUint64(buff[8:16], uint64(endPointer))
	if _, err := file.WriteAt(buff, 12); err != nil {
		return err
	}

	a.present = true
	return nil
}

// DSF keeps its ID3v2 tag at the end of the file, at the offset stored in
// the DSD chunk. seekToMetadataChunk reads that offset and moves the file
// position there. A zero offset means the file has no tag.
func seekToMetadataChunk(file *os.File) (int64, error) {
	var header [28]byte
	if _, err := io.ReadFull(file, header[:]); err != nil {
		return 0, errors.New("dsf: file too short")
	}
	if !bytes.Equal(header[0:4], []byte("DSD ")) {
		return 0, errors.New("dsf: missing DSD chunk")
	}

	pointer := int64(binary.LittleEndian.Uint64(header[20:28]))
	if pointer != 0 {
		if _, err := file.Seek(pointer, io.SeekStart); err != nil {
			return 0, err
		}
	}

	return pointer, nil
}
