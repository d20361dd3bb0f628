package m4a

import (
	"bytes"
	"io"
	"os"

	"github.com/abema/go-mp4"
)

const tempSuffix = ".tagcore_temp"

// hdlr box of an iTunes metadata meta box
var metadataHandler = []byte{
	0, 0, 0, 33, 'h', 'd', 'l', 'r',
	0, 0, 0, 0, // version and flags
	0, 0, 0, 0, // pre-defined
	'm', 'd', 'i', 'r',
	'a', 'p', 'p', 'l', 0, 0, 0, 0, 0, 0, 0, 0,
	0, // empty name
}

type span struct {
	offset uint64
	size   uint64
}

// Save rewrites the file through a temporary copy. The new ilst replaces
// the old one, and udta, meta and hdlr are created when missing. Chunk
// offsets are corrected when the media data moved.
func (a *Adapter) Save() error {
	src, err := os.Open(a.path)
	if err != nil {
		return err
	}
	defer src.Close()

	tempPath := a.path + tempSuffix
	dst, err := os.OpenFile(tempPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	defer os.Remove(tempPath)
	defer dst.Close()

	oldMdats, err := a.copyWithItems(src, dst)
	if err != nil {
		return err
	}

	if err := fixChunkOffsets(dst, oldMdats); err != nil {
		return err
	}

	if err := dst.Close(); err != nil {
		return err
	}
	src.Close()

	if err := os.Rename(tempPath, a.path); err != nil {
		return err
	}

	a.present = true
	return nil
}

// copyWithItems copies src to dst with the item list replaced and returns
// the position of every top level mdat box in src.
func (a *Adapter) copyWithItems(src *os.File, dst *os.File) ([]span, error) {
	w := mp4.NewWriter(dst)

	var mdats []span
	var hasUdta, hasMeta bool

	_, err := mp4.ReadBoxStructure(src, func(h *mp4.ReadHandle) (interface{}, error) {
		switch {
		case isPath(h.Path, mp4.BoxTypeMoov()):
			return nil, a.copyContainer(w, h, func() error {
				if hasUdta {
					return nil
				}
				return a.writeUdta(w)
			})

		case isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta()):
			hasUdta = true
			return nil, a.copyContainer(w, h, func() error {
				if hasMeta {
					return nil
				}
				return a.writeMeta(w)
			})

		case isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta()):
			hasMeta = true
			return nil, a.copyContainer(w, h, func() error {
				return writeItems(w, a.items)
			})

		case isPath(h.Path, mp4.BoxTypeMoov(), mp4.BoxTypeUdta(), mp4.BoxTypeMeta(), mp4.BoxTypeIlst()):
			return nil, nil

		case isPath(h.Path, mp4.BoxTypeMdat()):
			mdats = append(mdats, span{offset: h.BoxInfo.Offset, size: h.BoxInfo.Size})
		}

		return nil, w.CopyBox(src, &h.BoxInfo)
	})
	if err != nil {
		return nil, err
	}

	return mdats, nil
}

// copyContainer copies a box header and payload, its children, then
// whatever appendChildren writes before closing the box.
func (a *Adapter) copyContainer(w *mp4.Writer, h *mp4.ReadHandle, appendChildren func() error) error {
	if _, err := w.StartBox(&h.BoxInfo); err != nil {
		return err
	}

	box, _, err := h.ReadPayload()
	if err != nil {
		return err
	}
	if _, err := mp4.Marshal(w, box, h.BoxInfo.Context); err != nil {
		return err
	}

	if _, err := h.Expand(); err != nil {
		return err
	}

	if err := appendChildren(); err != nil {
		return err
	}

	_, err = w.EndBox()
	return err
}

func (a *Adapter) writeUdta(w *mp4.Writer) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeUdta()}); err != nil {
		return err
	}
	if err := a.writeMeta(w); err != nil {
		return err
	}
	_, err := w.EndBox()
	return err
}

func (a *Adapter) writeMeta(w *mp4.Writer) error {
	if _, err := w.StartBox(&mp4.BoxInfo{Type: mp4.BoxTypeMeta()}); err != nil {
		return err
	}

	meta := mp4.Meta{}
	if _, err := mp4.Marshal(w, &meta, mp4.Context{UnderUdta: true}); err != nil {
		return err
	}

	if _, err := w.Write(metadataHandler); err != nil {
		return err
	}

	if err := writeItems(w, a.items); err != nil {
		return err
	}

	_, err := w.EndBox()
	return err
}

type chunkOffsets struct {
	info mp4.BoxInfo
	box  mp4.IBox
}

// fixChunkOffsets moves every stco/co64 entry that pointed into an mdat of
// the original file to the same place in the corresponding mdat of file.
func fixChunkOffsets(file *os.File, oldMdats []span) error {
	var newMdats []span
	var tables []chunkOffsets

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	_, err := mp4.ReadBoxStructure(file, func(h *mp4.ReadHandle) (interface{}, error) {
		switch h.BoxInfo.Type {
		case mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl():
			return h.Expand()
		case mp4.BoxTypeMdat():
			if len(h.Path) == 1 {
				newMdats = append(newMdats, span{offset: h.BoxInfo.Offset, size: h.BoxInfo.Size})
			}
		case mp4.BoxTypeStco(), mp4.BoxTypeCo64():
			box, _, err := h.ReadPayload()
			if err != nil {
				return nil, err
			}
			tables = append(tables, chunkOffsets{info: h.BoxInfo, box: box})
		}
		return nil, nil
	})
	if err != nil {
		return err
	}

	if len(oldMdats) != len(newMdats) || len(tables) == 0 {
		return nil
	}

	moved := false
	for i := range oldMdats {
		if oldMdats[i].offset != newMdats[i].offset {
			moved = true
		}
	}
	if !moved {
		return nil
	}

	relocate := func(offset uint64) uint64 {
		for i, m := range oldMdats {
			if offset >= m.offset && offset < m.offset+m.size {
				return offset - m.offset + newMdats[i].offset
			}
		}
		return offset
	}

	for _, table := range tables {
		switch box := table.box.(type) {
		case *mp4.Stco:
			for i, offset := range box.ChunkOffset {
				box.ChunkOffset[i] = uint32(relocate(uint64(offset)))
			}
		case *mp4.Co64:
			for i, offset := range box.ChunkOffset {
				box.ChunkOffset[i] = relocate(offset)
			}
		}

		buff := new(bytes.Buffer)
		if _, err := mp4.Marshal(buff, table.box, table.info.Context); err != nil {
			return err
		}
		if _, err := file.WriteAt(buff.Bytes(), int64(table.info.Offset+table.info.HeaderSize)); err != nil {
			return err
		}
	}

	return nil
}
