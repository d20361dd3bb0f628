package m4a

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/abema/go-mp4"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var audioData = []byte("audio-frame-data")

func atom(typ string, payload ...[]byte) []byte {
	body := bytes.Join(payload, nil)
	b := make([]byte, 8, 8+len(body))
	binary.BigEndian.PutUint32(b, uint32(8+len(body)))
	copy(b[4:], typ)
	return append(b, body...)
}

func be32(n uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, n)
	return b
}

func dataAtom(kind uint32, value []byte) []byte {
	return atom("data", be32(kind), be32(0), value)
}

// buildM4A assembles ftyp, moov and mdat. The single stco entry points at
// the mdat payload. ilst is placed under moov/udta/meta when given.
func buildM4A(moovFirst bool, ilst []byte) []byte {
	ftyp := atom("ftyp", []byte("M4A "), be32(0), []byte("M4A "))
	mdat := atom("mdat", audioData)

	moov := func(offset uint32) []byte {
		stco := atom("stco", be32(0), be32(1), be32(offset))
		children := [][]byte{atom("trak", atom("mdia", atom("minf", atom("stbl", stco))))}
		if ilst != nil {
			children = append(children, atom("udta", atom("meta", be32(0), metadataHandler, ilst)))
		}
		return atom("moov", children...)
	}

	if moovFirst {
		offset := uint32(len(ftyp) + len(moov(0)) + 8)
		return bytes.Join([][]byte{ftyp, moov(offset), mdat}, nil)
	}
	offset := uint32(len(ftyp) + 8)
	return bytes.Join([][]byte{ftyp, mdat, moov(offset)}, nil)
}

func createTestM4A(t *testing.T, dir string, moovFirst bool, ilst []byte) string {
	t.Helper()
	path := filepath.Join(dir, "test.m4a")
	require.NoError(t, os.WriteFile(path, buildM4A(moovFirst, ilst), 0o600))
	return path
}

func saveAndReopen(t *testing.T, path string, edit func(a *Adapter)) *Adapter {
	t.Helper()
	a, err := Open(path)
	require.NoError(t, err)
	edit(a)
	require.NoError(t, a.Save())
	require.NoError(t, a.Close())

	a, err = Open(path)
	require.NoError(t, err)
	return a
}

// assertChunkOffset checks that the stco entry points at the audio data.
func assertChunkOffset(t *testing.T, path string) {
	t.Helper()

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	boxes, err := mp4.ExtractBoxWithPayload(file, nil, mp4.BoxPath{
		mp4.BoxTypeMoov(), mp4.BoxTypeTrak(), mp4.BoxTypeMdia(), mp4.BoxTypeMinf(), mp4.BoxTypeStbl(), mp4.BoxTypeStco(),
	})
	require.NoError(t, err)
	require.Len(t, boxes, 1)
	stco, ok := boxes[0].Payload.(*mp4.Stco)
	require.True(t, ok)
	require.Len(t, stco.ChunkOffset, 1)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	offset := int(stco.ChunkOffset[0])
	require.LessOrEqual(t, offset+len(audioData), len(data))
	assert.Equal(t, audioData, data[offset:offset+len(audioData)])
}

func TestOpen_WithoutMetadata(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), true, nil)

	assert.True(t, Probe(path))

	a, err := Open(path)
	require.NoError(t, err)
	assert.False(t, a.Present())
	assert.Empty(t, a.Pictures())
	_, ok := a.ReadField(model.FieldTitle)
	assert.False(t, ok)
}

func TestIsMP4(t *testing.T) {
	assert.True(t, IsMP4(bytes.NewReader(buildM4A(true, nil))))
	assert.False(t, IsMP4(bytes.NewReader([]byte("fLaC\x00\x00\x00\x22"))))
	assert.False(t, IsMP4(bytes.NewReader([]byte("ftyp"))))
}

func TestSave_CreatesItemListAndMovesChunkOffsets(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), true, nil)

	a := saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.WriteField(model.FieldTitle, []string{"Title"}))
	})

	assert.True(t, a.Present())
	values, ok := a.ReadField(model.FieldTitle)
	assert.True(t, ok)
	assert.Equal(t, []string{"Title"}, values)

	assertChunkOffset(t, path)

	_, err := os.Stat(path + tempSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestSave_MoovAfterMdat(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), false, nil)

	saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.WriteField(model.FieldAlbum, []string{"Album"}))
	})

	assertChunkOffset(t, path)
}

func TestFields_Roundtrip(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), true, nil)

	a := saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.WriteField(model.FieldArtist, []string{"A", "B"}))
		require.NoError(t, a.WriteField(model.FieldTrackNumber, []string{"5/12"}))
		require.NoError(t, a.WriteField(model.FieldDiscNumber, []string{"1"}))
		require.NoError(t, a.WriteField(model.FieldYear, []string{"2010"}))
		require.NoError(t, a.WriteField(model.FieldSubtitle, []string{"Sub"}))
		require.NoError(t, a.WriteField(model.FieldISRC, []string{"USRC17607839"}))
	})

	read := func(f model.Field) []string {
		values, ok := a.ReadField(f)
		require.True(t, ok, f)
		return values
	}
	assert.Equal(t, []string{"A", "B"}, read(model.FieldArtist))
	assert.Equal(t, []string{"5/12"}, read(model.FieldTrackNumber))
	assert.Equal(t, []string{"1"}, read(model.FieldDiscNumber))
	assert.Equal(t, []string{"2010"}, read(model.FieldYear))
	assert.Equal(t, []string{"Sub"}, read(model.FieldSubtitle))
	assert.Equal(t, []string{"USRC17607839"}, read(model.FieldISRC))

	// standard freeform atoms are not custom fields
	assert.Empty(t, a.CustomFields())

	i := a.find(byType(atomTrack))
	require.GreaterOrEqual(t, i, 0)
	assert.Len(t, a.items[i].data[0].value, 8)
	i = a.find(byType(atomDisc))
	require.GreaterOrEqual(t, i, 0)
	assert.Len(t, a.items[i].data[0].value, 6)

	require.NoError(t, a.WriteField(model.FieldTrackNumber, nil))
	_, ok := a.ReadField(model.FieldTrackNumber)
	assert.False(t, ok)
}

func TestExistingItemsArePreserved(t *testing.T) {
	unknown := atom("xtra", atom("blob", []byte{1, 2, 3}))
	ilst := atom("ilst",
		atom("\251nam", dataAtom(kindUTF8, []byte("Old"))),
		atom("cpil", dataAtom(21, []byte{1})),
		unknown,
		atom("----",
			atom("mean", be32(0), []byte(itunesMean)),
			atom("name", be32(0), []byte("CATALOGNUMBER")),
			dataAtom(kindUTF8, []byte("CAT-1"))),
	)
	path := createTestM4A(t, t.TempDir(), true, ilst)

	a, err := Open(path)
	require.NoError(t, err)
	assert.True(t, a.Present())
	values, _ := a.ReadField(model.FieldTitle)
	assert.Equal(t, []string{"Old"}, values)

	a = saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.WriteField(model.FieldTitle, []string{"New"}))
	})

	values, _ = a.ReadField(model.FieldTitle)
	assert.Equal(t, []string{"New"}, values)
	assert.Equal(t, mp4.StrToBoxType("\251nam"), a.items[0].typ)

	i := a.find(byType(mp4.StrToBoxType("cpil")))
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, []data{{kind: 21, value: []byte{1}}}, a.items[i].data)

	i = a.find(byType(mp4.StrToBoxType("xtra")))
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, unknown, a.items[i].raw)

	v, ok := a.ReadFreeform([]string{"catalog number", "catalognumber"})
	assert.True(t, ok)
	assert.Equal(t, "CAT-1", v)

	assertChunkOffset(t, path)
}

func TestCustomFields(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), true, nil)

	saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.SetCustomField("MOOD", "calm"))
	})

	a := saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.SetCustomField("MOOD", "angry"))
		a.RemoveCustomField("mood")
		a.RemoveCustomField("NEVER")
	})

	assert.Equal(t, []model.CustomField{{Key: "MOOD", Value: "angry"}}, a.CustomFields())

	a.RemoveCustomField("MOOD")
	assert.Empty(t, a.CustomFields())
}

func TestReadFreeform_StandardAtom(t *testing.T) {
	ilst := atom("ilst", atom("purd", dataAtom(kindUTF8, []byte("2020-01-01"))))
	path := createTestM4A(t, t.TempDir(), true, ilst)

	a, err := Open(path)
	require.NoError(t, err)

	v, ok := a.ReadFreeform(model.FieldPurchaseDate.Aliases())
	assert.True(t, ok)
	assert.Equal(t, "2020-01-01", v)
	assert.Empty(t, a.CustomFields())
}

func TestFreeform_OtherMeanIsIgnored(t *testing.T) {
	other := func(name, value string) []byte {
		return atom("----",
			atom("mean", be32(0), []byte("com.other")),
			atom("name", be32(0), []byte(name)),
			dataAtom(kindUTF8, []byte(value)))
	}
	ilst := atom("ilst", other("MOOD", "calm"), other("CATALOGNUMBER", "CAT-1"))
	path := createTestM4A(t, t.TempDir(), true, ilst)

	a, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, a.CustomFields())
	_, ok := a.ReadFreeform([]string{"catalognumber"})
	assert.False(t, ok)

	a = saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.SetCustomField("MOOD", "angry"))
	})
	assert.Equal(t, []model.CustomField{{Key: "MOOD", Value: "angry"}}, a.CustomFields())
	assert.Len(t, a.items, 3)
}

func TestPictures(t *testing.T) {
	path := createTestM4A(t, t.TempDir(), true, nil)

	cover := model.Picture{MimeType: "image/png", Data: []byte{0x89, 'P', 'N', 'G', 1}}

	a := saveAndReopen(t, path, func(a *Adapter) {
		require.NoError(t, a.ReplacePictures(model.PictureFrontCover, []model.Picture{cover}))
		err := a.ReplacePictures(model.PictureBackCover, []model.Picture{cover})
		assert.ErrorIs(t, err, model.ErrNotSupported)
	})

	pictures := a.Pictures()
	require.Len(t, pictures, 1)
	assert.Equal(t, model.PictureFrontCover, pictures[0].Type)
	assert.Equal(t, "image/png", pictures[0].MimeType)
	assert.Equal(t, cover.Data, pictures[0].Data)

	a.RemovePictures([]model.PictureType{model.PictureBackCover}, false)
	assert.Len(t, a.Pictures(), 1)
	a.RemovePictures([]model.PictureType{model.PictureFrontCover}, false)
	assert.Empty(t, a.Pictures())
}

func TestSetRaw(t *testing.T) {
	a := &Adapter{items: []item{}}

	require.NoError(t, a.SetRaw("©too", []string{"encoder"}))
	i := a.find(byType(mp4.StrToBoxType("\251too")))
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, []string{"encoder"}, a.items[i].text())

	assert.ErrorIs(t, a.SetRaw("----", []string{"x"}), model.ErrTypeMismatch)
	assert.ErrorIs(t, a.SetRaw("toolong", []string{"x"}), model.ErrUnknownField)
}

func TestOpen_MalformedItemList(t *testing.T) {
	ilst := atom("ilst", []byte{0, 0, 0, 99, 'b', 'a', 'd', '!'})
	path := createTestM4A(t, t.TempDir(), true, ilst)

	_, err := Open(path)
	assert.ErrorIs(t, err, errMalformedAtom)
}
