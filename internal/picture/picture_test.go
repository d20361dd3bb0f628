package picture

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/solidcopy/tagcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngData(t *testing.T, width, height int) []byte {
	t.Helper()
	buff := new(bytes.Buffer)
	require.NoError(t, png.Encode(buff, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buff.Bytes()
}

func TestImport(t *testing.T) {
	data := pngData(t, 3, 2)

	p, err := Import(data, "/tmp/Cover.PNG", model.PictureBackCover)
	require.NoError(t, err)
	assert.Equal(t, model.PictureBackCover, p.Type)
	assert.Equal(t, "image/png", p.MimeType)
	assert.Equal(t, "Cover.PNG", p.Filename)
	assert.Equal(t, 3, p.Width)
	assert.Equal(t, 2, p.Height)

	_, err = Import(data, "cover.xyz", model.PictureFrontCover)
	assert.ErrorIs(t, err, model.ErrUnsupportedImage)
}

func TestImportFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportFile(filepath.Join(dir, "cover.txt"), model.PictureFrontCover)
	assert.ErrorIs(t, err, model.ErrUnsupportedImage)

	_, err = ImportFile(filepath.Join(dir, "missing.jpg"), model.PictureFrontCover)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDescribe(t *testing.T) {
	p := model.Picture{Data: pngData(t, 5, 4)}
	Describe(&p)
	assert.Equal(t, "image/png", p.MimeType)
	assert.Equal(t, 5, p.Width)
	assert.Equal(t, 4, p.Height)

	broken := model.Picture{MimeType: "image/jpeg", Data: []byte{0xff, 0xd8, 0}}
	Describe(&broken)
	assert.Equal(t, "image/jpeg", broken.MimeType)
	assert.Zero(t, broken.Width)
}

func TestSelect(t *testing.T) {
	pics := []model.Picture{
		{Type: model.PictureFrontCover},
		{Type: model.PictureBackCover},
		{Type: model.PictureMedia},
	}

	assert.Equal(t, pics[:1], Select(pics, nil, false))
	assert.Equal(t, []model.Picture{pics[1], pics[2]}, Select(pics, []model.PictureType{model.PictureMedia, model.PictureBackCover}, false))
	assert.Equal(t, pics, Select(pics, nil, true))
	assert.Empty(t, Select(pics, []model.PictureType{model.PictureArtist}, false))
}

func TestRemove(t *testing.T) {
	pics := []model.Picture{
		{Type: model.PictureFrontCover},
		{Type: model.PictureBackCover},
	}

	kept := Remove(pics, []model.PictureType{model.PictureBackCover}, false)
	assert.Equal(t, pics[:1], kept)
	assert.Equal(t, kept, Remove(kept, []model.PictureType{model.PictureBackCover}, false))
	assert.Empty(t, Remove(pics, nil, true))
	assert.Equal(t, pics[1:], Remove(pics, nil, false))
}

func TestParseTypes(t *testing.T) {
	types, err := ParseTypes([]string{"frontcover", " BackCover "})
	require.NoError(t, err)
	assert.Equal(t, []model.PictureType{model.PictureFrontCover, model.PictureBackCover}, types)

	_, err = ParseTypes([]string{"FrontCover", "Poster"})
	assert.ErrorContains(t, err, "Poster")
}

func TestExport(t *testing.T) {
	pics := []model.Picture{
		{Type: model.PictureFrontCover, MimeType: "image/png"},
		{Type: model.PictureFrontCover, MimeType: "image/jpeg"},
		{Type: model.PictureBackCover, MimeType: "image/x-unknown"},
	}

	targets, warnings := Export(pics, ExportOptions{Source: "/music/a/song.flac", Prefix: "song_"})
	require.Len(t, targets, 3)
	assert.Equal(t, "/music/a/song_FrontCover.png", targets[0].Path)
	assert.Equal(t, "/music/a/song_FrontCover-2.jpg", targets[1].Path)
	assert.Equal(t, "/music/a/song_BackCover.jpg", targets[2].Path)

	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, model.ErrUnsupportedImage)

	targets, _ = Export(pics[:1], ExportOptions{Source: "/music/a/song.flac", Dir: "/covers"})
	assert.Equal(t, "/covers/FrontCover.png", targets[0].Path)
}

func TestExport_NoDirectory(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	targets, warnings := Export([]model.Picture{{Type: model.PictureMedia, MimeType: "image/gif"}}, ExportOptions{})
	require.Len(t, targets, 1)
	assert.Equal(t, filepath.Join(wd, "Media.gif"), targets[0].Path)
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0].Err, errNoDirectory)
}

func TestWriteFilesAndFind(t *testing.T) {
	dir := t.TempDir()
	data := pngData(t, 1, 1)

	targets, _ := Export([]model.Picture{{Type: model.PictureFrontCover, MimeType: "image/png", Data: data}}, ExportOptions{Dir: dir, Prefix: "x_"})
	require.NoError(t, WriteFiles(targets))

	pics, err := Find(dir, "x_", []model.PictureType{model.PictureFrontCover, model.PictureBackCover})
	require.NoError(t, err)
	require.Len(t, pics, 1)
	assert.Equal(t, model.PictureFrontCover, pics[0].Type)
	assert.Equal(t, "image/png", pics[0].MimeType)
	assert.Equal(t, data, pics[0].Data)
	assert.Equal(t, "x_FrontCover.png", pics[0].Filename)
}
