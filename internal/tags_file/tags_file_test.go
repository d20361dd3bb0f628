package tags_file

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/solidcopy/tagcore/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const albumTags = `Album
First//Second
2020

One//Guest
Two

Three
`

func TestParseTagsFile(t *testing.T) {
	tracks, err := ParseTagsFile(strings.NewReader(albumTags))
	require.NoError(t, err)
	require.Len(t, tracks, 3)

	first := tracks[0]
	assert.Equal(t, model.String("Album"), first.Album)
	assert.Equal(t, []string{"First", "Second"}, first.AlbumArtists)
	require.NotNil(t, first.Year)
	assert.Equal(t, uint(2020), *first.Year)
	assert.Equal(t, model.String("One"), first.Title)
	assert.Equal(t, []string{"First", "Second", "Guest"}, first.Artists)
	assert.Equal(t, &model.NumberPair{Position: 1, Total: 2}, first.TrackNumber)
	assert.Equal(t, &model.NumberPair{Position: 1, Total: 2}, first.DiscNumber)

	assert.Equal(t, []string{"First", "Second"}, tracks[1].Artists)
	assert.Equal(t, &model.NumberPair{Position: 2, Total: 2}, tracks[1].TrackNumber)

	assert.Equal(t, model.String("Three"), tracks[2].Title)
	assert.Equal(t, &model.NumberPair{Position: 1, Total: 1}, tracks[2].TrackNumber)
	assert.Equal(t, &model.NumberPair{Position: 2, Total: 2}, tracks[2].DiscNumber)
}

func TestParseTagsFile_Errors(t *testing.T) {
	_, err := ParseTagsFile(strings.NewReader("Album\nArtist\nsoon\n\nOne\n"))
	assert.Error(t, err)

	_, err = ParseTagsFile(strings.NewReader("Album\nArtist\n2020\nOne\n"))
	assert.Error(t, err)

	tracks, err := ParseTagsFile(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, tracks)
}

func TestFormatTagsFile(t *testing.T) {
	tracks, err := ParseTagsFile(strings.NewReader(albumTags))
	require.NoError(t, err)

	buff := new(bytes.Buffer)
	require.NoError(t, FormatTagsFile(buff, tracks))
	assert.Equal(t, albumTags, buff.String())
}

func TestFormatTagsFile_InconsistentDiscNumbers(t *testing.T) {
	tracks := []*model.Track{
		{Title: model.String("A"), DiscNumber: &model.NumberPair{Position: 3}},
		{Title: model.String("B"), DiscNumber: &model.NumberPair{Position: 1}},
	}

	buff := new(bytes.Buffer)
	require.NoError(t, FormatTagsFile(buff, tracks))
	assert.Equal(t, "\n\n\n\nA\nB\n", buff.String())
}

func TestWriteAndReadTagsFile(t *testing.T) {
	dir := t.TempDir()
	tracks, err := ParseTagsFile(strings.NewReader(albumTags))
	require.NoError(t, err)
	tracks[0].FilePath = filepath.Join(dir, "01.flac")

	require.NoError(t, WriteTagsFile(tracks))

	data, err := os.ReadFile(filepath.Join(dir, TagsFileName))
	require.NoError(t, err)
	assert.Equal(t, albumTags, string(data))

	read, err := ReadTagsFile(dir)
	require.NoError(t, err)
	assert.Len(t, read, 3)

	_, err = ReadTagsFile(t.TempDir())
	assert.Error(t, err)
}

func TestTemplate_Roundtrip(t *testing.T) {
	year := uint(1999)
	track := &model.Track{
		Title:         model.String("Song"),
		Artists:       []string{"A", "B"},
		Lyrics:        model.String("line one\nline two \\ end"),
		TrackNumber:   &model.NumberPair{Position: 3, Total: 10},
		Year:          &year,
		CatalogNumber: model.String("CAT-1"),
		CustomFields: model.CustomFields{
			"MOOD":          "calm",
			"CATALOGNUMBER": "CAT-1",
		},
	}

	buff := new(bytes.Buffer)
	require.NoError(t, WriteTemplate(buff, track))
	assert.Contains(t, buff.String(), "Lyrics: line one\\nline two \\\\ end\n")
	assert.NotContains(t, buff.String(), "CATALOGNUMBER")

	tmpl, err := ReadTemplate(buff)
	require.NoError(t, err)

	assert.Equal(t, "Song", tmpl.Fields["Title"])
	assert.Equal(t, []string{"A", "B"}, tmpl.Fields["Artist"])
	assert.Equal(t, "line one\nline two \\ end", tmpl.Fields["Lyrics"])
	assert.Equal(t, "3/10", tmpl.Fields["TrackNumber"])
	assert.Equal(t, "1999", tmpl.Fields["Year"])
	assert.Equal(t, "CAT-1", tmpl.Fields["CatalogNumber"])

	subtitle, ok := tmpl.Fields["Subtitle"]
	assert.True(t, ok)
	assert.Nil(t, subtitle)

	assert.Len(t, tmpl.Fields, len(model.Fields))
	assert.Equal(t, map[string]string{"MOOD": "calm"}, tmpl.CustomFields)
}

func TestReadTemplate_NativeNames(t *testing.T) {
	tmpl, err := ReadTemplate(strings.NewReader("# comment\nREPLAYGAIN_TRACK_GAIN: -6 dB\nPERFORMER:a//b\n"))
	require.NoError(t, err)
	assert.Equal(t, "-6 dB", tmpl.Fields["REPLAYGAIN_TRACK_GAIN"])
	assert.Equal(t, []string{"a", "b"}, tmpl.Fields["PERFORMER"])

	_, err = ReadTemplate(strings.NewReader("no separator\n"))
	assert.Error(t, err)
}
