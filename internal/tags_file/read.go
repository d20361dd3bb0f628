package tags_file

import (
	"bufio"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
	"golang.org/x/exp/slices"
)

const (
	TagsFileName = "tags"
	separator    = "//"
)

// ReadTagsFile reads the album tags file of dir. Tracks are returned in
// file order with track and disc numbers derived from their position.
func ReadTagsFile(dir string) ([]*model.Track, error) {
	tagsFile, err := os.Open(filepath.Join(dir, TagsFileName))
	if err != nil {
		return nil, errors.New("tagsファイルを読み込めませんでした。")
	}
	defer tagsFile.Close()

	return ParseTagsFile(tagsFile)
}

// ParseTagsFile parses the album tags format:
//
//	album
//	album artist//album artist
//	year
//
//	title//artist//artist
//	title
//
//	title (second disc)
func ParseTagsFile(r io.Reader) ([]*model.Track, error) {
	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanLines)

	allTracks := []*model.Track{}

	if !scanner.Scan() {
		return allTracks, nil
	}
	album := scanner.Text()

	if !scanner.Scan() {
		return allTracks, nil
	}
	albumArtists := splitValues(scanner.Text())

	if !scanner.Scan() {
		return allTracks, nil
	}
	var year *uint
	if text := strings.TrimSpace(scanner.Text()); text != "" {
		y, err := model.ParseYear(text)
		if err != nil {
			return allTracks, errors.New("tagsファイルの3行目が年ではありません。")
		}
		year = &y
	}

	scanner.Scan()
	if scanner.Text() != "" {
		return allTracks, errors.New("tagsファイルの4行目が空白行ではありません。")
	}

	newDisc := true
	tracksByDisc := [][]*model.Track{}

	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			newDisc = true
			continue
		}

		if newDisc {
			newDisc = false
			tracksByDisc = append(tracksByDisc, []*model.Track{})
		}

		tokens := strings.Split(line, separator)

		track := &model.Track{
			Album:        model.String(album),
			AlbumArtists: albumArtists,
			Year:         year,
			Title:        model.String(tokens[0]),
			Artists:      append(slices.Clone(albumArtists), splitValues(strings.Join(tokens[1:], separator))...),
		}

		index := len(tracksByDisc) - 1
		tracksByDisc[index] = append(tracksByDisc[index], track)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	totalDiscs := uint(len(tracksByDisc))
	for i, tracks := range tracksByDisc {
		totalTracks := uint(len(tracks))
		for j, track := range tracks {
			track.DiscNumber = &model.NumberPair{Position: uint(i + 1), Total: totalDiscs}
			track.TrackNumber = &model.NumberPair{Position: uint(j + 1), Total: totalTracks}
		}
	}

	for _, tracks := range tracksByDisc {
		allTracks = append(allTracks, tracks...)
	}

	return allTracks, nil
}

func splitValues(line string) []string {
	var values []string
	for _, v := range strings.Split(line, separator) {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
