package tags_file

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/solidcopy/tagcore/internal/model"
	"golang.org/x/exp/slices"
)

// WriteTagsFile writes the album tags file next to the first track.
func WriteTagsFile(tracks []*model.Track) error {
	if len(tracks) == 0 {
		return nil
	}

	dir := filepath.Dir(tracks[0].FilePath)

	tagsFile, err := os.Create(filepath.Join(dir, TagsFileName))
	if err != nil {
		return err
	}
	defer tagsFile.Close()

	return FormatTagsFile(tagsFile, tracks)
}

// FormatTagsFile writes tracks in the album tags format. Album level values
// come from the first track; disc changes become blank lines.
func FormatTagsFile(w io.Writer, tracks []*model.Track) error {
	bw := bufio.NewWriter(w)

	track := tracks[0]

	bw.WriteString(deref(track.Album))
	bw.WriteString("\n")
	bw.WriteString(strings.Join(track.AlbumArtists, separator))
	bw.WriteString("\n")
	if track.Year != nil {
		bw.WriteString(model.FormatYear(*track.Year))
	}
	bw.WriteString("\n")

	bw.WriteString("\n")

	checkDiscNumber := isDiscNumberConsistent(tracks)
	curDiscNumber := uint(1)

	for _, track := range tracks {
		discNumber := position(track.DiscNumber)
		if checkDiscNumber && discNumber != curDiscNumber {
			bw.WriteString("\n")
			curDiscNumber = discNumber
		}

		bw.WriteString(deref(track.Title))

		artists := slices.DeleteFunc(slices.Clone(track.Artists), func(a string) bool {
			return a == "" || slices.Contains(track.AlbumArtists, a)
		})
		if len(artists) > 0 {
			bw.WriteString(separator)
			bw.WriteString(strings.Join(artists, separator))
		}

		bw.WriteString("\n")
	}

	return bw.Flush()
}

func isDiscNumberConsistent(tracks []*model.Track) bool {
	currentDiscNumber := uint(1)
	for _, track := range tracks {
		discNumber := position(track.DiscNumber)
		if discNumber != currentDiscNumber && discNumber != currentDiscNumber+1 {
			return false
		}
		currentDiscNumber = discNumber
	}

	return true
}

func position(p *model.NumberPair) uint {
	if p == nil {
		return 1
	}
	return p.Position
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
