package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/solidcopy/tagcore/internal/config"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/solidcopy/tagcore/internal/tags_file"
	log "github.com/sirupsen/logrus"
)

// ExecuteRename renames the audio files of dir after the album tags file:
// "[disc.]track.title.ext".
func ExecuteRename(ctx context.Context, dir string, cfg *config.Config) error {
	log.Info("リネーム処理を開始します。")

	filePaths, err := FindAudioFiles(dir)
	if err != nil {
		return err
	}

	tracks, err := tags_file.ReadTagsFile(dir)
	if err != nil {
		return err
	}

	if len(filePaths) != len(tracks) {
		return errors.New("オーディオファイルとtagsのトラック情報の数が一致しません。")
	}

	for i, track := range tracks {
		filePath := filePaths[i]

		newBaseName := determineNewBaseName(track)
		ext := filepath.Ext(filePath)
		newFilePath := filepath.Join(dir, newBaseName+ext)

		if newFilePath == filePath {
			continue
		}
		if err := os.Rename(filePath, newFilePath); err != nil {
			return err
		}
		log.WithFields(log.Fields{"from": filepath.Base(filePath), "to": filepath.Base(newFilePath)}).Debug("renamed")
	}

	log.Info("リネーム処理を終了します。")
	return nil
}

var charReplacer = strings.NewReplacer(
	"*", "-",
	"\\", "",
	"|", "",
	":", "",
	"\"", "",
	"<", "(",
	">", ")",
	"/", "",
	"?", "",
)

func determineNewBaseName(track *model.Track) string {
	newBaseName := new(strings.Builder)

	if disc := track.DiscNumber; disc != nil && disc.Total > 1 {
		newBaseName.WriteString(padNumber(disc.Position, disc.Total))
		newBaseName.WriteRune('.')
	}

	if number := track.TrackNumber; number != nil {
		newBaseName.WriteString(padNumber(number.Position, number.Total))
		newBaseName.WriteRune('.')
	}

	title := ""
	if track.Title != nil {
		title = *track.Title
	}
	newBaseName.WriteString(charReplacer.Replace(title))

	return newBaseName.String()
}

// padNumber zero pads n to the width of total.
func padNumber(n, total uint) string {
	length := len(strconv.FormatUint(uint64(max(total, n)), 10))
	return fmt.Sprintf("%0*d", length, n)
}
