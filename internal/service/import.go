package service

import (
	"context"
	"errors"

	"github.com/solidcopy/tagcore/internal/config"
	"github.com/solidcopy/tagcore/internal/metadata"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/solidcopy/tagcore/internal/picture"
	"github.com/solidcopy/tagcore/internal/tags_file"
	log "github.com/sirupsen/logrus"
)

// ExecuteImport writes the album tags file of dir and the picture files
// found there into the audio files, in file name order.
func ExecuteImport(ctx context.Context, dir string, cfg *config.Config) error {
	log.Info("インポート処理を開始します。")

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

	pictureDir := cfg.Pictures.Dir
	if pictureDir == "" {
		pictureDir = dir
	}
	pics, err := picture.Find(pictureDir, cfg.Pictures.Prefix, cfg.PictureTypes())
	if err != nil {
		return errors.New("アートワークを読み込めませんでした。")
	}

	for i, track := range tracks {
		if err := ctx.Err(); err != nil {
			return err
		}

		opts := trackOptions(track)
		for _, p := range pics {
			opts = append(opts, metadata.WithPictures(p.Type, p))
		}

		if _, err := metadata.Write(filePaths[i], nil, opts...); err != nil {
			return err
		}
	}

	log.Info("インポート処理を終了します。")
	return nil
}

func trackOptions(track *model.Track) []metadata.Option {
	opts := []metadata.Option{
		metadata.WithArtists(track.Artists...),
		metadata.WithAlbumArtists(track.AlbumArtists...),
	}
	if track.Title != nil {
		opts = append(opts, metadata.WithTitle(*track.Title))
	}
	if track.Album != nil {
		opts = append(opts, metadata.WithAlbum(*track.Album))
	}
	if track.Year != nil {
		opts = append(opts, metadata.WithYear(*track.Year))
	}
	if track.TrackNumber != nil {
		opts = append(opts, metadata.WithTrackNumber(track.TrackNumber.Position, track.TrackNumber.Total))
	}
	if track.DiscNumber != nil {
		opts = append(opts, metadata.WithDiscNumber(track.DiscNumber.Position, track.DiscNumber.Total))
	}
	return opts
}
