package service

import (
	"context"

	"github.com/dustin/go-humanize"
	"github.com/solidcopy/tagcore/internal/config"
	"github.com/solidcopy/tagcore/internal/picture"
	"github.com/solidcopy/tagcore/internal/tags_file"
	log "github.com/sirupsen/logrus"
)

// ExecuteExport writes the album tags file and the pictures of the first
// track into dir.
func ExecuteExport(ctx context.Context, dir string, cfg *config.Config) error {
	log.Info("エクスポート処理を開始します。")

	tracks, err := ReadTracks(ctx, dir, cfg.Workers)
	if err != nil {
		return err
	}

	if err := tags_file.WriteTagsFile(tracks); err != nil {
		return err
	}

	pics := picture.Select(tracks[0].Pictures, cfg.PictureTypes(), cfg.Pictures.All)
	targets, warnings := picture.Export(pics, picture.ExportOptions{
		Source: tracks[0].FilePath,
		Dir:    cfg.Pictures.Dir,
		Prefix: cfg.Pictures.Prefix,
	})
	for _, w := range warnings {
		log.Warn(w.String())
	}

	if err := picture.WriteFiles(targets); err != nil {
		return err
	}
	for _, target := range targets {
		log.WithFields(log.Fields{
			"file": target.Path,
			"size": humanize.IBytes(uint64(len(target.Picture.Data))),
		}).Info("アートワークを出力しました。")
	}

	log.Info("エクスポート処理を完了しました。")
	return nil
}
