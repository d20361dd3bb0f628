package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/solidcopy/tagcore/internal/handler"
	"github.com/solidcopy/tagcore/internal/metadata"
	"github.com/solidcopy/tagcore/internal/model"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

func findFiles(dir string) ([]string, error) {

	files := []string{}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() && path != dir {
			return filepath.SkipDir
		}

		if !info.IsDir() && handler.IsAudioFile(path) {
			files = append(files, path)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func FindAudioFiles(dir string) ([]string, error) {
	filePaths, err := findFiles(dir)
	if err != nil || len(filePaths) == 0 {
		return nil, errors.New("オーディオファイルが見つかりません。")
	}

	// ファイルの種類が混在していたらエラー
	extension := strings.ToLower(filepath.Ext(filePaths[0]))
	for _, file := range filePaths[1:] {
		if strings.ToLower(filepath.Ext(file)) != extension {
			return nil, errors.New("オーディオファイルの種類が混在しています。")
		}
	}

	return filePaths, nil
}

// ReadAll reads the files with at most workers reads at a time. A file that
// cannot be read is logged and left out; the order of the rest is kept.
func ReadAll(ctx context.Context, filePaths []string, workers int) ([]*model.Track, error) {
	results := make([]*model.Track, len(filePaths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))

	for i, filePath := range filePaths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = metadata.Read(filePath)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	tracks := make([]*model.Track, 0, len(results))
	for _, track := range results {
		if track != nil {
			tracks = append(tracks, track)
		}
	}
	return tracks, nil
}

// ReadTracks reads every audio file of dir. Any unreadable file fails the
// whole directory.
func ReadTracks(ctx context.Context, dir string, workers int) ([]*model.Track, error) {

	filePaths, err := FindAudioFiles(dir)
	if err != nil {
		return nil, err
	}

	tracks, err := ReadAll(ctx, filePaths, workers)
	if err != nil {
		return nil, err
	}

	if len(tracks) != len(filePaths) {
		return nil, errors.New("タグ情報の読み込みに失敗しました。")
	}

	log.WithFields(log.Fields{"dir": dir, "files": len(tracks)}).Debug("read tracks")

	return tracks, nil
}
