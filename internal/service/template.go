package service

import (
	"context"
	"fmt"
	"os"

	"github.com/solidcopy/tagcore/internal/config"
	"github.com/solidcopy/tagcore/internal/metadata"
	"github.com/solidcopy/tagcore/internal/model"
	"github.com/solidcopy/tagcore/internal/tags_file"
	log "github.com/sirupsen/logrus"
)

// TemplateSuffix is appended to an audio file path to name its template.
const TemplateSuffix = ".tags"

// ExecuteTemplate writes the field template of one audio file next to it.
func ExecuteTemplate(ctx context.Context, filePath string, cfg *config.Config) error {
	track, err := metadata.ReadFile(filePath)
	if err != nil {
		return err
	}

	templateFile, err := os.Create(filePath + TemplateSuffix)
	if err != nil {
		return err
	}
	defer templateFile.Close()

	if err := tags_file.WriteTemplate(templateFile, track); err != nil {
		return err
	}

	log.WithField("path", filePath+TemplateSuffix).Info("テンプレートを出力しました。")
	return nil
}

// ExecuteApply writes the edited template of one audio file back into it.
func ExecuteApply(ctx context.Context, filePath string, cfg *config.Config) error {
	templateFile, err := os.Open(filePath + TemplateSuffix)
	if err != nil {
		return fmt.Errorf("テンプレートを読み込めませんでした。: %w", err)
	}
	defer templateFile.Close()

	tmpl, err := tags_file.ReadTemplate(templateFile)
	if err != nil {
		return err
	}

	track, err := metadata.ReadFile(filePath)
	if err != nil {
		return err
	}

	opts := []metadata.Option{}
	for key, value := range tmpl.CustomFields {
		opts = append(opts, metadata.WithCustomField(key, value))
	}
	// custom fields deleted from the template are removed
	for key := range track.CustomFields {
		if model.IsCatalogKey(key) {
			continue
		}
		if _, ok := tmpl.CustomFields[key]; !ok {
			opts = append(opts, metadata.WithoutCustomField(key))
		}
	}

	report, err := metadata.Write(filePath, tmpl.Fields, opts...)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{"path": filePath, "warnings": len(report.Warnings)}).Info("テンプレートを適用しました。")
	return nil
}
