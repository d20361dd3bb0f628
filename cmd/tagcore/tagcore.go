package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	tagcore "github.com/solidcopy/tagcore/internal"
	"github.com/solidcopy/tagcore/internal/config"
	"github.com/solidcopy/tagcore/internal/service"
	"github.com/solidcopy/tagcore/internal/tags_file"
	log "github.com/sirupsen/logrus"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定ファイルを読み込めません。: %s\n", err)
		os.Exit(1)
	}
	log.SetLevel(cfg.Level())

	var serviceArg string
	if len(os.Args) >= 2 {
		serviceArg = os.Args[1]
	}

	var target string
	if len(os.Args) >= 3 {
		target = os.Args[2]
	} else {
		wd, err := os.Getwd()
		if err != nil {
			fmt.Fprintf(os.Stderr, "カレントディレクトリが取得できません。: %s\n", err)
			os.Exit(1)
		}
		target = wd
	}

	serviceList, err := selectServices(serviceArg, target)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log.WithField("version", tagcore.Version).Debug("tagcore")

	for _, service := range serviceList {
		if err := service(ctx, target, cfg); err != nil {
			log.Error(err)
			stop()
			os.Exit(1)
		}
	}
}

type ServiceFunc func(ctx context.Context, target string, cfg *config.Config) error

func selectServices(args string, target string) ([]ServiceFunc, error) {
	if args == "" {
		return selectServicesByFile(target)
	} else {
		service, err := selectServicesByArgs(args)
		if err != nil {
			return nil, err
		}
		return []ServiceFunc{service}, nil
	}
}

func selectServicesByArgs(arg string) (ServiceFunc, error) {

	switch arg {
	case "e":
		return service.ExecuteExport, nil
	case "i":
		return service.ExecuteImport, nil
	case "r":
		return service.ExecuteRename, nil
	case "t":
		return service.ExecuteTemplate, nil
	case "a":
		return service.ExecuteApply, nil
	default:
		err := fmt.Errorf("サブコマンドが不正です。 \"%s\"", arg)
		return nil, err
	}
}

func selectServicesByFile(dir string) ([]ServiceFunc, error) {
	tagsFilePath := filepath.Join(dir, tags_file.TagsFileName)
	if _, err := os.Stat(tagsFilePath); err == nil {
		return []ServiceFunc{service.ExecuteImport, service.ExecuteRename}, nil
	} else {
		return []ServiceFunc{service.ExecuteExport}, nil
	}
}
