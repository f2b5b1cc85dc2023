package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/kionell/osu-standard-stable/dotosu"
)

type beatmapDownloader interface {
	DownloadBeatmap(ctx context.Context, id int) ([]byte, error)
}

// fetchBeatmap stores the .osu file of a beatmap in dir and returns its path.
// Files already present are not downloaded again.
func fetchBeatmap(ctx context.Context, log zerolog.Logger, api beatmapDownloader, dir string, id int) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("%d.osu", id))

	if _, err := os.Stat(path); err == nil {
		log.Info().Str("path", path).Msg("already downloaded")
		return path, nil
	}

	data, err := api.DownloadBeatmap(ctx, id)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}

	if bm, err := dotosu.DecodeFile(path); err == nil {
		log.Info().
			Str("path", path).
			Str("title", bm.Metadata.Title).
			Str("version", bm.Metadata.Version).
			Msg("downloaded")
	}

	return path, nil
}
