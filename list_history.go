package main

import (
	"context"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/viper"

	"github.com/kionell/osu-standard-stable/history"
)

func runHistory(ctx context.Context, w io.Writer, limit int) error {
	store, err := history.Open(viper.GetString("database"))
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}

	renderHistory(w, records)
	return nil
}

func renderHistory(w io.Writer, records []history.Record) {
	table := newTable(w, "#", "When", "Beatmap", "Mods", "Accuracy", "Combo", "Misses", "PP")

	for _, r := range records {
		table.Append([]string{
			formatCount(int(r.ID)),
			humanize.Time(r.CreatedAt),
			r.Beatmap,
			r.Score.Mods.String(),
			formatAccuracy(r.Score.Accuracy),
			formatCount(r.Score.MaxCombo) + "x",
			formatCount(r.Score.Statistics.Miss),
			formatPP(r.Results.Total),
		})
	}

	table.Render()
}
