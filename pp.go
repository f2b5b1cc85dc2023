package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/history"
	"github.com/kionell/osu-standard-stable/performance"
	"github.com/kionell/osu-standard-stable/standard"
)

var errNoAttributes = errors.New("either --attributes or --beatmap-id is required")

// unset marks a score flag the user did not pass.
const unset = -1

type scoreFlags struct {
	Mods     string
	Combo    int
	Great    int
	Ok       int
	Meh      int
	Miss     int
	Accuracy float64 // percent
}

type ppOptions struct {
	File       string
	Attributes string
	BeatmapID  int
	Save       bool
	Score      scoreFlags
}

type attributeSource interface {
	BeatmapAttributes(ctx context.Context, id int, mods difficulty.Modifier) (performance.Attributes, error)
}

// buildScore fills whatever the flags leave out from the converted chart,
// assuming a full combo and no judgements below great.
func buildScore(bm *standard.Beatmap, f scoreFlags) (performance.Score, error) {
	mods, err := difficulty.ParseMods(f.Mods)
	if err != nil {
		return performance.Score{}, err
	}

	total := len(bm.HitObjects)
	stats := performance.Statistics{
		Ok:   max(0, f.Ok),
		Meh:  max(0, f.Meh),
		Miss: max(0, f.Miss),
	}

	if f.Accuracy >= 0 && f.Ok == unset && f.Meh == unset {
		stats.Ok = oksForAccuracy(total, stats.Miss, f.Accuracy/100)
	}

	stats.Great = max(0, f.Great)
	if f.Great == unset {
		stats.Great = max(0, total-stats.Ok-stats.Meh-stats.Miss)
	}

	if stats.TotalHits() > total {
		return performance.Score{}, fmt.Errorf("%d judgements for a chart of %d objects", stats.TotalHits(), total)
	}

	accuracy := performance.AccuracyFromStatistics(stats)
	if f.Accuracy >= 0 {
		accuracy = f.Accuracy / 100
	}

	combo := f.Combo
	if combo == unset {
		combo = bm.MaxCombo()
	}

	return performance.Score{
		Accuracy:   accuracy,
		MaxCombo:   combo,
		Statistics: stats,
		Mods:       mods,
	}, nil
}

// oksForAccuracy is the number of 100s that brings the remaining hits closest to accuracy.
func oksForAccuracy(total, misses int, accuracy float64) int {
	hits := total - misses
	if hits <= 0 {
		return 0
	}

	ok := (3*float64(hits) - 3*accuracy*float64(total)) / 2
	return int(math.Max(0, math.Min(float64(hits), math.Round(ok))))
}

// fillAttributes completes attributes with the counts of the converted chart.
func fillAttributes(attribs *performance.Attributes, bm *standard.Beatmap) {
	if attribs.HitCircleCount+attribs.SliderCount+attribs.SpinnerCount == 0 {
		attribs.HitCircleCount = bm.Circles
		attribs.SliderCount = bm.Sliders
		attribs.SpinnerCount = bm.Spinners
	}
	if attribs.MaxCombo == 0 {
		attribs.MaxCombo = bm.MaxCombo()
	}
}

func readAttributes(path string) (performance.Attributes, error) {
	var attribs performance.Attributes

	data, err := os.ReadFile(path)
	if err != nil {
		return attribs, err
	}

	if err := json.Unmarshal(data, &attribs); err != nil {
		return attribs, fmt.Errorf("decode attributes %s: %w", path, err)
	}

	return attribs, nil
}

func loadAttributes(ctx context.Context, opts ppOptions, mods difficulty.Modifier, api attributeSource) (performance.Attributes, error) {
	switch {
	case opts.Attributes != "":
		return readAttributes(opts.Attributes)
	case opts.BeatmapID > 0 && api != nil:
		return api.BeatmapAttributes(ctx, opts.BeatmapID, mods)
	}
	return performance.Attributes{}, errNoAttributes
}

func runPP(ctx context.Context, w io.Writer, log zerolog.Logger, opts ppOptions, api attributeSource) error {
	data, err := os.ReadFile(opts.File)
	if err != nil {
		return err
	}

	decoded, err := dotosu.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode %s: %w", opts.File, err)
	}

	bm, err := standard.Process(decoded, standard.WithLogger(log), standard.WithWorkers(workers()))
	if err != nil {
		return fmt.Errorf("process %s: %w", opts.File, err)
	}

	score, err := buildScore(bm, opts.Score)
	if err != nil {
		return err
	}

	attribs, err := loadAttributes(ctx, opts, score.Mods, api)
	if err != nil {
		return err
	}
	fillAttributes(&attribs, bm)

	log.Debug().
		Str("mods", score.Mods.String()).
		Float64("stars", attribs.StarRating).
		Int("maxCombo", attribs.MaxCombo).
		Msg("calculating performance")

	results := performance.NewCalculator(attribs, score).CalculateAttributes()

	fmt.Fprintf(w, "%s - %s [%s] +%s %s %sx\n",
		decoded.Metadata.Artist, decoded.Metadata.Title, decoded.Metadata.Version,
		score.Mods, formatAccuracy(score.Accuracy), formatCount(score.MaxCombo))
	renderResults(w, results)

	if !opts.Save {
		return nil
	}

	store, err := history.Open(viper.GetString("database"))
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.Save(ctx, history.Record{
		Beatmap:  filepath.Base(opts.File),
		Checksum: history.Checksum(data),
		Score:    score,
		Results:  results,
	})
	if err != nil {
		return err
	}

	log.Info().Int64("id", id).Msg("saved to history")
	return nil
}
