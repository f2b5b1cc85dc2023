package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"slices"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kionell/osu-standard-stable/osuapi"
	"github.com/kionell/osu-standard-stable/performance"
)

type scoreSource interface {
	attributeSource
	BestScores(ctx context.Context, userID, limit int) ([]osuapi.Score, error)
}

// Play is a best score with its performance recalculated.
type Play struct {
	BeatmapID  int
	Artist     string
	Title      string
	Difficulty string
	Mods       string
	StarRating float64

	PrevPP     float64
	NewPP      float64
	Weight     float64
	WeightedPP float64

	Results  performance.Results
	OldIndex int
	NewIndex int
}

// recalculateUserScores recomputes every best score of a user and reorders them by the new value.
func recalculateUserScores(ctx context.Context, log zerolog.Logger, api scoreSource, userID, limit int) ([]*Play, error) {
	scores, err := api.BestScores(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	recalc := make([]*Play, len(scores))
	wg.Add(len(scores))

	for i, score := range scores {
		done := func(err error) {
			defer wg.Done()
			if err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("score %d: %w", score.ID, err))
				mu.Unlock()
			}
		}

		Run(log, done, func() error {
			attribs, err := api.BeatmapAttributes(ctx, score.Beatmap.ID, score.Modifiers())
			if err != nil {
				return err
			}

			perf := score.PerformanceScore()
			results := performance.NewCalculator(attribs, perf).CalculateAttributes()

			recalc[i] = &Play{
				BeatmapID:  score.Beatmap.ID,
				Artist:     score.BeatmapSet.Artist,
				Title:      score.BeatmapSet.Title,
				Difficulty: score.Beatmap.Version,
				Mods:       perf.Mods.String(),
				StarRating: attribs.StarRating,
				PrevPP:     score.PP,
				NewPP:      results.Total,
				Results:    results,
				OldIndex:   i,
			}

			log.Debug().
				Int("index", i).
				Str("title", score.BeatmapSet.Title).
				Float64("pp", results.Total).
				Msg("recalculated")

			return nil
		})
	}

	wg.Wait()

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	slices.SortStableFunc(recalc, func(a, b *Play) int {
		return cmp.Compare(b.NewPP, a.NewPP)
	})

	for i, play := range recalc {
		play.NewIndex = i
		play.Weight = math.Pow(0.95, float64(i))
		play.WeightedPP = play.NewPP * play.Weight
	}

	return recalc, nil
}

func totalWeighted(plays []*Play) (prev, next float64) {
	for _, play := range plays {
		prev += play.PrevPP * math.Pow(0.95, float64(play.OldIndex))
		next += play.WeightedPP
	}
	return prev, next
}

func renderPlays(w io.Writer, plays []*Play) {
	table := newTable(w, "#", "Was", "Beatmap", "Mods", "Stars", "Old PP", "New PP", "Weighted")

	for _, play := range plays {
		table.Append([]string{
			formatCount(play.NewIndex + 1),
			formatCount(play.OldIndex + 1),
			fmt.Sprintf("%s - %s [%s]", play.Artist, play.Title, play.Difficulty),
			play.Mods,
			fmt.Sprintf("%.2f", play.StarRating),
			formatPP(play.PrevPP),
			formatPP(play.NewPP),
			formatPP(play.WeightedPP),
		})
	}

	prev, next := totalWeighted(plays)
	table.SetFooter([]string{"", "", "", "", "", formatPP(prev), formatPP(next), ""})
	table.Render()
}
