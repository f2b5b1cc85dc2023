package osuapi

import (
	"context"
	"fmt"
	"time"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/performance"
)

// MaxBestScores is the size of a user's best performance list.
const MaxBestScores = 200

type Score struct {
	ID         int64      `json:"id"`
	UserID     int64      `json:"user_id"`
	Accuracy   float64    `json:"accuracy"`
	MaxCombo   int        `json:"max_combo"`
	Mods       []string   `json:"mods"`
	Passed     bool       `json:"passed"`
	Perfect    bool       `json:"perfect"`
	PP         float64    `json:"pp"`
	Rank       string     `json:"rank"`
	Score      int        `json:"score"`
	Statistics Statistics `json:"statistics"`
	CreatedAt  time.Time  `json:"created_at"`
	Beatmap    Beatmap    `json:"beatmap"`
	BeatmapSet Beatmapset `json:"beatmapset"`
	Weight     Weight     `json:"weight"`
}

type Statistics struct {
	Count300  int `json:"count_300"`
	Count100  int `json:"count_100"`
	Count50   int `json:"count_50"`
	CountMiss int `json:"count_miss"`
}

type Weight struct {
	Percentage float64 `json:"percentage"`
	PP         float64 `json:"pp"`
}

// Modifiers converts the mod acronyms of the score to a bitmask.
func (s Score) Modifiers() difficulty.Modifier {
	return difficulty.ParseAcronyms(s.Mods)
}

// PerformanceScore maps the API score onto the calculator's input.
func (s Score) PerformanceScore() performance.Score {
	return performance.Score{
		Accuracy: s.Accuracy,
		MaxCombo: s.MaxCombo,
		Statistics: performance.Statistics{
			Great: s.Statistics.Count300,
			Ok:    s.Statistics.Count100,
			Meh:   s.Statistics.Count50,
			Miss:  s.Statistics.CountMiss,
		},
		Mods: s.Modifiers(),
	}
}

// BestScores returns up to limit of a user's best osu!standard scores, paging as needed.
func (c *Client) BestScores(ctx context.Context, userID, limit int) ([]Score, error) {
	limit = min(limit, MaxBestScores)

	var scores []Score
	for offset := 0; offset < limit; offset += 100 {
		page, err := c.bestScoresPage(ctx, userID, min(100, limit-offset), offset)
		if err != nil {
			return nil, err
		}

		scores = append(scores, page...)

		if len(page) < min(100, limit-offset) {
			break
		}
	}

	return scores, nil
}

func (c *Client) bestScoresPage(ctx context.Context, userID, limit, offset int) ([]Score, error) {
	path := fmt.Sprintf("/api/v2/users/%d/scores/best?mode=osu&limit=%d&offset=%d", userID, limit, offset)

	var scores []Score
	if err := c.getJSON(ctx, path, &scores); err != nil {
		return nil, fmt.Errorf("user %d best scores: %w", userID, err)
	}

	return scores, nil
}
