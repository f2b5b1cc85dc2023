package osuapi

import (
	"context"
	"fmt"
	"time"

	"github.com/kionell/osu-standard-stable/difficulty"
	"github.com/kionell/osu-standard-stable/performance"
)

// Beatmap is the subset of the osu! API beatmap used here.
type Beatmap struct {
	ID               int        `json:"id"`
	BeatmapsetID     int        `json:"beatmapset_id"`
	Version          string     `json:"version"`
	Mode             string     `json:"mode"`
	Status           string     `json:"status"`
	Checksum         string     `json:"checksum"`
	DifficultyRating float64    `json:"difficulty_rating"`
	Ar               float64    `json:"ar"`
	Accuracy         float64    `json:"accuracy"`
	Cs               float64    `json:"cs"`
	Drain            float64    `json:"drain"`
	Bpm              float64    `json:"bpm"`
	CountCircles     int        `json:"count_circles"`
	CountSliders     int        `json:"count_sliders"`
	CountSpinners    int        `json:"count_spinners"`
	MaxCombo         int        `json:"max_combo"`
	HitLength        int        `json:"hit_length"`
	TotalLength      int        `json:"total_length"`
	LastUpdated      time.Time  `json:"last_updated"`
	Beatmapset       Beatmapset `json:"beatmapset"`
}

// Beatmapset represents information about a beatmapset.
type Beatmapset struct {
	ID      int    `json:"id"`
	Artist  string `json:"artist"`
	Title   string `json:"title"`
	Creator string `json:"creator"`
	Status  string `json:"status"`
}

// Beatmap looks up a single beatmap.
func (c *Client) Beatmap(ctx context.Context, id int) (*Beatmap, error) {
	var beatmap Beatmap
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v2/beatmaps/%d", id), &beatmap); err != nil {
		return nil, fmt.Errorf("beatmap %d: %w", id, err)
	}
	return &beatmap, nil
}

type attributesRequest struct {
	Mods    int64  `json:"mods"`
	Ruleset string `json:"ruleset"`
}

// BeatmapAttributes returns the osu!standard difficulty attributes of a beatmap under mods.
// Object counts come from the beatmap lookup since the attributes endpoint omits them.
func (c *Client) BeatmapAttributes(ctx context.Context, id int, mods difficulty.Modifier) (performance.Attributes, error) {
	var resp struct {
		Attributes performance.Attributes `json:"attributes"`
	}

	req := attributesRequest{Mods: int64(mods), Ruleset: "osu"}
	if err := c.postJSON(ctx, fmt.Sprintf("/api/v2/beatmaps/%d/attributes", id), req, &resp); err != nil {
		return performance.Attributes{}, fmt.Errorf("beatmap %d attributes: %w", id, err)
	}

	beatmap, err := c.Beatmap(ctx, id)
	if err != nil {
		return performance.Attributes{}, err
	}

	attribs := resp.Attributes
	attribs.HitCircleCount = beatmap.CountCircles
	attribs.SliderCount = beatmap.CountSliders
	attribs.SpinnerCount = beatmap.CountSpinners

	if attribs.MaxCombo == 0 {
		attribs.MaxCombo = beatmap.MaxCombo
	}

	return attribs, nil
}
