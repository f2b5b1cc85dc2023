package osuapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
)

var ErrNotBeatmap = errors.New("response is not a .osu file")

var osuHeader = []byte("osu file format v")

// DownloadBeatmap fetches the raw .osu file of a beatmap.
func (c *Client) DownloadBeatmap(ctx context.Context, id int) ([]byte, error) {
	body, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/osu/%d", id), nil, false)
	if err != nil {
		return nil, fmt.Errorf("download beatmap %d: %w", id, err)
	}

	trimmed := bytes.TrimPrefix(bytes.TrimSpace(body), []byte("\ufeff"))
	if !bytes.HasPrefix(trimmed, osuHeader) {
		return nil, fmt.Errorf("download beatmap %d: %w", id, ErrNotBeatmap)
	}

	return body, nil
}
