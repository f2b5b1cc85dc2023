package main

import (
	"fmt"
	"io"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/objects"
	"github.com/kionell/osu-standard-stable/standard"
)

// processFile decodes and converts a single .osu file.
func processFile(path string, log zerolog.Logger) (*dotosu.Beatmap, *standard.Beatmap, error) {
	decoded, err := dotosu.DecodeFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("decode %s: %w", path, err)
	}

	bm, err := standard.Process(decoded,
		standard.WithLogger(log.With().Str("file", filepath.Base(path)).Logger()),
		standard.WithWorkers(workers()),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("process %s: %w", path, err)
	}

	return decoded, bm, nil
}

type convertedFile struct {
	decoded *dotosu.Beatmap
	bm      *standard.Beatmap
}

// runConvert processes every file concurrently and prints them in the given order.
func runConvert(w io.Writer, log zerolog.Logger, files []string, listObjects bool) error {
	var wg sync.WaitGroup

	converted := make([]*convertedFile, len(files))
	wg.Add(len(files))

	for i, path := range files {
		done := func(err error) {
			defer wg.Done()
			if err != nil {
				log.Error().Err(err).Msg("skipping file")
			}
		}

		Run(log, done, func() error {
			decoded, bm, err := processFile(path, log)
			if err != nil {
				return err
			}
			converted[i] = &convertedFile{decoded: decoded, bm: bm}
			return nil
		})
	}

	wg.Wait()

	summary := newTable(w, "File", "Version", "Circles", "Sliders", "Spinners", "Nested", "Max combo")

	var failed int
	for i, path := range files {
		c := converted[i]
		if c == nil {
			failed++
			continue
		}

		summary.Append([]string{
			filepath.Base(path),
			c.decoded.Metadata.Version,
			formatCount(c.bm.Circles),
			formatCount(c.bm.Sliders),
			formatCount(c.bm.Spinners),
			formatCount(nestedCount(c.bm.HitObjects)),
			formatCount(c.bm.MaxCombo()),
		})

		if listObjects {
			renderObjects(w, c.bm.HitObjects)
		}
	}

	summary.Render()

	if failed == len(files) {
		return fmt.Errorf("none of %d files could be converted", len(files))
	}

	return nil
}

func nestedCount(hitObjects []objects.IHitObject) int {
	n := 0
	for _, h := range hitObjects {
		n += len(h.GetNested())
	}
	return n
}

// renderObjects lists every object followed by its nested objects.
func renderObjects(w io.Writer, hitObjects []objects.IHitObject) {
	table := newTable(w, "#", "Kind", "Start", "End", "Position", "Preempt", "Nested")

	for i, h := range hitObjects {
		table.Append(objectRow(formatCount(i+1), h))
		for _, n := range h.GetNested() {
			table.Append(objectRow("", n))
		}
	}

	table.Render()
}

func objectRow(index string, h objects.IHitObject) []string {
	pos := h.GetStackedStartPosition()
	return []string{
		index,
		objectKind(h),
		formatTime(h.GetStartTime()),
		formatTime(h.GetEndTime()),
		fmt.Sprintf("%.1f, %.1f", pos.X, pos.Y),
		formatTime(h.GetBase().TimePreempt),
		formatCount(len(h.GetNested())),
	}
}
