package standard

import (
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kionell/osu-standard-stable/dotosu"
	"github.com/kionell/osu-standard-stable/objects"
)

var ErrNotConvertible = errors.New("beatmap has objects without a position")

// Beatmap is a converted osu!standard chart with defaults applied to every object.
type Beatmap struct {
	FormatVersion int
	Difficulty    dotosu.Difficulty
	HitObjects    []objects.IHitObject

	Circles  int
	Sliders  int
	Spinners int
}

// MaxCombo counts one combo per circle and spinner and one per nested slider object.
func (b *Beatmap) MaxCombo() int {
	combo := 0

	for _, h := range b.HitObjects {
		switch o := h.(type) {
		case *objects.Slider:
			combo += len(o.Nested)
		default:
			combo++
		}
	}

	return combo
}

type Option func(*processor)

type processor struct {
	log     zerolog.Logger
	workers int
}

func WithLogger(log zerolog.Logger) Option {
	return func(p *processor) {
		p.log = log
	}
}

// WithWorkers applies defaults on n goroutines. Values below 2 keep it sequential.
func WithWorkers(n int) Option {
	return func(p *processor) {
		p.workers = n
	}
}

// Process converts bm and applies defaults to every converted object.
func Process(bm dotosu.Source, opts ...Option) (*Beatmap, error) {
	p := &processor{log: zerolog.Nop(), workers: 1}
	for _, opt := range opts {
		opt(p)
	}

	if !CanConvert(bm) {
		return nil, ErrNotConvertible
	}

	out := &Beatmap{
		FormatVersion: bm.FormatVersion(),
		Difficulty:    bm.DifficultySection(),
		HitObjects:    Convert(bm),
	}

	p.applyDefaults(out.HitObjects, bm.ControlPointInfo(), out.Difficulty)

	for _, h := range out.HitObjects {
		switch h.(type) {
		case *objects.Slider:
			out.Sliders++
		case *objects.Spinner:
			out.Spinners++
		default:
			out.Circles++
		}
	}

	p.log.Debug().
		Int("circles", out.Circles).
		Int("sliders", out.Sliders).
		Int("spinners", out.Spinners).
		Int("maxCombo", out.MaxCombo()).
		Msg("beatmap processed")

	return out, nil
}

func (p *processor) applyDefaults(hitObjects []objects.IHitObject, cp *dotosu.ControlPoints, d dotosu.Difficulty) {
	if p.workers < 2 || len(hitObjects) < p.workers {
		for _, h := range hitObjects {
			objects.ApplyDefaults(h, cp, d)
		}
		return
	}

	jobs := make(chan objects.IHitObject)
	wg := sync.WaitGroup{}

	for range p.workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for h := range jobs {
				objects.ApplyDefaults(h, cp, d)
			}
		}()
	}

	for _, h := range hitObjects {
		jobs <- h
	}
	close(jobs)

	wg.Wait()
}
