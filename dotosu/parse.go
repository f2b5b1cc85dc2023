package dotosu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kionell/osu-standard-stable/mutils"
	"github.com/kionell/osu-standard-stable/pathing"
	"github.com/kionell/osu-standard-stable/vector"
)

const (
	EARLY_VERSION_TIMING_OFFSET = 24
	MAX_MANIA_KEY_COUNT         = 18
)

// PlayfieldCentre is where spinners sit regardless of the position written in the file.
var PlayfieldCentre = vector.NewVec2d(256, 192)

type section int

const (
	secNone section = iota
	secGeneral
	secMetadata
	secDifficulty
	secEvents
	secTimingPoints
	secHitObjects
)

type Beatmap struct {
	FileFormat int
	General    General
	Metadata   Metadata
	Difficulty Difficulty

	Breaks       []BreakPeriod
	TimingPoints []TimingPoint
	HitObjects   []HitObject

	controlPoints *ControlPoints
}

func (b *Beatmap) FormatVersion() int            { return b.FileFormat }
func (b *Beatmap) Objects() []HitObject          { return b.HitObjects }
func (b *Beatmap) DifficultySection() Difficulty { return b.Difficulty }

func (b *Beatmap) ControlPointInfo() *ControlPoints {
	if b.controlPoints == nil {
		b.controlPoints = NewControlPoints(b.TimingPoints)
	}
	return b.controlPoints
}

type General struct {
	AudioFilename string
	AudioLeadIn   int
	PreviewTime   int
	SampleSet     string
	SampleVolume  int
	StackLeniency float64
	Mode          int
}

type Metadata struct {
	Title, TitleUnicode            string
	Artist, ArtistUnicode          string
	Creator, Version, Source, Tags string
	BeatmapID, BeatmapSetID        int
	BackgroundFile                 string
}

type Difficulty struct {
	HPDrainRate, CircleSize, OverallDifficulty, ApproachRate float64
	SliderMultiplier, SliderTickRate                         float64
}

// DefaultDifficulty holds the values osu! assumes for keys missing from [Difficulty].
var DefaultDifficulty = Difficulty{
	HPDrainRate:       5,
	CircleSize:        5,
	OverallDifficulty: 5,
	ApproachRate:      5,
	SliderMultiplier:  1.4,
	SliderTickRate:    1,
}

type BreakPeriod struct{ Start, End float64 }

// TimingPoint is a raw [TimingPoints] line.
type TimingPoint struct {
	Time             float64
	BeatLength       float64
	TimeSignature    int
	SampleSet        string
	CustomSampleBank int
	SampleVolume     int
	TimingChange     bool
	Kiai             bool
}

func DecodeFile(path string) (*Beatmap, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return b, nil
}

func Decode(r io.Reader) (*Beatmap, error) {
	sc := bufio.NewScanner(r)
	const maxLine = 1024 * 1024
	buf := make([]byte, 64*1024)
	sc.Buffer(buf, maxLine)

	var header string
	for sc.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(sc.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		header = line
		break
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if !strings.HasPrefix(strings.ToLower(header), "osu file format v") {
		return nil, fmt.Errorf("invalid .osu header: %q", header)
	}
	versionStr := strings.TrimSpace(header[len("osu file format v"):])
	formatVersion, err := strconv.Atoi(versionStr)
	if err != nil {
		return nil, fmt.Errorf("invalid .osu version in header: %q: %w", header, err)
	}

	b := &Beatmap{
		FileFormat: formatVersion,
		General: General{
			SampleSet:     "normal",
			SampleVolume:  100,
			StackLeniency: 0.7,
		},
		Difficulty: DefaultDifficulty,
	}

	offset := 0.0
	if formatVersion < 5 {
		offset = EARLY_VERSION_TIMING_OFFSET
	}

	sec := secNone
	seenAR := false

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			switch strings.ToLower(line) {
			case "[general]":
				sec = secGeneral
			case "[metadata]":
				sec = secMetadata
			case "[difficulty]":
				sec = secDifficulty
			case "[events]":
				sec = secEvents
			case "[timingpoints]":
				sec = secTimingPoints
			case "[hitobjects]":
				sec = secHitObjects
			default:
				sec = secNone
			}
			continue
		}

		switch sec {
		case secGeneral:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "audiofilename":
				b.General.AudioFilename = cleanFilename(v)
			case "audioleadin":
				b.General.AudioLeadIn = parseInt(v, 0)
			case "previewtime":
				t := parseInt(v, -1)
				if t != -1 {
					t += int(offset)
				}
				b.General.PreviewTime = t
			case "sampleset":
				b.General.SampleSet = strings.ToLower(v)
			case "samplevolume":
				b.General.SampleVolume = parseInt(v, 100)
			case "stackleniency":
				b.General.StackLeniency = parseFloat(v, 0.7)
			case "mode":
				b.General.Mode = parseInt(v, 0)
			}

		case secMetadata:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "title":
				b.Metadata.Title = v
			case "titleunicode":
				b.Metadata.TitleUnicode = v
			case "artist":
				b.Metadata.Artist = v
			case "artistunicode":
				b.Metadata.ArtistUnicode = v
			case "creator":
				b.Metadata.Creator = v
			case "version":
				b.Metadata.Version = v
			case "source":
				b.Metadata.Source = v
			case "tags":
				b.Metadata.Tags = v
			case "beatmapid":
				b.Metadata.BeatmapID = parseInt(v, 0)
			case "beatmapsetid":
				b.Metadata.BeatmapSetID = parseInt(v, 0)
			}

		case secDifficulty:
			k, v := splitKeyVal(line)
			switch strings.ToLower(k) {
			case "hpdrainrate":
				b.Difficulty.HPDrainRate = parseFloat(v, 5)
			case "circlesize":
				b.Difficulty.CircleSize = parseFloat(v, 5)
			case "overalldifficulty":
				b.Difficulty.OverallDifficulty = parseFloat(v, 5)
				if !seenAR {
					b.Difficulty.ApproachRate = b.Difficulty.OverallDifficulty
				}
			case "approachrate":
				b.Difficulty.ApproachRate = parseFloat(v, 5)
				seenAR = true
			case "slidermultiplier":
				b.Difficulty.SliderMultiplier = parseFloat(v, 1.4)
			case "slidertickrate":
				b.Difficulty.SliderTickRate = parseFloat(v, 1)
			}

		case secEvents:
			parts := splitCSV(line)
			if len(parts) < 3 {
				continue
			}
			switch strings.ToLower(parts[0]) {
			case "0", "background":
				b.Metadata.BackgroundFile = cleanFilename(parts[2])
			case "2", "break":
				start := parseFloat(parts[1], 0) + offset
				end := max(start, parseFloat(parts[2], start)+offset)
				b.Breaks = append(b.Breaks, BreakPeriod{Start: start, End: end})
			}

		case secTimingPoints:
			if tp, ok := parseTimingPoint(line, offset); ok {
				b.TimingPoints = append(b.TimingPoints, tp)
			}

		case secHitObjects:
			if ho, ok := parseHitObject(line, offset); ok {
				b.HitObjects = append(b.HitObjects, ho)
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	applyDifficultyRestrictions(&b.Difficulty, b.General.Mode)

	// Slider velocity lives on the timing lines, so sliders are stamped once the whole file is read.
	cp := b.ControlPointInfo()
	for _, ho := range b.HitObjects {
		if s, ok := ho.(*Slider); ok {
			dp := cp.DifficultyPointAt(s.Time)
			s.SliderVelocity = dp.SliderVelocity
			s.GenerateTicks = dp.GenerateTicks
		}
	}

	return b, nil
}

func parseTimingPoint(line string, offset float64) (TimingPoint, bool) {
	parts := splitCSV(line)
	if len(parts) < 2 {
		return TimingPoint{}, false
	}

	tp := TimingPoint{
		Time:          parseFloat(parts[0], 0) + offset,
		BeatLength:    parseFloatAllowNaN(parts[1]),
		TimeSignature: 4,
		SampleSet:     "normal",
		SampleVolume:  100,
		TimingChange:  true,
	}

	if len(parts) >= 3 {
		if meter := parseInt(parts[2], 4); meter > 0 {
			tp.TimeSignature = meter
		}
	}
	if len(parts) >= 4 {
		if set := toSampleSet(parseInt(parts[3], 0)); set != SampleNone {
			tp.SampleSet = set.String()
		}
	}
	if len(parts) >= 5 {
		tp.CustomSampleBank = parseInt(parts[4], 0)
	}
	if len(parts) >= 6 {
		tp.SampleVolume = parseInt(parts[5], 100)
	}
	if len(parts) >= 7 {
		tp.TimingChange = parts[6] == "1"
	}
	if len(parts) >= 8 {
		tp.Kiai = parseInt(parts[7], 0)&1 != 0
	}

	return tp, true
}

func parseHitObject(line string, offset float64) (HitObject, bool) {
	parts := splitCSVPreserveTail(line, 11)
	if len(parts) < 5 {
		return nil, false
	}

	base := BaseHO{
		Position: vector.NewVec2d(parseFloat(parts[0], 0), parseFloat(parts[1], 0)),
		Time:     parseFloat(parts[2], 0) + offset,
		Type:     HitType(parseInt(parts[3], 0)),
		Sound:    HitSound(parseInt(parts[4], 0)),
	}

	switch {
	case base.Type&TypeHold != 0:
		end := base.Time
		var bank SampleBankInfo
		if len(parts) >= 6 {
			var e float64
			e, bank = parseEndTimeAndSample(parts[5])
			end = max(base.Time, e+offset)
		}
		base.Samples = ConvertSamples(base.Sound, bank)
		return &Hold{BaseHO: base, EndTime: end}, true

	case base.Type&TypeSpinner != 0:
		end := base.Time
		if len(parts) >= 6 {
			end = max(base.Time, parseFloat(parts[5], base.Time)+offset)
		}
		var bank SampleBankInfo
		if len(parts) >= 7 {
			bank = parseHitSample(parts[6])
		}
		base.Position = PlayfieldCentre
		base.Samples = ConvertSamples(base.Sound, bank)
		return &Spinner{BaseHO: base, EndTime: end}, true

	case base.Type&TypeSlider != 0:
		return parseSlider(base, parts), true

	default:
		var bank SampleBankInfo
		if len(parts) >= 6 {
			bank = parseHitSample(parts[5])
		}
		base.Samples = ConvertSamples(base.Sound, bank)
		return &Circle{BaseHO: base}, true
	}
}

// parseSlider reads "curve|points,slides,length,edgeSounds,edgeSets,hitSample".
func parseSlider(base BaseHO, parts []string) *Slider {
	var pathSpec string
	if len(parts) >= 6 {
		pathSpec = parts[5]
	}

	slides := 1
	if len(parts) >= 7 {
		slides = max(1, parseInt(parts[6], 1))
	}

	length := 0.0
	if len(parts) >= 8 {
		length = max(0, parseFloat(parts[7], 0))
	}

	var bank SampleBankInfo
	if len(parts) >= 11 {
		bank = parseHitSample(parts[10])
	}
	base.Samples = ConvertSamples(base.Sound, bank)

	nodes := slides + 1

	nodeSounds := make([]HitSound, nodes)
	for i := range nodeSounds {
		nodeSounds[i] = base.Sound
	}
	if len(parts) >= 9 && parts[8] != "" {
		for i, n := range strings.Split(parts[8], "|") {
			if i >= nodes {
				break
			}
			nodeSounds[i] = HitSound(parseInt(n, 0))
		}
	}

	nodeBanks := make([]SampleBankInfo, nodes)
	for i := range nodeBanks {
		nodeBanks[i] = bank
	}
	if len(parts) >= 10 && parts[9] != "" {
		for i, p := range strings.Split(parts[9], "|") {
			if i >= nodes {
				break
			}
			normal, addition := parseEdgeSetPair(p)
			if normal != SampleNone {
				nodeBanks[i].NormalSet = normal
			}
			if addition != SampleNone {
				nodeBanks[i].AdditionSet = addition
			}
		}
	}

	nodeSamples := make([][]HitSample, nodes)
	for i := range nodeSamples {
		nodeSamples[i] = ConvertSamples(nodeSounds[i], nodeBanks[i])
	}

	return &Slider{
		BaseHO:         base,
		Path:           parseSliderPath(base.Position, pathSpec, length),
		Repeats:        slides - 1,
		NodeSamples:    nodeSamples,
		SliderVelocity: 1,
		GenerateTicks:  true,
	}
}

// parseSliderPath converts "B|x:y|x:y|..." into a path relative to the slider head.
func parseSliderPath(head vector.Vector2d, spec string, length float64) *pathing.SliderPath {
	tokens := strings.Split(spec, "|")

	pathType := pathing.ParsePathType(strings.TrimSpace(tokens[0]))

	points := []vector.Vector2d{{}}
	for _, t := range tokens[1:] {
		xy := strings.Split(strings.TrimSpace(t), ":")
		if len(xy) != 2 {
			continue
		}
		p := vector.NewVec2d(parseFloat(xy[0], head.X), parseFloat(xy[1], head.Y))
		points = append(points, p.Sub(head))
	}

	return pathing.NewSliderPath(pathType, points, length)
}

func splitKeyVal(line string) (key, val string) {
	i := strings.Index(line, ":")
	if i < 0 {
		return strings.TrimSpace(line), ""
	}
	return strings.TrimSpace(line[:i]), strings.TrimSpace(line[i+1:])
}

func parseInt(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// stable writes some integer columns as floats
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return def
		}
		return int(f)
	}
	return v
}

func parseFloat(s string, def float64) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return def
	}
	return v
}

func parseFloatAllowNaN(s string) float64 {
	s = strings.TrimSpace(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

func cleanFilename(s string) string {
	s = strings.Trim(s, "\"")
	return strings.ReplaceAll(s, "\\", "/")
}

func splitCSV(line string) []string {
	var out []string
	var cur strings.Builder
	inQ := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch c {
		case '"':
			inQ = !inQ
		case ',':
			if inQ {
				cur.WriteByte(c)
			} else {
				out = append(out, strings.TrimSpace(cur.String()))
				cur.Reset()
			}
		default:
			cur.WriteByte(c)
		}
	}
	out = append(out, strings.TrimSpace(cur.String()))
	return out
}

// splitCSVPreserveTail splits into at most n fields, the last one keeping any extra commas.
func splitCSVPreserveTail(line string, n int) []string {
	parts := splitCSV(line)
	if len(parts) <= n {
		return parts
	}
	head := parts[:n-1]
	tail := strings.Join(parts[n-1:], ",")
	return append(head, tail)
}

func applyDifficultyRestrictions(d *Difficulty, mode int) {
	d.HPDrainRate = mutils.Clamp(d.HPDrainRate, 0, 10)
	d.OverallDifficulty = mutils.Clamp(d.OverallDifficulty, 0, 10)
	d.ApproachRate = mutils.Clamp(d.ApproachRate, 0, 10)
	if mode == 3 {
		d.CircleSize = mutils.Clamp(d.CircleSize, 1, MAX_MANIA_KEY_COUNT)
	} else {
		d.CircleSize = mutils.Clamp(d.CircleSize, 0, 10)
	}
	d.SliderMultiplier = mutils.Clamp(d.SliderMultiplier, 0.4, 3.6)
	d.SliderTickRate = mutils.Clamp(d.SliderTickRate, 0.5, 8.0)
}

// parseHitSample reads "normalSet:additionSet:index:volume:filename".
func parseHitSample(s string) SampleBankInfo {
	parts := strings.Split(s, ":")
	get := func(i int) string {
		if i < len(parts) {
			return parts[i]
		}
		return ""
	}

	info := SampleBankInfo{
		NormalSet:   toSampleSet(parseInt(get(0), 0)),
		AdditionSet: toSampleSet(parseInt(get(1), 0)),
		Index:       parseInt(get(2), 0),
		Volume:      parseInt(get(3), 0),
		Filename:    strings.Trim(strings.TrimSpace(get(4)), "\""),
	}
	return info
}

func parseEdgeSetPair(s string) (SampleSet, SampleSet) {
	p := strings.Split(s, ":")
	var a, b int
	if len(p) >= 1 {
		a = parseInt(p[0], 0)
	}
	if len(p) >= 2 {
		b = parseInt(p[1], 0)
	}
	return toSampleSet(a), toSampleSet(b)
}

// parseEndTimeAndSample reads the "endTime:hitSample" column of hold notes.
func parseEndTimeAndSample(s string) (float64, SampleBankInfo) {
	colon := strings.Index(s, ":")
	if colon < 0 {
		return parseFloat(s, 0), SampleBankInfo{}
	}
	return parseFloat(s[:colon], 0), parseHitSample(s[colon+1:])
}

// Validate reports metadata problems that do not prevent conversion.
func (b *Beatmap) Validate() error {
	var errs []error
	if b.Metadata.Title == "" && b.Metadata.TitleUnicode == "" {
		errs = append(errs, errors.New("missing title"))
	}
	if b.Metadata.Artist == "" && b.Metadata.ArtistUnicode == "" {
		errs = append(errs, errors.New("missing artist"))
	}
	if b.General.Mode != 0 {
		errs = append(errs, fmt.Errorf("beatmap is for mode %d, converting as osu!standard", b.General.Mode))
	}
	return errors.Join(errs...)
}
