package dotosu

import "strconv"

const (
	HitNormal  = "hitnormal"
	HitWhistle = "hitwhistle"
	HitFinish  = "hitfinish"
	HitClap    = "hitclap"
)

// HitSample is a single sound played when an object is hit.
// An empty Bank inherits the bank of the active timing line.
type HitSample struct {
	Name     string
	Bank     string
	Suffix   string
	Volume   int
	Filename string

	// IsLayered marks the hitnormal that stable plays even when the object asks for additions only.
	IsLayered bool
}

// With returns a copy of the sample under another name.
func (s HitSample) With(name string) HitSample {
	s.Name = name
	return s
}

type SampleSet uint8

const (
	SampleNone SampleSet = iota
	SampleNormal
	SampleSoft
	SampleDrum
)

func (s SampleSet) String() string {
	switch s {
	case SampleNormal:
		return "normal"
	case SampleSoft:
		return "soft"
	case SampleDrum:
		return "drum"
	default:
		return ""
	}
}

func toSampleSet(id int) SampleSet {
	switch id {
	case 1:
		return SampleNormal
	case 2:
		return SampleSoft
	case 3:
		return SampleDrum
	default:
		return SampleNone
	}
}

// SampleBankInfo is the decoded "normalSet:additionSet:index:volume:filename" column.
type SampleBankInfo struct {
	NormalSet   SampleSet
	AdditionSet SampleSet
	Index       int
	Volume      int
	Filename    string
}

func (b SampleBankInfo) additionBank() string {
	if b.AdditionSet == SampleNone {
		return b.NormalSet.String()
	}
	return b.AdditionSet.String()
}

func (b SampleBankInfo) suffix() string {
	if b.Index < 2 {
		return ""
	}
	return strconv.Itoa(b.Index)
}

// ConvertSamples builds the sample list for a hitsound bitmask.
// A custom filename replaces every other sample.
func ConvertSamples(sound HitSound, bank SampleBankInfo) []HitSample {
	if bank.Filename != "" {
		return []HitSample{{Filename: bank.Filename, Volume: bank.Volume}}
	}

	samples := []HitSample{{
		Name:      HitNormal,
		Bank:      bank.NormalSet.String(),
		Suffix:    bank.suffix(),
		Volume:    bank.Volume,
		IsLayered: sound != HitSoundNone && sound&HitSoundNormal == 0,
	}}

	add := func(name string) {
		samples = append(samples, HitSample{
			Name:   name,
			Bank:   bank.additionBank(),
			Suffix: bank.suffix(),
			Volume: bank.Volume,
		})
	}

	if sound&HitSoundFinish != 0 {
		add(HitFinish)
	}
	if sound&HitSoundWhistle != 0 {
		add(HitWhistle)
	}
	if sound&HitSoundClap != 0 {
		add(HitClap)
	}

	return samples
}
