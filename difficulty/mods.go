package difficulty

import (
	"fmt"
	"strings"
)

// Modifier is the osu!stable mod bitmask.
type Modifier int64

const (
	None        Modifier = 0
	NoFail      Modifier = 1 << 0
	Easy        Modifier = 1 << 1
	TouchDevice Modifier = 1 << 2
	Hidden      Modifier = 1 << 3
	HardRock    Modifier = 1 << 4
	SuddenDeath Modifier = 1 << 5
	DoubleTime  Modifier = 1 << 6
	Relax       Modifier = 1 << 7
	HalfTime    Modifier = 1 << 8
	Nightcore   Modifier = 1 << 9
	Flashlight  Modifier = 1 << 10
	Autoplay    Modifier = 1 << 11
	SpunOut     Modifier = 1 << 12
	Relax2      Modifier = 1 << 13
	Perfect     Modifier = 1 << 14
)

var modOrder = []struct {
	mod     Modifier
	acronym string
}{
	{Nightcore, "NC"},
	{DoubleTime, "DT"},
	{HalfTime, "HT"},
	{Easy, "EZ"},
	{HardRock, "HR"},
	{Hidden, "HD"},
	{Flashlight, "FL"},
	{NoFail, "NF"},
	{SpunOut, "SO"},
	{Perfect, "PF"},
	{SuddenDeath, "SD"},
	{Relax, "RX"},
	{Relax2, "AP"},
	{TouchDevice, "TD"},
	{Autoplay, "AT"},
}

// Active reports whether every bit of mod is set.
func (m Modifier) Active(mod Modifier) bool {
	return m&mod == mod
}

func (m Modifier) String() string {
	var b strings.Builder
	for _, o := range modOrder {
		if !m.Active(o.mod) {
			continue
		}
		// NC implies DT, PF implies SD
		if (o.mod == DoubleTime && m.Active(Nightcore)) || (o.mod == SuddenDeath && m.Active(Perfect)) {
			continue
		}
		b.WriteString(o.acronym)
	}
	if b.Len() == 0 {
		return "NM"
	}
	return b.String()
}

// ParseMods converts an acronym string such as "HDDT" or "hd,hr" into a bitmask.
func ParseMods(s string) (Modifier, error) {
	s = strings.ToUpper(strings.NewReplacer(",", "", "+", "", " ", "").Replace(s))
	if s == "" || s == "NM" {
		return None, nil
	}
	if len(s)%2 != 0 {
		return None, fmt.Errorf("invalid mod string %q", s)
	}

	var mods Modifier
	for i := 0; i < len(s); i += 2 {
		mod, ok := parseAcronym(s[i : i+2])
		if !ok {
			return None, fmt.Errorf("unknown mod %q", s[i:i+2])
		}
		mods |= mod
	}
	return mods, nil
}

// ParseAcronyms builds a bitmask from a list of acronyms as returned by the osu! API.
// Acronyms unknown to osu!stable are skipped.
func ParseAcronyms(acronyms []string) Modifier {
	var mods Modifier
	for _, a := range acronyms {
		if mod, ok := parseAcronym(strings.ToUpper(a)); ok {
			mods |= mod
		}
	}
	return mods
}

func parseAcronym(a string) (Modifier, bool) {
	switch a {
	case "NC":
		return Nightcore | DoubleTime, true
	case "PF":
		return Perfect | SuddenDeath, true
	}
	for _, o := range modOrder {
		if o.acronym == a {
			return o.mod, true
		}
	}
	return None, false
}
