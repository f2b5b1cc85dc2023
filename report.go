package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"

	"github.com/kionell/osu-standard-stable/objects"
	"github.com/kionell/osu-standard-stable/performance"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	return table
}

func formatPP(pp float64) string {
	return humanize.FormatFloat("#,###.##", pp)
}

func formatAccuracy(acc float64) string {
	return fmt.Sprintf("%.2f%%", acc*100)
}

func formatCount(n int) string {
	return humanize.Comma(int64(n))
}

func formatTime(ms float64) string {
	return strconv.FormatFloat(ms, 'f', -1, 64)
}

func objectKind(h objects.IHitObject) string {
	switch h.(type) {
	case *objects.Circle:
		return "circle"
	case *objects.Slider:
		return "slider"
	case *objects.Spinner:
		return "spinner"
	case *objects.SliderHead:
		return "head"
	case *objects.SliderTick:
		return "tick"
	case *objects.SliderRepeat:
		return "repeat"
	case *objects.SliderTail:
		return "tail"
	case *objects.SpinnerTick:
		return "spinner tick"
	case *objects.SpinnerBonusTick:
		return "bonus tick"
	}
	return "unknown"
}

func renderResults(w io.Writer, results performance.Results) {
	table := newTable(w, "Total", "Aim", "Speed", "Accuracy", "Flashlight", "Effective misses")
	table.Append([]string{
		formatPP(results.Total),
		formatPP(results.Aim),
		formatPP(results.Speed),
		formatPP(results.Accuracy),
		formatPP(results.Flashlight),
		strconv.FormatFloat(results.EffectiveMissCount, 'f', 2, 64),
	})
	table.Render()
}
