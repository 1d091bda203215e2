package scoring

import (
	"sort"

	"github.com/lshigami/mockexam/internal/model"
)

// NominalQuestions is the section length the exact tables are written for.
const NominalQuestions = 40

// minInterpolateQuestions is the smallest section the interpolation path accepts.
const minInterpolateQuestions = 20

type threshold struct {
	minCorrect int
	band       float64
}

// Tables are sorted by minCorrect. The zero row keeps 0 correct at band 0.
var listeningTable = []threshold{
	{0, 0.0}, {1, 2.0}, {4, 2.5}, {6, 3.0}, {8, 3.5}, {11, 4.0}, {13, 4.5}, {16, 5.0},
	{18, 5.5}, {23, 6.0}, {27, 6.5}, {30, 7.0}, {32, 7.5}, {35, 8.0}, {37, 8.5}, {39, 9.0},
}

var readingTable = []threshold{
	{0, 0.0}, {1, 2.0}, {4, 2.5}, {6, 3.0}, {8, 3.5}, {10, 4.0}, {13, 4.5}, {15, 5.0},
	{19, 5.5}, {23, 6.0}, {26, 6.5}, {30, 7.0}, {33, 7.5}, {35, 8.0}, {37, 8.5}, {39, 9.0},
}

type percentStep struct {
	minPercent float64
	band       float64
}

// percentageTable is scanned top down; anything under the last step is 2.0.
var percentageTable = []percentStep{
	{95, 9.0}, {89, 8.5}, {80, 8.0}, {70, 7.0}, {60, 6.5},
	{50, 6.0}, {40, 5.5}, {30, 5.0}, {20, 4.0}, {5, 3.0},
}

const percentageFloorBand = 2.0

// Fallback names the conversion used when a section is not out of 40.
type Fallback string

const (
	FallbackPercentage  Fallback = "percentage"
	FallbackInterpolate Fallback = "interpolate"
)

// ParseFallback maps a config value to a Fallback, defaulting to percentage.
func ParseFallback(s string) Fallback {
	if Fallback(s) == FallbackInterpolate {
		return FallbackInterpolate
	}
	return FallbackPercentage
}

type BandConverter struct {
	fallbacks map[model.Section]Fallback
}

func NewBandConverter(listening, reading Fallback) *BandConverter {
	return &BandConverter{fallbacks: map[model.Section]Fallback{
		model.SectionListening: listening,
		model.SectionReading:   reading,
	}}
}

func tableFor(section model.Section) []threshold {
	if section == model.SectionReading {
		return readingTable
	}
	return listeningTable
}

// ToBand converts correct out of total into a band between 0.0 and 9.0 in
// 0.5 steps. The exact table applies whenever total is 40.
func (c *BandConverter) ToBand(correct, total int, section model.Section) float64 {
	if total <= 0 || correct <= 0 {
		return 0
	}
	if correct > total {
		correct = total
	}
	table := tableFor(section)
	if total == NominalQuestions {
		return lookup(table, correct)
	}
	if c.fallbacks[section] == FallbackInterpolate && total >= minInterpolateQuestions {
		return interpolate(table, float64(correct)*NominalQuestions/float64(total))
	}
	return percentageBand(float64(correct) * 100 / float64(total))
}

func lookup(table []threshold, correct int) float64 {
	i := sort.Search(len(table), func(i int) bool { return table[i].minCorrect > correct }) - 1
	if i < 0 {
		return 0
	}
	return table[i].band
}

// interpolate walks linearly between the lower bounds of adjacent rows.
func interpolate(table []threshold, normalized float64) float64 {
	last := table[len(table)-1]
	if normalized >= float64(last.minCorrect) {
		return last.band
	}
	i := sort.Search(len(table), func(i int) bool { return float64(table[i].minCorrect) > normalized }) - 1
	if i < 0 {
		return 0
	}
	lo, hi := table[i], table[i+1]
	frac := (normalized - float64(lo.minCorrect)) / float64(hi.minCorrect-lo.minCorrect)
	return RoundHalf(lo.band + frac*(hi.band-lo.band))
}

func percentageBand(percent float64) float64 {
	for _, step := range percentageTable {
		if percent >= step.minPercent {
			return step.band
		}
	}
	return percentageFloorBand
}
