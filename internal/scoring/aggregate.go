package scoring

import "math"

// roundingSlack absorbs float noise so that 5.2499999 produced by a
// penalty multiplication still rounds like 5.25.
const roundingSlack = 1e-9

// RoundHalf rounds to the nearest 0.5 with halves going up, so 6.25 becomes
// 6.5 and 6.75 becomes 7.0.
func RoundHalf(v float64) float64 {
	return math.Floor(v*2+0.5+roundingSlack) / 2
}

// MeanBand is the mean of values rounded to the nearest 0.5. Empty input gives 0.
func MeanBand(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return RoundHalf(sum / float64(len(values)))
}

// OverallBand averages the sections that have a score. It returns nil when
// no section is scored.
func OverallBand(sections ...*float64) *float64 {
	var present []float64
	for _, s := range sections {
		if s != nil {
			present = append(present, *s)
		}
	}
	if len(present) == 0 {
		return nil
	}
	overall := MeanBand(present)
	return &overall
}

const (
	task1Weight = 1.0
	task2Weight = 2.0
)

// WritingBand combines the two essay task bands, task 2 counting double.
// A single graded task stands alone. Nil means neither is graded.
func WritingBand(task1, task2 *float64) *float64 {
	var sum, weights float64
	if task1 != nil {
		sum += *task1 * task1Weight
		weights += task1Weight
	}
	if task2 != nil {
		sum += *task2 * task2Weight
		weights += task2Weight
	}
	if weights == 0 {
		return nil
	}
	band := RoundHalf(sum / weights)
	return &band
}
