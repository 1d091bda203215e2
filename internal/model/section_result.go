package model

import (
	"time"

	"gorm.io/datatypes"
)

// AccuracyStat is weighted correctness: Earned points out of Possible.
type AccuracyStat struct {
	Earned   float64 `json:"earned"`
	Possible float64 `json:"possible"`
}

func (a AccuracyStat) Rate() float64 {
	if a.Possible == 0 {
		return 0
	}
	return a.Earned / a.Possible
}

type SectionBreakdown struct {
	ByType map[QuestionType]AccuracyStat `json:"by_type"`
	ByPart map[int]AccuracyStat          `json:"by_part"`
}

// SectionResult is the stored outcome of finalizing an objective section.
type SectionResult struct {
	ID        uint                                 `gorm:"primarykey" json:"id"`
	AttemptID uint                                 `json:"attempt_id" gorm:"not null;uniqueIndex:idx_section_result"`
	Section   Section                              `json:"section" gorm:"not null;uniqueIndex:idx_section_result"`
	Correct   int                                  `json:"correct"`
	Total     int                                  `json:"total"`
	Band      float64                              `json:"band"`
	Breakdown datatypes.JSONType[SectionBreakdown] `json:"breakdown"`
	CreatedAt time.Time                            `json:"created_at"`
	UpdatedAt time.Time                            `json:"updated_at"`
}
