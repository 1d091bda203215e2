package model

import (
	"time"

	"gorm.io/gorm"
)

type Section string

const (
	SectionListening Section = "listening"
	SectionReading   Section = "reading"
	SectionWriting   Section = "writing"
	SectionSpeaking  Section = "speaking"
)

// Objective reports whether the section is scored from question answers.
func (s Section) Objective() bool {
	return s == SectionListening || s == SectionReading
}

type QuestionType string

const (
	TypeTrueFalseNotGiven       QuestionType = "true_false_not_given"
	TypeYesNoNotGiven           QuestionType = "yes_no_not_given"
	TypeMultipleChoice          QuestionType = "multiple_choice"
	TypeMultipleChoiceMulti     QuestionType = "multiple_choice_multi"
	TypeMatchingHeadings        QuestionType = "matching_headings"
	TypeMatchingInformation     QuestionType = "matching_information"
	TypeMatchingFeatures        QuestionType = "matching_features"
	TypeMatchingSentenceEndings QuestionType = "matching_sentence_endings"
	TypeSentenceCompletion      QuestionType = "sentence_completion"
	TypeSummaryCompletion       QuestionType = "summary_completion"
	TypeNoteCompletion          QuestionType = "note_completion"
	TypeTableCompletion         QuestionType = "table_completion"
	TypeFlowChartCompletion     QuestionType = "flow_chart_completion"
	TypeDiagramLabeling         QuestionType = "diagram_labeling"
	TypeFormCompletion          QuestionType = "form_completion"
	TypeShortAnswer             QuestionType = "short_answer"
)

// QuestionGroup carries the part number shared by its questions.
type QuestionGroup struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	TestID       uint       `json:"test_id" gorm:"not null;index"`
	Section      Section    `json:"section" gorm:"not null;index"`
	PartNumber   int        `json:"part_number" gorm:"not null"`
	Instructions string     `json:"instructions,omitempty" gorm:"type:text"`
	Questions    []Question `json:"questions,omitempty" gorm:"foreignKey:GroupID"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type Question struct {
	ID       uint           `gorm:"primarykey" json:"id"`
	GroupID  uint           `json:"group_id" gorm:"not null;index"`
	Group    *QuestionGroup `json:"group,omitempty" gorm:"foreignKey:GroupID"`
	Position int            `json:"position" gorm:"not null"`
	Type     QuestionType   `json:"type" gorm:"not null"`
	Prompt   string         `json:"prompt" gorm:"type:text"`
	// CorrectAnswer holds pipe separated alternatives. Choice types may
	// leave it empty and mark Choices instead.
	CorrectAnswer string         `json:"-" gorm:"type:text"`
	Choices       []Choice       `json:"choices,omitempty" gorm:"foreignKey:QuestionID"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// Part returns the part number of the owning group, or 0 when it is not loaded.
func (q Question) Part() int {
	if q.Group == nil {
		return 0
	}
	return q.Group.PartNumber
}

type Choice struct {
	ID         uint   `gorm:"primarykey" json:"id"`
	QuestionID uint   `json:"question_id" gorm:"not null;index"`
	Position   int    `json:"position" gorm:"not null"`
	Text       string `json:"text" gorm:"not null"`
	IsCorrect  bool   `json:"-" gorm:"not null;default:false"`
}
