// Package recommend is the eligibility filtering and preference scoring engine.
// An Engine is built once from the lookup tables and a Tuning and is then shared,
// read-only, by every request.
package recommend

import (
	"fmt"

	"subject_recommender/internal/util"
	"subject_recommender/pkg/validation"
)

// 匹配率分母策略
const (
	DenominatorSubject = "subject"
	DenominatorStudent = "student"
)

// Weights 各评分维度的权重
type Weights struct {
	Professors   float64 `mapstructure:"professors" json:"professors" validate:"gte=0"`
	Assistants   float64 `mapstructure:"assistants" json:"assistants" validate:"gte=0"`
	Technologies float64 `mapstructure:"technologies" json:"technologies" validate:"gte=0"`
	Tags         float64 `mapstructure:"tags" json:"tags" validate:"gt=0"`
	Evaluation   float64 `mapstructure:"evaluation" json:"evaluation" validate:"gte=0"`
	Effort       float64 `mapstructure:"effort" json:"effort" validate:"gte=0"`
	Activated    float64 `mapstructure:"activated" json:"activated" validate:"gte=0"`
	Participants float64 `mapstructure:"participants" json:"participants" validate:"gte=0"`
}

// Apply returns the weighted total of a breakdown.
func (w Weights) Apply(b ScoreBreakdown) float64 {
	return w.Professors*b.Professors +
		w.Assistants*b.Assistants +
		w.Technologies*b.Technologies +
		w.Tags*b.Tags +
		w.Evaluation*b.Evaluation +
		w.Effort*b.Effort +
		w.Activated*b.Activated +
		w.Participants*b.Participants
}

// ExplainThresholds 生成推荐理由的最低分数
type ExplainThresholds struct {
	Tags         float64 `mapstructure:"tags" json:"tags" validate:"gte=0,lte=1"`
	Professors   float64 `mapstructure:"professors" json:"professors" validate:"gte=0,lte=1"`
	Assistants   float64 `mapstructure:"assistants" json:"assistants" validate:"gte=0,lte=1"`
	Technologies float64 `mapstructure:"technologies" json:"technologies" validate:"gte=0,lte=1"`
	Evaluation   float64 `mapstructure:"evaluation" json:"evaluation" validate:"gte=0,lte=1"`
}

// Tuning holds every scoring constant that can be overridden from configuration.
type Tuning struct {
	Weights             Weights           `mapstructure:"weights" json:"weights"`
	BiasStudentHasOne   float64           `mapstructure:"bias_student_has_one" json:"bias_student_has_one" validate:"gt=0,lt=1"`
	BiasSubjectHasOne   float64           `mapstructure:"bias_subject_has_one" json:"bias_subject_has_one" validate:"gt=0,lt=1"`
	NumberOfSuggestions int               `mapstructure:"number_of_suggestions" json:"number_of_suggestions" validate:"min=1"`
	LevelCreditCaps     []int             `mapstructure:"level_credit_caps" json:"level_credit_caps" validate:"dive,min=0"`
	LowEffortMax        int               `mapstructure:"low_effort_max" json:"low_effort_max" validate:"min=1,max=5"`
	HighEffortMin       int               `mapstructure:"high_effort_min" json:"high_effort_min" validate:"min=1,max=5"`
	MatchDenominator    string            `mapstructure:"match_denominator" json:"match_denominator" validate:"oneof=subject student"`
	Explain             ExplainThresholds `mapstructure:"explain" json:"explain"`
	KnownTracks         []string          `mapstructure:"known_tracks" json:"known_tracks"`
}

// DefaultTuning returns the production constants.
func DefaultTuning() Tuning {
	return Tuning{
		Weights: Weights{
			Professors:   0.055,
			Assistants:   0.055,
			Technologies: 0.075,
			Tags:         0.35,
			Evaluation:   0.15,
			Effort:       0.3,
			Activated:    0.01,
			Participants: 0.01,
		},
		BiasStudentHasOne:   0.9,
		BiasSubjectHasOne:   0.75,
		NumberOfSuggestions: 6,
		LevelCreditCaps:     []int{6, 36},
		LowEffortMax:        2,
		HighEffortMin:       4,
		MatchDenominator:    DenominatorSubject,
		Explain: ExplainThresholds{
			Tags:         0.7,
			Professors:   0.5,
			Assistants:   0.5,
			Technologies: 0.5,
			Evaluation:   0.5,
		},
		KnownTracks: []string{"SIIS23", "IMB23", "PIT23", "IE23", "KI23", "KN23"},
	}
}

// Validate checks field ranges and that the tag weight dominates every other weight.
func (t Tuning) Validate() error {
	if err := validation.ValidateStruct(t); err != nil {
		return fmt.Errorf("%w: %v", util.ErrInvalidTuning, err)
	}
	if t.LowEffortMax >= t.HighEffortMin {
		return fmt.Errorf("%w: low_effort_max (%d) must be below high_effort_min (%d)",
			util.ErrInvalidTuning, t.LowEffortMax, t.HighEffortMin)
	}

	w := t.Weights
	// 固定顺序，多个权重同时越界时报告第一个
	others := []struct {
		name  string
		value float64
	}{
		{"professors", w.Professors},
		{"assistants", w.Assistants},
		{"technologies", w.Technologies},
		{"evaluation", w.Evaluation},
		{"effort", w.Effort},
		{"activated", w.Activated},
		{"participants", w.Participants},
	}
	for _, o := range others {
		if o.value >= w.Tags {
			return fmt.Errorf("%w: tags weight %.3f must exceed %s weight %.3f", util.ErrInvalidTuning, w.Tags, o.name, o.value)
		}
	}
	return nil
}

// levelCap returns the credit cap of a level, or -1 when the level is uncapped.
func (t Tuning) levelCap(level int) int {
	if level < 1 || level > len(t.LevelCreditCaps) {
		return -1
	}
	return t.LevelCreditCaps[level-1]
}

func (t Tuning) knownTrack(track string) bool {
	if len(t.KnownTracks) == 0 {
		return true
	}
	for _, known := range t.KnownTracks {
		if known == track {
			return true
		}
	}
	return false
}
