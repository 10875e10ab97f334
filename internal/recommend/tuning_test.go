package recommend

import (
	"testing"

	"subject_recommender/internal/util"

	"github.com/stretchr/testify/assert"
)

func TestTuningValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tuning)
		ok     bool
	}{
		{name: "defaults", mutate: func(*Tuning) {}, ok: true},
		{name: "negative weight", mutate: func(tu *Tuning) { tu.Weights.Effort = -0.1 }},
		{name: "tags not dominant", mutate: func(tu *Tuning) { tu.Weights.Effort = 0.35 }},
		{name: "bias of one", mutate: func(tu *Tuning) { tu.BiasStudentHasOne = 1 }},
		{name: "zero suggestions", mutate: func(tu *Tuning) { tu.NumberOfSuggestions = 0 }},
		{name: "unknown denominator", mutate: func(tu *Tuning) { tu.MatchDenominator = "both" }},
		{name: "effort bands overlap", mutate: func(tu *Tuning) { tu.LowEffortMax = 4 }},
		{name: "negative level cap", mutate: func(tu *Tuning) { tu.LevelCreditCaps = []int{6, -1} }},
		{name: "threshold above one", mutate: func(tu *Tuning) { tu.Explain.Tags = 1.5 }},
		{name: "student denominator", mutate: func(tu *Tuning) { tu.MatchDenominator = DenominatorStudent }, ok: true},
		{name: "no level caps", mutate: func(tu *Tuning) { tu.LevelCreditCaps = nil }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tuning := DefaultTuning()
			tt.mutate(&tuning)
			err := tuning.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, util.ErrInvalidTuning)
			}
		})
	}
}

func TestTuningValidateReportsFirstOffender(t *testing.T) {
	tuning := DefaultTuning()
	tuning.Weights.Professors = 0.5
	tuning.Weights.Effort = 0.5
	tuning.Weights.Participants = 0.5

	for i := 0; i < 20; i++ {
		err := tuning.Validate()
		assert.ErrorIs(t, err, util.ErrInvalidTuning)
		assert.Contains(t, err.Error(), "professors weight")
	}
}

func TestLevelCap(t *testing.T) {
	tuning := DefaultTuning()
	assert.Equal(t, 6, tuning.levelCap(1))
	assert.Equal(t, 36, tuning.levelCap(2))
	assert.Equal(t, -1, tuning.levelCap(3))
}
