package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Track  string `json:"study_track" validate:"required"`
	Effort int    `json:"study_effort" validate:"min=1,max=5"`
	IDs    []uint `json:"ids" validate:"unique"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(&sample{Track: "KI23", Effort: 3}))

	err := ValidateStruct(&sample{Effort: 9, IDs: []uint{1, 1}})
	require.Error(t, err)

	var verrs Errors
	require.ErrorAs(t, err, &verrs)
	require.Len(t, verrs, 3)

	fields := map[string]string{}
	for _, fe := range verrs {
		fields[fe.Field] = fe.Message
	}
	assert.Equal(t, "study_track is required", fields["study_track"])
	assert.Equal(t, "study_effort must be at most 5", fields["study_effort"])
	assert.Equal(t, "ids must not contain duplicates", fields["ids"])
	assert.Contains(t, err.Error(), "; ")
}

func TestGetValidator_Singleton(t *testing.T) {
	assert.Same(t, GetValidator(), GetValidator())
}
