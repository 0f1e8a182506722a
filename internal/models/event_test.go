package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventValidate(t *testing.T) {
	valid := &Event{
		Type:       EventTypeStageEntered,
		EntityType: EntityTypeSession,
		EntityID:   "session-1",
	}
	require.NoError(t, valid.Validate())

	err := (&Event{EntityID: "  "}).Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrValidation))

	var verrs *ValidationErrors
	require.True(t, errors.As(err, &verrs))
	fields := make([]string, 0, len(verrs.Errors))
	for _, fe := range verrs.Errors {
		fields = append(fields, fe.Field)
	}
	assert.Equal(t, []string{"type", "entity_type", "entity_id"}, fields)
}

func TestValidationErrorsEmpty(t *testing.T) {
	v := &ValidationErrors{}
	assert.NoError(t, v.Err())

	v.Add("ignored", nil)
	assert.NoError(t, v.Err())

	v.Add("dwell", errors.New("must not be negative"))
	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "dwell: must not be negative")
}
