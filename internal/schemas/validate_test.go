package schemas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/reddit-persona/internal/types"
)

func TestValidatePersonaFallback(t *testing.T) {
	assert.NoError(t, ValidatePersona(types.FallbackPersona()),
		"fallback persona must always be schema-valid")
}

func TestValidatePersonaRejectsIncomplete(t *testing.T) {
	doc := types.FallbackPersona()
	doc.Occupation = ""

	err := ValidatePersona(doc)
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.NotEmpty(t, ve.Errors)
}

func TestValidatePersonaRejectsBadLevel(t *testing.T) {
	doc := types.FallbackPersona()
	doc.Motivations[types.MotivationSpeed] = "Extreme"
	assert.Error(t, ValidatePersona(doc))
}

func TestValidatePersonaRejectsOutOfRangeBar(t *testing.T) {
	doc := types.FallbackPersona()
	doc.PersonalityBars[types.AxisFeelingThinking] = 1.5
	assert.Error(t, ValidatePersona(doc))
}

func TestValidateJSONStringRejectsGarbage(t *testing.T) {
	assert.Error(t, ValidateJSONString(`{"occupation": "dev"}`))
}
