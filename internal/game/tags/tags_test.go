package tags

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSymbolicAndNumeric(t *testing.T) {
	tests := []struct {
		name      string
		tagName   string
		raw       string
		wantTag   Tag
		wantValue int
	}{
		{"symbolic state", "STATE", "COMPLETE", State, StateComplete},
		{"symbolic step", "STEP", "MAIN_ACTION", Step, StepMainAction},
		{"next step shares table", "NEXT_STEP", "MAIN_ACTION", NextStep, StepMainAction},
		{"numeric value", "TURN", "7", Turn, 7},
		{"numeric tag id", "53", "12", EntityID, 12},
		{"mulligan input", "MULLIGAN_STATE", "INPUT", MulliganState, MulliganInput},
		{"zone", "ZONE", "HAND", Zone, ZoneHand},
		{"negative numeric", "DAMAGE", "-1", Damage, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tag, value, err := Parse(tt.tagName, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, tag)
			assert.Equal(t, tt.wantValue, value)
		})
	}
}

func TestParseErrors(t *testing.T) {
	_, _, err := Parse("NOT_A_TAG", "1")
	assert.True(t, errors.Is(err, ErrUnknownTag))

	_, _, err = Parse("STATE", "EXPLODED")
	assert.True(t, errors.Is(err, ErrUnknownValue))

	_, _, err = Parse("TURN", "MAIN_ACTION")
	assert.True(t, errors.Is(err, ErrUnknownValue), "TURN has no symbolic values")
}

func TestStringAndFormat(t *testing.T) {
	assert.Equal(t, "FIRST_PLAYER", FirstPlayer.String())
	assert.Equal(t, "9999", Tag(9999).String())
	assert.Equal(t, "MAIN_ACTION", FormatValue(Step, StepMainAction))
	assert.Equal(t, "42", FormatValue(Step, 42))
	assert.Equal(t, "5", FormatValue(Turn, 5))
}
