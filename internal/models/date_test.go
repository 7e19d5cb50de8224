package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateUnmarshalCalendarDate(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2030-01-10"`), &d))
	assert.Equal(t, "2030-01-10", d.String())
}

func TestDateUnmarshalTimestampKeepsDatePart(t *testing.T) {
	cases := map[string]string{
		`"2030-01-10T03:00:00.000Z"`:      "2030-01-10",
		`"2030-01-10T23:30:00-03:00"`:     "2030-01-10",
		`"2030-01-10T00:15:00.123+01:00"`: "2030-01-10",
	}
	for raw, want := range cases {
		var d Date
		require.NoError(t, json.Unmarshal([]byte(raw), &d), raw)
		assert.Equal(t, want, d.String(), raw)
	}
}

func TestDateUnmarshalEmptyAndInvalid(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	assert.Error(t, json.Unmarshal([]byte(`"10/01/2030"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20300110`), &d))
}

func TestDateMarshalUsesCalendarLayout(t *testing.T) {
	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2030-01-10T03:00:00Z"`), &d))
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, `"2030-01-10"`, string(raw))
}
