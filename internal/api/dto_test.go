package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okravets/case-records/internal/records"
)

func TestFlexIntAcceptsNumberAndString(t *testing.T) {
	var payload struct {
		TermYears *flexInt `json:"termYears"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"termYears": 5}`), &payload))
	require.NotNil(t, payload.TermYears)
	assert.EqualValues(t, 5, *payload.TermYears)

	payload.TermYears = nil
	require.NoError(t, json.Unmarshal([]byte(`{"termYears": "5000"}`), &payload))
	require.NotNil(t, payload.TermYears)
	assert.EqualValues(t, 5000, *payload.TermYears)

	assert.Error(t, json.Unmarshal([]byte(`{"termYears": "abc"}`), &payload))
}

func TestParseDateLayouts(t *testing.T) {
	d, err := parseDate("2023-01-01")
	require.NoError(t, err)
	assert.Equal(t, 2023, d.Year())

	d, err = parseDate("2023-01-01T12:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Hour())

	_, err = parseDate("01.02.2023")
	assert.Error(t, err)
}

func TestSentencePayloadFineStatusMapsToLocation(t *testing.T) {
	amount := flexInt(5000)
	status := "pending"
	p := sentencePayload{
		Type:       "fine",
		StartDate:  "2023-01-01",
		TermYears:  &amount,
		FineStatus: &status,
	}

	input, err := p.toInput()
	require.NoError(t, err)
	require.NotNil(t, input.Location)
	assert.Equal(t, "pending", *input.Location)
	require.NotNil(t, input.TermYears)
	assert.Equal(t, 5000, *input.TermYears)
	assert.Nil(t, input.EndDate)
}

func TestSentencePayloadLocationForCustodialTypes(t *testing.T) {
	location := "Colony 52"
	end := "2028-01-01"
	p := sentencePayload{
		Type:      "imprisonment",
		StartDate: "2023-01-01",
		EndDate:   &end,
		Location:  &location,
	}

	input, err := p.toInput()
	require.NoError(t, err)
	require.NotNil(t, input.Location)
	assert.Equal(t, "Colony 52", *input.Location)
	require.NotNil(t, input.EndDate)
}

func TestSentencePayloadRejectsBadDate(t *testing.T) {
	p := sentencePayload{Type: "conditional", StartDate: "yesterday"}

	_, err := p.toInput()
	assert.True(t, records.IsValidation(err))
}
