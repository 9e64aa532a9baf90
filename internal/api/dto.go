package api

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/okravets/case-records/internal/database"
	"github.com/okravets/case-records/internal/records"
)

// dateLayout is the wire format for bare dates. RFC 3339 timestamps are
// accepted as well.
const dateLayout = "2006-01-02"

func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}

// flexInt unmarshals from either a JSON number or a numeric string, since
// form clients historically sent numbers like the fine amount as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

func (f flexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(f))
}

// sentencePayload is the validated shape of a sentence in requests. For
// type fine, termYears carries the fine amount and fineStatus the payment
// status; fineStatus maps onto the stored location field.
type sentencePayload struct {
	Type       string   `json:"type" binding:"required,oneof=imprisonment correctional conditional fine"`
	StartDate  string   `json:"startDate" binding:"required"`
	EndDate    *string  `json:"endDate"`
	TermYears  *flexInt `json:"termYears"`
	Location   *string  `json:"location"`
	FineStatus *string  `json:"fineStatus"`
}

func (p *sentencePayload) toInput() (*records.SentenceInput, error) {
	start, err := parseDate(p.StartDate)
	if err != nil {
		return nil, &records.ValidationError{Field: "startDate", Reason: "invalid date"}
	}

	input := &records.SentenceInput{
		Type:      p.Type,
		StartDate: start,
	}

	if p.EndDate != nil && *p.EndDate != "" {
		end, err := parseDate(*p.EndDate)
		if err != nil {
			return nil, &records.ValidationError{Field: "endDate", Reason: "invalid date"}
		}
		input.EndDate = &end
	}

	if p.TermYears != nil {
		v := int(*p.TermYears)
		input.TermYears = &v
	}

	if p.Type == database.SentenceFine && p.FineStatus != nil {
		input.Location = p.FineStatus
	} else {
		input.Location = p.Location
	}

	return input, nil
}
