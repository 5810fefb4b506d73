package models

import (
	"fmt"
	"reflect"
	"time"

	"github.com/mitchellh/mapstructure"
)

// Entities holds the values extracted from a conversation so far.
type Entities struct {
	Interested    *bool      `json:"interested,omitempty" mapstructure:"interested"`
	NoticePeriod  *int       `json:"notice_period,omitempty" mapstructure:"notice_period"`
	CurrentCTC    *float64   `json:"current_ctc,omitempty" mapstructure:"current_ctc"`
	ExpectedCTC   *float64   `json:"expected_ctc,omitempty" mapstructure:"expected_ctc"`
	InterviewSlot *time.Time `json:"interview_slot,omitempty" mapstructure:"interview_slot"`
}

// Merge returns e overlaid with the non-nil fields of other.
func (e Entities) Merge(other Entities) Entities {
	if other.Interested != nil {
		e.Interested = other.Interested
	}
	if other.NoticePeriod != nil {
		e.NoticePeriod = other.NoticePeriod
	}
	if other.CurrentCTC != nil {
		e.CurrentCTC = other.CurrentCTC
	}
	if other.ExpectedCTC != nil {
		e.ExpectedCTC = other.ExpectedCTC
	}
	if other.InterviewSlot != nil {
		e.InterviewSlot = other.InterviewSlot
	}
	return e
}

// Clone returns a deep copy so callers can mutate pointers freely.
func (e Entities) Clone() Entities {
	var out Entities
	if e.Interested != nil {
		v := *e.Interested
		out.Interested = &v
	}
	if e.NoticePeriod != nil {
		v := *e.NoticePeriod
		out.NoticePeriod = &v
	}
	if e.CurrentCTC != nil {
		v := *e.CurrentCTC
		out.CurrentCTC = &v
	}
	if e.ExpectedCTC != nil {
		v := *e.ExpectedCTC
		out.ExpectedCTC = &v
	}
	if e.InterviewSlot != nil {
		v := *e.InterviewSlot
		out.InterviewSlot = &v
	}
	return out
}

// DecodeEntities converts a loosely typed map, as read back from a JSONB
// column, into Entities. Numbers arrive as float64 and the slot as an RFC3339
// string.
func DecodeEntities(raw map[string]any) (Entities, error) {
	var out Entities
	if len(raw) == 0 {
		return out, nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			timeHook,
			mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(raw); err != nil {
		return out, fmt.Errorf("decode entities: %w", err)
	}
	return out, nil
}

// timeHook passes time.Time values through untouched; the memory store hands
// them over without a JSON round trip.
func timeHook(from reflect.Type, to reflect.Type, data any) (any, error) {
	if to != reflect.TypeOf(time.Time{}) {
		return data, nil
	}
	if t, ok := data.(time.Time); ok {
		return t, nil
	}
	if t, ok := data.(*time.Time); ok && t != nil {
		return *t, nil
	}
	return data, nil
}
