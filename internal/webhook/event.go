// Package webhook ingests call-event notifications from the voice provider.
// Payloads arrive untyped; Decode folds them into a closed set of event
// kinds with an explicit unknown fallback, so dispatch is a switch over a
// tagged variant rather than a dynamically-typed branch.
package webhook

import (
	"encoding/json"
	"strings"

	"github.com/havenmind/haven-server/internal/normalize"
)

// Kind identifies a webhook event variant.
type Kind string

const (
	KindCallStarted   Kind = "call-started"
	KindCallEnded     Kind = "call-ended"
	KindMessage       Kind = "message"
	KindTranscription Kind = "transcription"
	// KindUnknown covers the provider's open-ended set of other events.
	KindUnknown Kind = "unknown"
)

// Event is one decoded webhook notification. Raw keeps the original body
// for diagnostic records.
type Event struct {
	Kind     Kind
	RawType  string
	CallID   string
	Analysis *normalize.Analysis
	Raw      []byte
}

// Decode parses a webhook body into an Event. It fails only when the body
// is not valid JSON. Envelope decoding is as permissive as the normalizer:
// a non-object body, a non-string type, or a non-object analysis never
// errors — the payload lands in the unknown or analysis-less variant and
// the raw body is kept for the diagnostic record.
func Decode(body []byte) (Event, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		// A valid-JSON body that is not an object (array, string, number)
		// still dispatches, as the unknown kind.
		if !json.Valid(body) {
			return Event{}, err
		}
		fields = nil
	}

	rawType := stringField(fields["type"])
	return Event{
		Kind:     kindOf(rawType),
		RawType:  rawType,
		CallID:   stringField(fields["callId"]),
		Analysis: analysisField(fields["analysis"]),
		Raw:      body,
	}, nil
}

// stringField decodes a raw JSON value as a string; absent or wrong-typed
// values yield "".
func stringField(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

// analysisField decodes the analysis object; anything that is not an
// object is treated as absent.
func analysisField(raw json.RawMessage) *normalize.Analysis {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var a normalize.Analysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil
	}
	return &a
}

// kindOf normalizes the provider's type discriminator. Both dotted and
// dashed spellings are seen in the wild ("call.ended" vs "call-ended").
func kindOf(t string) Kind {
	switch strings.ReplaceAll(strings.ToLower(t), ".", "-") {
	case "call-started":
		return KindCallStarted
	case "call-ended":
		return KindCallEnded
	case "message":
		return KindMessage
	case "transcription":
		return KindTranscription
	default:
		return KindUnknown
	}
}
