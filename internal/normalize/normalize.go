// Package normalize converts a voice provider's call analysis payload into
// the fixed EmotionalData shape. Parsing is deliberately permissive: every
// field is defaulted independently, and malformed annotation data degrades
// to an empty annotation set instead of failing the call.
package normalize

import (
	"encoding/json"

	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/model"
)

// Analysis is the provider's call-ended analysis object. Data carries the
// emotional annotations either as a JSON-encoded string or as an
// already-structured object, so it stays raw until projection.
type Analysis struct {
	Transcript json.RawMessage `json:"transcript"`
	Summary    json.RawMessage `json:"summary"`
	Data       json.RawMessage `json:"Data"`
}

// Result holds the normalized fields of one analysis payload.
type Result struct {
	Transcript    string
	Summary       string
	EmotionalData *model.EmotionalData
}

// Apply normalizes an analysis payload. It never returns an error: each
// field degrades to its zero value on missing or wrong-typed input.
func Apply(a Analysis, log zerolog.Logger) Result {
	return Result{
		Transcript:    stringField(a.Transcript),
		Summary:       stringField(a.Summary),
		EmotionalData: EmotionalData(a.Data, log),
	}
}

// EmotionalData projects raw annotation data into the fixed shape. raw may
// be a JSON string containing encoded JSON, a JSON object, or absent; parse
// failures are logged and yield an empty annotation set.
func EmotionalData(raw json.RawMessage, log zerolog.Logger) *model.EmotionalData {
	fields := annotationFields(raw, log)
	ed := &model.EmotionalData{
		BodyLocation:     stringAt(fields, "body_location"),
		SceneTitle:       stringAt(fields, "scene_title"),
		Shape:            stringAt(fields, "shape"),
		ColorPalette:     stringsAt(fields, "color_palette"),
		Motion:           stringAt(fields, "motion"),
		CognitiveLoad:    stringAt(fields, "cognitive_load"),
		GroundEmotion:    stringAt(fields, "ground_emotion"),
		MetaphorPrompt:   stringAt(fields, "metaphor_prompt"),
		Temperature:      stringAt(fields, "temperature"),
		SceneDescription: stringAt(fields, "scene_description"),
		Texture:          stringAt(fields, "texture"),
	}

	// temporal_tag is a closed two-value enum; anything else is dropped,
	// never stored verbatim.
	if tag := model.TemporalTag(stringAt(fields, "temporal_tag")); tag.Valid() {
		ed.TemporalTag = tag
	}
	return ed
}

// annotationFields unwraps the Data field into a generic map. An encoded
// string is parsed a second time; both layers tolerate malformed input.
func annotationFields(raw json.RawMessage, log zerolog.Logger) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}

	// Data as JSON-encoded string.
	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		var fields map[string]interface{}
		if err := json.Unmarshal([]byte(encoded), &fields); err != nil {
			log.Warn().Err(err).Msg("emotional data string is not valid JSON, using empty annotations")
			return nil
		}
		return fields
	}

	// Data as structured object.
	var fields map[string]interface{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		log.Warn().Err(err).Msg("emotional data has unexpected shape, using empty annotations")
		return nil
	}
	return fields
}

// stringField decodes a raw JSON value as a string, defaulting to "".
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

func stringAt(fields map[string]interface{}, key string) string {
	if s, ok := fields[key].(string); ok {
		return s
	}
	return ""
}

func stringsAt(fields map[string]interface{}, key string) []string {
	raw, ok := fields[key].([]interface{})
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
