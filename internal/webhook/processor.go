package webhook

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/havenmind/haven-server/internal/imagegen"
	"github.com/havenmind/haven-server/internal/model"
	"github.com/havenmind/haven-server/internal/normalize"
	"github.com/havenmind/haven-server/internal/store"
)

const (
	// DiagnosticSummary marks records whose transcript holds a raw,
	// unprocessed payload kept for debugging.
	DiagnosticSummary = "Raw webhook data (unprocessed)"

	// Placeholder strings for records persisted after a processing
	// failure. The call event is never silently dropped.
	PlaceholderTranscript = "Call data could not be processed"
	PlaceholderSummary    = "Processing failed, placeholder record"
)

// Processor turns decoded webhook events into stored call records.
// Webhooks carry no authenticated session, so every record is attributed
// to the configured fallback owner.
type Processor struct {
	records store.CallRecords
	images  imagegen.Generator
	ownerID string
	log     zerolog.Logger
}

// NewProcessor wires the ingestion pipeline. images may be nil, in which
// case records are stored without generated imagery.
func NewProcessor(records store.CallRecords, images imagegen.Generator, ownerID string, log zerolog.Logger) *Processor {
	return &Processor{records: records, images: images, ownerID: ownerID, log: log}
}

// Process dispatches one event. At most one store write happens per call.
// Processing failures on call-ended events degrade to a persisted
// placeholder record; only a store failure surfaces as an error.
func (p *Processor) Process(ctx context.Context, evt Event) error {
	switch evt.Kind {
	case KindCallEnded:
		if evt.Analysis == nil {
			p.log.Info().Str("callId", evt.CallID).Msg("call ended without analysis, storing raw payload")
			return p.saveDiagnostic(ctx, evt)
		}
		return p.ingest(ctx, evt)

	case KindCallStarted, KindMessage, KindTranscription:
		p.log.Debug().Str("kind", string(evt.Kind)).Str("callId", evt.CallID).Msg("webhook event ignored")
		return nil

	default:
		p.log.Info().Str("type", evt.RawType).Msg("unrecognized webhook type, storing raw payload")
		return p.saveDiagnostic(ctx, evt)
	}
}

// ingest normalizes the analysis, requests imagery, and persists the
// record. Any failure inside the build step falls back to a placeholder
// record so ingestion always stores something.
func (p *Processor) ingest(ctx context.Context, evt Event) error {
	rec, err := p.buildRecord(ctx, evt)
	if err != nil {
		p.log.Error().Stack().Err(err).Str("callId", evt.CallID).Msg("call processing failed, persisting placeholder record")
		rec = &model.CallRecord{
			ID:         uuid.New().String(),
			UserID:     p.ownerID,
			Date:       time.Now().UTC(),
			Transcript: PlaceholderTranscript,
			Summary:    PlaceholderSummary,
		}
	}

	if _, err := p.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save call record: %w", err)
	}
	return nil
}

// buildRecord runs normalization and image generation. Panics from either
// step are converted to errors so the caller's placeholder policy applies.
func (p *Processor) buildRecord(ctx context.Context, evt Event) (rec *model.CallRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			rec = nil
			err = fmt.Errorf("panic during call processing: %v", r)
		}
	}()

	res := normalize.Apply(*evt.Analysis, p.log)

	rec = &model.CallRecord{
		ID:            uuid.New().String(),
		UserID:        p.ownerID,
		Date:          time.Now().UTC(),
		Transcript:    res.Transcript,
		Summary:       res.Summary,
		EmotionalData: res.EmotionalData,
	}

	// Image generation failure is non-fatal: the record is kept without
	// an image, no retry.
	if p.images != nil {
		url, imgErr := p.images.Generate(ctx, res.EmotionalData)
		if imgErr != nil {
			p.log.Warn().Err(imgErr).Str("callId", evt.CallID).Msg("image generation failed, storing record without image")
		} else {
			rec.GeneratedImageURL = url
		}
	}
	return rec, nil
}

// saveDiagnostic persists the raw payload verbatim so no event is lost.
func (p *Processor) saveDiagnostic(ctx context.Context, evt Event) error {
	rec := &model.CallRecord{
		ID:         uuid.New().String(),
		UserID:     p.ownerID,
		Date:       time.Now().UTC(),
		Transcript: string(evt.Raw),
		Summary:    DiagnosticSummary,
	}
	if _, err := p.records.Save(ctx, rec); err != nil {
		return fmt.Errorf("save diagnostic record: %w", err)
	}
	return nil
}
