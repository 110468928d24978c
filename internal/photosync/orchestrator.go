// Package photosync resolves photo sets for every catalog record that
// expects photos, one record at a time.
package photosync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/puzzle-museum/catalog-sync/internal/catalog"
	"github.com/puzzle-museum/catalog-sync/internal/google"
	"github.com/puzzle-museum/catalog-sync/internal/pacing"
)

// Status is the outcome class of one record.
type Status int

const (
	StatusResolved Status = iota
	StatusNotExpected
	StatusNotFound
	StatusTransientError
)

func (s Status) String() string {
	switch s {
	case StatusResolved:
		return "resolved"
	case StatusNotExpected:
		return "not_expected"
	case StatusNotFound:
		return "not_found"
	case StatusTransientError:
		return "transient_error"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is the result of resolving one record.
type Outcome struct {
	AccessionNo string
	Status      Status
	Photos      []string
	BoxScan     string
	Err         error
}

// PhotoResolver finds the photo locators of one accession number.
type PhotoResolver interface {
	ResolvePhotos(ctx context.Context, accessionNo string) ([]string, error)
}

// BoxScanResolver finds the box scan of one accession number.
type BoxScanResolver interface {
	ResolveBoxScan(ctx context.Context, accessionNo string) (string, bool)
}

// Summary counts outcomes. Resolved + NotFound + Skipped == Total; Errors is
// the part of NotFound caused by failed lookups.
type Summary struct {
	Total    int
	Resolved int
	NotFound int
	Skipped  int
	Errors   int
	BoxScans int
}

// Add tallies one outcome.
func (s *Summary) Add(o Outcome) {
	s.Total++
	switch o.Status {
	case StatusResolved:
		s.Resolved++
		if o.BoxScan != "" {
			s.BoxScans++
		}
	case StatusNotExpected:
		s.Skipped++
	case StatusTransientError:
		s.NotFound++
		s.Errors++
	default:
		s.NotFound++
	}
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithPacer sets the pause policy between lookups.
func WithPacer(p pacing.Pacer) Option {
	return func(o *Orchestrator) {
		o.pacer = p
	}
}

// WithBoxScans also looks up a box scan for every resolved record.
func WithBoxScans(r BoxScanResolver) Option {
	return func(o *Orchestrator) {
		o.boxScans = r
	}
}

// WithObserver calls fn with every outcome, after it has been counted.
func WithObserver(fn func(Outcome)) Option {
	return func(o *Orchestrator) {
		o.observe = fn
	}
}

// Orchestrator drives the photo pass.
type Orchestrator struct {
	resolver PhotoResolver
	boxScans BoxScanResolver
	pacer    pacing.Pacer
	observe  func(Outcome)
}

// New creates an orchestrator with a fixed 100ms pause between lookups.
func New(resolver PhotoResolver, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		resolver: resolver,
		pacer:    pacing.FixedDelay{Delay: pacing.DefaultDelay},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Resolve classifies a single record without pacing.
func (o *Orchestrator) Resolve(ctx context.Context, rec catalog.Record) Outcome {
	out := Outcome{AccessionNo: rec.AccessionNo}
	if !rec.HasPhoto {
		out.Status = StatusNotExpected
		return out
	}

	photos, err := o.resolver.ResolvePhotos(ctx, rec.AccessionNo)
	switch {
	case err != nil:
		out.Status = StatusTransientError
		out.Err = err
		return out
	case len(photos) == 0:
		out.Status = StatusNotFound
		return out
	}

	out.Status = StatusResolved
	out.Photos = photos
	if o.boxScans != nil {
		if scan, ok := o.boxScans.ResolveBoxScan(ctx, rec.AccessionNo); ok {
			out.BoxScan = scan
		}
	}
	return out
}

// Run resolves every record in order and returns the image map. Per-record
// failures are logged and counted; only cancellation aborts the run, in which
// case no images are returned.
func (o *Orchestrator) Run(ctx context.Context, records []catalog.Record) (catalog.Images, Summary, error) {
	images := make(catalog.Images)
	var summary Summary

	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, summary, fmt.Errorf("photo sync interrupted after %d of %d records: %w", i, len(records), err)
		}

		out := o.Resolve(ctx, rec)
		if out.Status == StatusTransientError && ctx.Err() != nil {
			return nil, summary, fmt.Errorf("photo sync interrupted after %d of %d records: %w", i, len(records), ctx.Err())
		}

		summary.Add(out)
		o.logOutcome(out)
		if o.observe != nil {
			o.observe(out)
		}

		if out.Status == StatusResolved {
			set := catalog.NewPhotoSet(out.Photos)
			set.BoxScan = out.BoxScan
			images[out.AccessionNo] = set
		}

		if out.Status == StatusNotExpected {
			continue
		}
		if errors.Is(out.Err, google.ErrRateLimited) {
			if recorder, ok := o.pacer.(pacing.RateLimitRecorder); ok {
				recorder.RecordRateLimit(0)
			}
		}
		if err := o.pacer.Wait(ctx); err != nil {
			return nil, summary, fmt.Errorf("photo sync interrupted after %d of %d records: %w", i+1, len(records), err)
		}
	}

	return images, summary, nil
}

func (o *Orchestrator) logOutcome(out Outcome) {
	switch out.Status {
	case StatusResolved:
		slog.Info("Found photos", "accession_no", out.AccessionNo, "count", len(out.Photos), "box_scan", out.BoxScan != "")
	case StatusNotFound:
		slog.Info("No photos found", "accession_no", out.AccessionNo)
	case StatusTransientError:
		if google.IsSetupError(out.Err) {
			slog.Error("Photo lookup rejected, check credentials and folder sharing", "accession_no", out.AccessionNo, "error", out.Err)
			return
		}
		slog.Warn("Photo lookup failed", "accession_no", out.AccessionNo, "error", out.Err)
	case StatusNotExpected:
		slog.Debug("Skipping record without photos", "accession_no", out.AccessionNo)
	}
}
