// Package feed implements the activity feed engine: it fetches a
// subject's raw GitHub events and assembles the normalized, filtered,
// display-ready activity feed.
package feed

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vilaca/activity-feed/internal/api"
	"github.com/vilaca/activity-feed/internal/domain"
	"github.com/vilaca/activity-feed/internal/metrics"
	"github.com/vilaca/activity-feed/internal/render"
)

// Assembler orchestrates one feed assembly: fetch, filter, classify,
// collect, filter by type, truncate.
// Follows Single Responsibility Principle - only orchestrates the feed pipeline.
type Assembler struct {
	client     api.EventsClient
	classifier *classifier
	logger     *log.Logger
}

// NewAssembler creates an assembler on top of an events client and a
// content renderer.
func NewAssembler(client api.EventsClient, renderer render.Renderer) *Assembler {
	return &Assembler{
		client:     client,
		classifier: newClassifier(client, renderer),
		logger:     log.Default(),
	}
}

// Assemble produces the activity feed for one invocation.
//
// Classification of the surviving events runs concurrently, bounded by
// opts.MaxConcurrency; results are collected back into source order, so
// the output is deterministic regardless of network completion timing.
// Any classification error (enrichment fetch, rendering) fails the
// whole assembly - there is no partial feed.
func (a *Assembler) Assemble(ctx context.Context, opts Options) (*domain.Feed, error) {
	start := time.Now()

	events := a.fetchEvents(ctx, opts)
	metrics.AddEventsFetched(len(events))
	a.logger.Printf("[Assembler] %d events loaded", len(events))

	filtered := filterEvents(events, opts)
	a.logger.Printf("[Assembler] %d events after actor/visibility filters", len(filtered))

	records := make([]*domain.ActivityRecord, len(filtered))

	group, groupCtx := errgroup.WithContext(ctx)
	limit := opts.MaxConcurrency
	if limit <= 0 {
		limit = DefaultMaxConcurrency
	}
	group.SetLimit(limit)

	for i, event := range filtered {
		i, event := i, event
		group.Go(func() error {
			record, err := a.classifier.Classify(groupCtx, event, opts)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("failed to classify events: %w", err)
	}

	kept := make([]domain.ActivityRecord, 0, len(records))
	for _, record := range records {
		if record == nil {
			continue
		}
		if !opts.typeAllowed(string(record.Type)) {
			metrics.IncEventDropped(metrics.ReasonTypeFilter)
			continue
		}
		kept = append(kept, *record)
	}
	a.logger.Printf("[Assembler] %d events after type filter", len(kept))

	if opts.Limit > 0 && len(kept) > opts.Limit {
		kept = kept[:opts.Limit]
	}
	a.logger.Printf("[Assembler] %d events after limit", len(kept))

	for _, record := range kept {
		metrics.IncRecordEmitted(string(record.Type))
	}
	metrics.ObserveAssemblyDuration(time.Since(start))

	return &domain.Feed{Timestamps: opts.Timestamps, Events: kept}, nil
}

// filterEvents applies the actor and visibility filters to the raw
// sequence, preserving order.
func filterEvents(events []domain.RawEvent, opts Options) []domain.RawEvent {
	filtered := make([]domain.RawEvent, 0, len(events))
	for _, event := range events {
		// Organization feeds keep every actor; user feeds keep only
		// the subject's own events.
		if opts.Account != AccountOrganization && !strings.EqualFold(event.Actor.Login, opts.Login) {
			metrics.IncEventDropped(metrics.ReasonActor)
			continue
		}

		if opts.Visibility == VisibilityPublic && !event.Public {
			metrics.IncEventDropped(metrics.ReasonVisibility)
			continue
		}

		filtered = append(filtered, event)
	}
	return filtered
}
