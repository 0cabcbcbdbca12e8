package feed

import (
	"context"

	"github.com/vilaca/activity-feed/internal/domain"
)

// fetchEvents retrieves raw events for the subject. In repository mode
// a single repo-events call is made; in user mode pages 1..p are
// requested until exhausted.
//
// The API signals "no further pages" as a request failure rather than
// an empty page, so any fetch error is a soft stop: everything
// accumulated so far is returned and no error is surfaced.
func (a *Assembler) fetchEvents(ctx context.Context, opts Options) []domain.RawEvent {
	if opts.Mode == ModeRepository {
		events, err := a.client.ListRepoEvents(ctx, opts.Owner, opts.Repo)
		if err != nil {
			a.logger.Printf("[Assembler] Failed to get repository events for %s/%s: %v", opts.Owner, opts.Repo, err)
			return nil
		}
		return events
	}

	pages := opts.pages()
	var events []domain.RawEvent
	for page := 1; page <= pages; page++ {
		a.logger.Printf("[Assembler] Loading page %d/%d", page, pages)
		batch, err := a.client.ListUserEvents(ctx, opts.Login, page)
		if err != nil {
			a.logger.Printf("[Assembler] No more pages to load: %v", err)
			break
		}
		events = append(events, batch...)
	}

	return events
}
