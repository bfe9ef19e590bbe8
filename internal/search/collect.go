package search

import (
	"context"
	"log"
)

// Collector assembles a full page of relevant items out of the upstream's
// unfiltered pages.
type Collector struct {
	upstream    Upstream
	maxAttempts int
}

func NewCollector(up Upstream) *Collector {
	return &Collector{upstream: up, maxAttempts: MaxAttempts}
}

// Collect fetches over-sized pages starting at req.Offset, filters them and
// keeps going until req.PageSize items are gathered, a filtered page comes
// back empty, or maxAttempts fetches were spent. One more call refreshes the
// reported total, so the upstream sees at most maxAttempts+1 requests.
//
// The cursor advances by the raw page length, not the filtered one:
// discarded items still occupy upstream positions.
func (c *Collector) Collect(ctx context.Context, req Request) (Collection, error) {
	shaped := ShapeQuery(req.Query)
	fetchSize := req.PageSize * overFetchFactor

	collected := make([]Item, 0, req.PageSize)
	cursor := req.Offset
	attempts := 0
	firstTotal := -1
	exhausted := false

	for len(collected) < req.PageSize && attempts < c.maxAttempts {
		page, err := c.upstream.Search(ctx, shaped, cursor, fetchSize)
		if err != nil {
			return Collection{}, err
		}
		if firstTotal < 0 {
			firstTotal = page.TotalItems
		}

		relevant := FilterRelevant(page, req.Query)
		if len(relevant.Items) == 0 {
			exhausted = true
			break
		}

		take := relevant.Items
		if need := req.PageSize - len(collected); len(take) > need {
			take = take[:need]
		}
		for _, it := range take {
			collected = append(collected, FormatItem(it))
		}
		cursor += len(page.Items)
		attempts++
	}

	reported := firstTotal
	if len(collected) > 0 {
		// offset 0 gives the most stable total
		probe, err := c.upstream.Search(ctx, shaped, 0, 1)
		if err != nil {
			log.Printf("[search] total probe failed for %q: %v (using first page total)", req.Query, err)
		} else {
			reported = probe.TotalItems
		}
	} else {
		// unfiltered look at the same window: tells "nothing there" apart
		// from "everything filtered out"
		direct, err := c.upstream.Search(ctx, shaped, req.Offset, req.PageSize)
		if err != nil {
			log.Printf("[search] direct fetch failed for %q: %v (using first page total)", req.Query, err)
		} else {
			reported = direct.TotalItems
		}
	}
	if reported < 0 {
		reported = 0
	}

	return Collection{
		Items:                 collected,
		EffectiveTotal:        min(reported, MaxTotalItems),
		UpstreamReportedTotal: reported,
		Exhausted:             exhausted,
	}, nil
}
