// internal/maintenance/retention.go
package maintenance

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/5w1tchy/books-search/internal/store/dbx"
)

const pruneSearchLog = `DELETE FROM search_queries WHERE searched_at < now() - make_interval(days => $1)`

// PruneSearchLog deletes search_queries rows older than keepDays.
func PruneSearchLog(ctx context.Context, db dbx.Execer, keepDays int) (int64, error) {
	if keepDays <= 0 {
		keepDays = 30
	}
	return dbx.RowsAffected(ctx, db, pruneSearchLog, keepDays)
}

// StartSearchLogRetention runs PruneSearchLog once a day at localTime
// ("HH:MM") in tzName until ctx is done.
// Call once at startup: maintenance.StartSearchLogRetention(ctx, db, 30, "03:00", "Asia/Tokyo")
func StartSearchLogRetention(ctx context.Context, db dbx.Execer, keepDays int, localTime string, tzName string) {
	go func() {
		loc, err := time.LoadLocation(tzName)
		if err != nil {
			loc = time.Local
		}
		h, m := parseClock(localTime)

		for {
			timer := time.NewTimer(time.Until(nextRun(time.Now().In(loc), h, m)))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				n, err := PruneSearchLog(ctx, db, keepDays)
				if err != nil {
					log.Printf("[retention] prune search_queries failed: %v", err)
					continue
				}
				log.Printf("[retention] search_queries: removed %d rows older than %d days", n, keepDays)
			}
		}
	}()
}

// parseClock reads "HH:MM", defaulting to 03:00 on anything malformed.
func parseClock(s string) (int, int) {
	h, m := 3, 0
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return h, m
	}
	if v, err := strconv.Atoi(parts[0]); err == nil && v >= 0 && v < 24 {
		h = v
	}
	if v, err := strconv.Atoi(parts[1]); err == nil && v >= 0 && v < 60 {
		m = v
	}
	return h, m
}

func nextRun(now time.Time, h, m int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), h, m, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}
