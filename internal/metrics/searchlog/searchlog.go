package searchlog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/5w1tchy/books-search/internal/store/dbx"
	"github.com/jackc/pgx/v5/pgconn"
)

// Entry is one served search. Only the query and counters are kept;
// result items are never stored.
type Entry struct {
	Query    string
	Offset   int
	PageSize int
	Returned int
	APITotal int
	Failed   bool
	At       time.Time
}

type Options struct {
	Buffer     int           // channel capacity; full buffer drops entries
	Workers    int           // flushing goroutines
	FlushEvery time.Duration // max age of a partial batch
}

// Queue batches entries into multi-row INSERTs off the request path.
// A nil *Queue is a valid no-op.
type Queue struct {
	db         dbx.Execer
	ch         chan Entry
	done       chan struct{}
	wg         sync.WaitGroup
	flushEvery time.Duration
	closeOnce  sync.Once

	written     atomic.Int64
	dropped     atomic.Int64
	warnedTable atomic.Bool
}

const (
	batchSize  = 100
	writeTO    = 500 * time.Millisecond
	insertTmpl = `INSERT INTO search_queries (query, start_index, page_size, returned, api_total, failed, searched_at) VALUES %s`
	colsPerRow = 7

	createTable = `CREATE TABLE IF NOT EXISTS search_queries (
  id          BIGSERIAL PRIMARY KEY,
  query       TEXT        NOT NULL,
  start_index INTEGER     NOT NULL,
  page_size   INTEGER     NOT NULL,
  returned    INTEGER     NOT NULL,
  api_total   INTEGER     NOT NULL,
  failed      BOOLEAN     NOT NULL DEFAULT FALSE,
  searched_at TIMESTAMPTZ NOT NULL
)`
	createIndex = `CREATE INDEX IF NOT EXISTS idx_search_queries_searched_at ON search_queries (searched_at)`

	undefinedTable = "42P01"
)

// EnsureSchema creates the search_queries table and its index if missing.
func EnsureSchema(ctx context.Context, db dbx.Execer) error {
	if _, err := dbx.Exec(ctx, db, createTable); err != nil {
		return fmt.Errorf("searchlog: create table: %w", err)
	}
	if _, err := dbx.Exec(ctx, db, createIndex); err != nil {
		return fmt.Errorf("searchlog: create index: %w", err)
	}
	return nil
}

// Start spins up the workers. Suggested: Buffer=10000, Workers=2.
func Start(db dbx.Execer, opts Options) *Queue {
	if opts.Buffer <= 0 {
		opts.Buffer = 10000
	}
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.FlushEvery <= 0 {
		opts.FlushEvery = 250 * time.Millisecond
	}
	q := &Queue{
		db:         db,
		ch:         make(chan Entry, opts.Buffer),
		done:       make(chan struct{}),
		flushEvery: opts.FlushEvery,
	}
	for i := 0; i < opts.Workers; i++ {
		q.wg.Add(1)
		go q.worker()
	}
	return q
}

// Enqueue never blocks; when the buffer is full the entry is dropped.
func (q *Queue) Enqueue(e Entry) {
	if q == nil || strings.TrimSpace(e.Query) == "" {
		return
	}
	if e.At.IsZero() {
		e.At = time.Now().UTC()
	}
	select {
	case q.ch <- e:
	default:
		q.dropped.Add(1)
	}
}

// Shutdown stops the workers after flushing what is buffered.
func (q *Queue) Shutdown() {
	if q == nil {
		return
	}
	q.closeOnce.Do(func() { close(q.done) })
	q.wg.Wait()
}

// Stats reports rows written and entries dropped (full buffer or failed insert).
func (q *Queue) Stats() (written, dropped int64) {
	if q == nil {
		return 0, 0
	}
	return q.written.Load(), q.dropped.Load()
}

func (q *Queue) worker() {
	defer q.wg.Done()
	tk := time.NewTicker(q.flushEvery)
	defer tk.Stop()

	batch := make([]Entry, 0, batchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		q.insert(batch)
		batch = batch[:0]
	}

	for {
		select {
		case <-q.done:
			for {
				select {
				case e := <-q.ch:
					batch = append(batch, e)
					if len(batch) >= batchSize {
						flush()
					}
				default:
					flush()
					return
				}
			}
		case e := <-q.ch:
			batch = append(batch, e)
			if len(batch) >= batchSize {
				flush()
			}
		case <-tk.C:
			flush()
		}
	}
}

func (q *Queue) insert(batch []Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTO)
	defer cancel()

	if _, err := dbx.Exec(ctx, q.db, insertStatement(len(batch)), insertArgs(batch)...); err != nil {
		q.dropped.Add(int64(len(batch)))
		var pg *pgconn.PgError
		if errors.As(err, &pg) && pg.Code == undefinedTable {
			if q.warnedTable.CompareAndSwap(false, true) {
				log.Printf("[searchlog] table search_queries missing; run EnsureSchema (dropping entries)")
			}
			return
		}
		log.Printf("[searchlog] insert %d rows failed: %v", len(batch), err)
		return
	}
	q.written.Add(int64(len(batch)))
}

// insertStatement renders VALUES ($1,...,$7),($8,...,$14)...
func insertStatement(rows int) string {
	var sb strings.Builder
	for i := 0; i < rows; i++ {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteByte('(')
		for c := 0; c < colsPerRow; c++ {
			if c > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, "$%d", i*colsPerRow+c+1)
		}
		sb.WriteByte(')')
	}
	return fmt.Sprintf(insertTmpl, sb.String())
}

func insertArgs(batch []Entry) []any {
	args := make([]any, 0, len(batch)*colsPerRow)
	for _, e := range batch {
		args = append(args, e.Query, e.Offset, e.PageSize, e.Returned, e.APITotal, e.Failed, e.At)
	}
	return args
}
