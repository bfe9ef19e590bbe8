package searchlog_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/5w1tchy/books-search/internal/metrics/searchlog"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestQueue_FlushesOnShutdown(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	at := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta(
		`INSERT INTO search_queries (query, start_index, page_size, returned, api_total, failed, searched_at) VALUES ($1,$2,$3,$4,$5,$6,$7),($8,$9,$10,$11,$12,$13,$14)`,
	)).
		WithArgs("ruby", 0, 10, 10, 500, false, at, "go", 20, 10, 0, 0, true, at).
		WillReturnResult(sqlmock.NewResult(0, 2))

	q := searchlog.Start(db, searchlog.Options{Buffer: 10, Workers: 1, FlushEvery: time.Hour})
	q.Enqueue(searchlog.Entry{Query: "ruby", Offset: 0, PageSize: 10, Returned: 10, APITotal: 500, At: at})
	q.Enqueue(searchlog.Entry{Query: "go", Offset: 20, PageSize: 10, Failed: true, At: at})
	q.Shutdown()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
	if written, dropped := q.Stats(); written != 2 || dropped != 0 {
		t.Fatalf("want written=2 dropped=0; got written=%d dropped=%d", written, dropped)
	}
}

func TestQueue_SkipsBlankQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	q := searchlog.Start(db, searchlog.Options{Buffer: 10, Workers: 1, FlushEvery: time.Hour})
	q.Enqueue(searchlog.Entry{Query: "   "})
	q.Shutdown()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestQueue_MissingTableDropsBatch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO search_queries").
		WillReturnError(&pgconn.PgError{Code: "42P01", Message: `relation "search_queries" does not exist`})

	q := searchlog.Start(db, searchlog.Options{Buffer: 10, Workers: 1, FlushEvery: time.Hour})
	q.Enqueue(searchlog.Entry{Query: "ruby"})
	q.Shutdown()

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
	if written, dropped := q.Stats(); written != 0 || dropped != 1 {
		t.Fatalf("want written=0 dropped=1; got written=%d dropped=%d", written, dropped)
	}
}

func TestQueue_NilIsNoop(t *testing.T) {
	var q *searchlog.Queue
	q.Enqueue(searchlog.Entry{Query: "ruby"})
	q.Shutdown()
	if w, d := q.Stats(); w != 0 || d != 0 {
		t.Fatalf("nil queue reported stats %d/%d", w, d)
	}
}

func TestEnsureSchema(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS search_queries")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("CREATE INDEX IF NOT EXISTS idx_search_queries_searched_at")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := searchlog.EnsureSchema(context.Background(), db); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
