package document_repo

import (
	"testing"
	"time"

	"github.com/Jcrispin99/gym-app-sub000/internal/domain"
)

func newTestRepo() *BaseDocumentRepo[any] {
	return NewBaseDocumentRepo[any](nil, "test_docs",
		[]string{"id", "serie", "correlative", "date", "status", "comment"},
		func() any { return nil })
}

func TestApplyFilter(t *testing.T) {
	repo := newTestRepo()
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		filter   domain.ListFilter
		wantSQL  string
		wantArgs int
	}{
		{
			name:     "default excludes deleted",
			filter:   domain.ListFilter{},
			wantSQL:  "SELECT id, serie, correlative, date, status, comment FROM test_docs WHERE deletion_mark = $1",
			wantArgs: 1,
		},
		{
			name:     "include deleted drops the predicate",
			filter:   domain.ListFilter{IncludeDeleted: true},
			wantSQL:  "SELECT id, serie, correlative, date, status, comment FROM test_docs",
			wantArgs: 0,
		},
		{
			name:     "status",
			filter:   domain.ListFilter{Status: "posted"},
			wantSQL:  "SELECT id, serie, correlative, date, status, comment FROM test_docs WHERE deletion_mark = $1 AND status = $2",
			wantArgs: 2,
		},
		{
			name:     "date range",
			filter:   domain.ListFilter{DateFrom: &from, DateTo: &from},
			wantSQL:  "SELECT id, serie, correlative, date, status, comment FROM test_docs WHERE deletion_mark = $1 AND date >= $2 AND date <= $3",
			wantArgs: 3,
		},
		{
			name:     "search hits serie and comment",
			filter:   domain.ListFilter{Search: "B001"},
			wantSQL:  "SELECT id, serie, correlative, date, status, comment FROM test_docs WHERE deletion_mark = $1 AND (serie ILIKE $2 OR comment ILIKE $3)",
			wantArgs: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := repo.applyFilter(repo.baseSelect(), tt.filter)

			sql, args, err := q.ToSql()
			if err != nil {
				t.Fatalf("ToSql failed: %v", err)
			}

			if sql != tt.wantSQL {
				t.Errorf("SQL mismatch\nwant: %s\ngot:  %s", tt.wantSQL, sql)
			}
			if len(args) != tt.wantArgs {
				t.Errorf("Args count mismatch\nwant: %d\ngot:  %d", tt.wantArgs, len(args))
			}
		})
	}
}

func TestParseOrderBy(t *testing.T) {
	repo := newTestRepo()

	tests := []struct {
		name    string
		orderBy string
		want    string
		wantErr bool
	}{
		{name: "empty uses document default", orderBy: "", want: "date DESC, correlative DESC"},
		{name: "plain field", orderBy: "serie", want: "serie ASC"},
		{name: "descending prefix", orderBy: "-created_at", want: "created_at DESC"},
		{name: "explicit ascending prefix", orderBy: "+correlative", want: "correlative ASC"},
		{name: "unknown field rejected", orderBy: "total_gross; DROP TABLE test_docs", wantErr: true},
		{name: "bare prefix rejected", orderBy: "-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.parseOrderBy(tt.orderBy)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOrderBy failed: %v", err)
			}
			if got != tt.want {
				t.Errorf("orderBy mismatch\nwant: %s\ngot:  %s", tt.want, got)
			}
		})
	}
}
