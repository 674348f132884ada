package sequencer

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
)

// Mock objects
type mockRow struct {
	val int64
	err error
}

func (m *mockRow) Scan(dest ...any) error {
	if m.err != nil {
		return m.err
	}
	if len(dest) > 0 {
		if ptr, ok := dest[0].(*int64); ok {
			*ptr = m.val
		}
	}
	return nil
}

type mockQuerier struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newMockQuerier() *mockQuerier {
	return &mockQuerier{counters: make(map[string]int64)}
}

func (m *mockQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.mu.Lock()
	defer m.mu.Unlock()

	serie, _ := args[0].(string)
	var increment int64 = 1
	if len(args) == 2 {
		if v, ok := args[1].(int64); ok {
			increment = v
		} else if v, ok := args[1].(int); ok {
			increment = int64(v)
		}
	}

	m.counters[serie] += increment
	return &mockRow{val: m.counters[serie]}
}

func TestNext_Strict(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()

	num, err := svc.Next(ctx, "F001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 1 {
		t.Errorf("expected 1, got %d", num)
	}

	num, err = svc.Next(ctx, "F001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 2 {
		t.Errorf("expected 2, got %d", num)
	}

	// Independent serie starts at 1.
	num, err = svc.Next(ctx, "B001", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if num != 1 {
		t.Errorf("expected 1 for new serie, got %d", num)
	}
}

func TestNext_Cached(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	opts := &Options{Strategy: StrategyCached, RangeSize: 10}

	for want := int64(1); want <= 15; want++ {
		num, err := svc.Next(ctx, "T001", opts)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if num != want {
			t.Errorf("expected %d, got %d", want, num)
		}
	}

	// Two DB round-trips for 15 numbers with range size 10.
	if q.counters["T001"] != 20 {
		t.Errorf("expected 20 reserved, got %d", q.counters["T001"])
	}
}

func TestNext_CachedConcurrent(t *testing.T) {
	q := newMockQuerier()
	svc := New(q)
	ctx := context.Background()
	opts := &Options{Strategy: StrategyCached, RangeSize: 5}

	const workers = 8
	const perWorker = 25

	seen := make(chan int64, workers*perWorker)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				num, err := svc.Next(ctx, "C001", opts)
				if err != nil {
					t.Errorf("unexpected error: %v", err)
					return
				}
				seen <- num
			}
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[int64]bool)
	for num := range seen {
		if unique[num] {
			t.Fatalf("duplicate correlative %d", num)
		}
		unique[num] = true
	}
	if len(unique) != workers*perWorker {
		t.Errorf("expected %d unique numbers, got %d", workers*perWorker, len(unique))
	}
}

func TestNext_EmptySerie(t *testing.T) {
	svc := New(newMockQuerier())
	if _, err := svc.Next(context.Background(), "", nil); err == nil {
		t.Error("expected error for empty serie")
	}
}

func TestFormat(t *testing.T) {
	if got := Format("F001", 42); got != "F001-42" {
		t.Errorf("unexpected format: %s", got)
	}
}
