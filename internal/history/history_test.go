package history

import (
	"testing"
	"time"
)

func TestNewBuffer(t *testing.T) {
	t.Run("creates empty buffer", func(t *testing.T) {
		b := NewBuffer(10)

		if b.Len() != 0 {
			t.Errorf("expected Len()=0, got %d", b.Len())
		}
		if _, ok := b.Latest(); ok {
			t.Error("expected no latest reading in empty buffer")
		}
	})

	t.Run("falls back to default capacity", func(t *testing.T) {
		b := NewBuffer(0)

		for i := 0; i < DefaultCapacity+10; i++ {
			b.Append(Reading{Timestamp: time.Now(), Value: float64(i)})
		}
		if b.Len() != DefaultCapacity {
			t.Errorf("expected Len()=%d, got %d", DefaultCapacity, b.Len())
		}
	})
}

func TestBuffer_Append(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("keeps insertion order", func(t *testing.T) {
		b := NewBuffer(5)
		for i := 0; i < 3; i++ {
			b.Append(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
		}

		got := b.Snapshot()
		if len(got) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(got))
		}
		for i, r := range got {
			if r.Value != float64(i) {
				t.Errorf("reading %d: expected value %d, got %f", i, i, r.Value)
			}
		}
	})

	t.Run("never exceeds capacity and evicts oldest first", func(t *testing.T) {
		const capacity = 7
		b := NewBuffer(capacity)

		for i := 0; i < capacity*3; i++ {
			b.Append(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
			if b.Len() > capacity {
				t.Fatalf("length %d exceeds capacity %d after %d appends", b.Len(), capacity, i+1)
			}
		}

		got := b.Snapshot()
		if len(got) != capacity {
			t.Fatalf("expected %d readings, got %d", capacity, len(got))
		}
		// Exactly the most recent entries survive, oldest to newest.
		for i, r := range got {
			want := float64(capacity*3 - capacity + i)
			if r.Value != want {
				t.Errorf("reading %d: expected value %f, got %f", i, want, r.Value)
			}
		}
	})
}

func TestBuffer_Recent(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuffer(10)
	for i := 0; i < 6; i++ {
		b.Append(Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
	}

	t.Run("returns last n chronologically", func(t *testing.T) {
		got := b.Recent(3)
		if len(got) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(got))
		}
		if got[0].Value != 3 || got[2].Value != 5 {
			t.Errorf("expected values 3..5, got %f..%f", got[0].Value, got[2].Value)
		}
	})

	t.Run("returns fewer when buffer is short", func(t *testing.T) {
		if got := b.Recent(100); len(got) != 6 {
			t.Errorf("expected 6 readings, got %d", len(got))
		}
	})

	t.Run("non-positive n yields nothing", func(t *testing.T) {
		if got := b.Recent(0); len(got) != 0 {
			t.Errorf("expected no readings, got %d", len(got))
		}
	})
}

func TestBuffer_Window(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	b := NewBuffer(10)
	for i := 0; i < 5; i++ {
		b.Append(Reading{Timestamp: base.Add(time.Duration(i) * time.Minute), Value: float64(i)})
	}

	t.Run("filters by timestamp inclusively", func(t *testing.T) {
		got := b.Window(base.Add(2 * time.Minute))
		if len(got) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(got))
		}
		if got[0].Value != 2 {
			t.Errorf("expected first value 2, got %f", got[0].Value)
		}
	})

	t.Run("empty buffer yields empty window", func(t *testing.T) {
		empty := NewBuffer(10)
		if got := empty.Window(base); len(got) != 0 {
			t.Errorf("expected no readings, got %d", len(got))
		}
	})
}

func TestBuffer_Seed(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []Reading{
		{Timestamp: base, Value: 100},
		{Timestamp: base.Add(time.Second), Value: 200},
	}

	t.Run("seeds empty buffer", func(t *testing.T) {
		b := NewBuffer(10)
		b.Seed(seed)

		if b.Len() != 2 {
			t.Fatalf("expected 2 readings, got %d", b.Len())
		}
	})

	t.Run("does not overwrite collected readings", func(t *testing.T) {
		b := NewBuffer(10)
		b.Append(Reading{Timestamp: base, Value: 1})
		b.Seed(seed)

		if b.Len() != 1 {
			t.Errorf("expected seed to be ignored, got %d readings", b.Len())
		}
	})

	t.Run("truncates oversized snapshots to newest entries", func(t *testing.T) {
		b := NewBuffer(3)
		var big []Reading
		for i := 0; i < 10; i++ {
			big = append(big, Reading{Timestamp: base.Add(time.Duration(i) * time.Second), Value: float64(i)})
		}
		b.Seed(big)

		got := b.Snapshot()
		if len(got) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(got))
		}
		if got[0].Value != 7 || got[2].Value != 9 {
			t.Errorf("expected values 7..9, got %f..%f", got[0].Value, got[2].Value)
		}
	})
}

func TestBuffer_Span(t *testing.T) {
	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("zero with fewer than two readings", func(t *testing.T) {
		b := NewBuffer(10)
		if b.Span() != 0 {
			t.Error("expected zero span for empty buffer")
		}
		b.Append(Reading{Timestamp: base, Value: 1})
		if b.Span() != 0 {
			t.Error("expected zero span for single reading")
		}
	})

	t.Run("covers oldest to newest", func(t *testing.T) {
		b := NewBuffer(10)
		b.Append(Reading{Timestamp: base, Value: 1})
		b.Append(Reading{Timestamp: base.Add(90 * time.Minute), Value: 2})

		if b.Span() != 90*time.Minute {
			t.Errorf("expected span 90m, got %v", b.Span())
		}
	})
}

func TestBuffer_Clear(t *testing.T) {
	b := NewBuffer(10)
	b.Append(Reading{Timestamp: time.Now(), Value: 1})
	b.Clear()

	if b.Len() != 0 {
		t.Errorf("expected empty buffer after Clear, got %d", b.Len())
	}
}
