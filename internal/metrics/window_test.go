package metrics

import "testing"

func TestWindow_AppendEvictsOldestFirst(t *testing.T) {
	w := NewWindow(3)
	for i := 0; i < 5; i++ {
		w.Append(Sample{Timestamp: int64(i)})
	}
	got := w.Samples()
	if len(got) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got))
	}
	for i, s := range got {
		if want := int64(i + 2); s.Timestamp != want {
			t.Errorf("sample %d: expected ts %d, got %d", i, want, s.Timestamp)
		}
	}
}

func TestWindow_SetMaxTrims(t *testing.T) {
	w := NewWindow(10)
	for i := 0; i < 10; i++ {
		w.Append(Sample{Timestamp: int64(i)})
	}
	w.SetMax(4)
	if w.Len() != 4 {
		t.Fatalf("expected 4 samples after SetMax, got %d", w.Len())
	}
	if got := w.Samples()[0].Timestamp; got != 6 {
		t.Errorf("expected oldest ts 6, got %d", got)
	}
}

func TestWindow_SamplesReturnsCopy(t *testing.T) {
	w := NewWindow(2)
	w.Append(Sample{Timestamp: 1})
	snap := w.Samples()
	snap[0].Timestamp = 99
	if w.Samples()[0].Timestamp != 1 {
		t.Error("mutating the snapshot must not affect the window")
	}
}

func TestMaxSamplesFor(t *testing.T) {
	cases := []struct {
		minutes    float64
		intervalMs int64
		want       int
	}{
		{5, 2000, 150},
		{15, 2000, 450},
		{1, 450, 133},
		{0, 2000, 0},
		{-5, 2000, 0},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := MaxSamplesFor(c.minutes, c.intervalMs); got != c.want {
			t.Errorf("MaxSamplesFor(%v,%d)=%d, want %d", c.minutes, c.intervalMs, got, c.want)
		}
	}
}
