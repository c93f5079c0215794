package dash

import "testing"

// batchRecorder records whether the batch path was taken.
type batchRecorder struct {
	MockMetricWriter
	batches int
}

func (w *batchRecorder) WriteBatch(rows []SampleRow) error {
	w.batches++
	w.Rows = append(w.Rows, rows...)
	return nil
}

func TestMultiWriter_FansOut(t *testing.T) {
	a := &MockMetricWriter{}
	b := &MockMetricWriter{}
	n := &MockNodeWriter{}
	mw := NewMultiWriter([]MetricWriter{a, b}, []NodeWriter{n})

	if err := mw.Write(sampleRowFixture()); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	if len(a.Rows) != 1 || len(b.Rows) != 1 {
		t.Errorf("expected both writers to receive the row: %d/%d", len(a.Rows), len(b.Rows))
	}
	if err := mw.WriteNodes(nodesRowFixture()); err != nil {
		t.Fatalf("WriteNodes returned error: %v", err)
	}
	if len(n.Rows) != 1 {
		t.Errorf("expected node writer to receive the snapshot")
	}
}

func TestMultiWriter_UsesBatchWhenSupported(t *testing.T) {
	plain := &MockMetricWriter{}
	batched := &batchRecorder{}
	mw := NewMultiWriter([]MetricWriter{plain, batched}, nil)

	rows := []SampleRow{sampleRowFixture(), sampleRowFixture(), sampleRowFixture()}
	if err := mw.WriteBatch(rows); err != nil {
		t.Fatalf("WriteBatch returned error: %v", err)
	}
	if len(plain.Rows) != 3 {
		t.Errorf("plain writer should receive rows one by one: %d", len(plain.Rows))
	}
	if batched.batches != 1 || len(batched.Rows) != 3 {
		t.Errorf("batch writer should receive one batch of 3: batches=%d rows=%d", batched.batches, len(batched.Rows))
	}
}
