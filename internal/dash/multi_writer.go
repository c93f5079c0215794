package dash

// MultiWriter fans sample and node rows out to multiple writers.
type MultiWriter struct {
	metricWriters []MetricWriter
	nodeWriters   []NodeWriter
}

// NewMultiWriter creates a new MultiWriter.
func NewMultiWriter(mws []MetricWriter, nws []NodeWriter) *MultiWriter {
	return &MultiWriter{metricWriters: mws, nodeWriters: nws}
}

// Write sends a sample row to all metric writers.
func (mw *MultiWriter) Write(row SampleRow) error {
	for _, w := range mw.metricWriters {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch sends multiple sample rows to all writers, using batch mode if
// supported.
func (mw *MultiWriter) WriteBatch(rows []SampleRow) error {
	for _, w := range mw.metricWriters {
		if bw, ok := w.(batchMetricWriter); ok {
			if err := bw.WriteBatch(rows); err != nil {
				return err
			}
			continue
		}
		for _, r := range rows {
			if err := w.Write(r); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteNodes sends a node snapshot to all node writers.
func (mw *MultiWriter) WriteNodes(row NodesRow) error {
	for _, w := range mw.nodeWriters {
		if err := w.WriteNodes(row); err != nil {
			return err
		}
	}
	return nil
}
