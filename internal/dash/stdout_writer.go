// Writer implementation printing rows as JSON to STDOUT
package dash

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// StdoutWriter prints sample and node rows as JSON lines.
type StdoutWriter struct {
	out io.Writer
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout.
func NewStdoutWriter() *StdoutWriter {
	return &StdoutWriter{out: os.Stdout}
}

// Write outputs a single sample row.
func (w *StdoutWriter) Write(row SampleRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}

// WriteBatch outputs multiple sample rows.
func (w *StdoutWriter) WriteBatch(rows []SampleRow) error {
	for _, r := range rows {
		_ = w.Write(r)
	}
	return nil
}

// WriteNodes outputs a node population snapshot.
func (w *StdoutWriter) WriteNodes(row NodesRow) error {
	data, _ := json.Marshal(row)
	fmt.Fprintln(w.out, string(data))
	return nil
}
