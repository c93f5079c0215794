package dash

import (
	"encoding/json"
	"io"
	"os"
	"time"
)

// ReplayLog replays sample rows from r to writer. A speed >0 accelerates
// playback by dividing the recorded gaps. If speed <= 0, no artificial delay
// is inserted.
func ReplayLog(r io.Reader, writer MetricWriter, speed float64) error {
	dec := json.NewDecoder(r)
	var prev int64
	for {
		var row SampleRow
		if err := dec.Decode(&row); err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if prev != 0 && speed > 0 {
			diff := time.Duration(row.Timestamp-prev) * time.Millisecond
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = row.Timestamp
	}
}

// ReplayLogFile opens a file and replays its sample rows.
func ReplayLogFile(path string, writer MetricWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, writer, speed)
}
