package dash

import (
	"encoding/json"
	"os"
)

// FileWriter writes sample and node rows to JSONL files.
type FileWriter struct {
	sampleFile *os.File
	nodesFile  *os.File
	sampleEnc  *json.Encoder
	nodesEnc   *json.Encoder
}

// NewFileWriter creates a FileWriter. nodesPath may be empty to skip the
// nodes log.
func NewFileWriter(samplePath, nodesPath string) (*FileWriter, error) {
	sf, err := os.Create(samplePath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{sampleFile: sf, sampleEnc: json.NewEncoder(sf)}
	if nodesPath != "" {
		nf, err := os.Create(nodesPath)
		if err != nil {
			sf.Close()
			return nil, err
		}
		fw.nodesFile = nf
		fw.nodesEnc = json.NewEncoder(nf)
	}
	return fw, nil
}

// Write logs a single sample row.
func (f *FileWriter) Write(row SampleRow) error {
	return f.sampleEnc.Encode(row)
}

// WriteBatch logs multiple sample rows.
func (f *FileWriter) WriteBatch(rows []SampleRow) error {
	for _, r := range rows {
		if err := f.Write(r); err != nil {
			return err
		}
	}
	return nil
}

// WriteNodes logs a node snapshot row, if enabled.
func (f *FileWriter) WriteNodes(row NodesRow) error {
	if f.nodesEnc == nil {
		return nil
	}
	return f.nodesEnc.Encode(row)
}

// Close closes the underlying files.
func (f *FileWriter) Close() error {
	var err error
	if f.sampleFile != nil {
		if e := f.sampleFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	if f.nodesFile != nil {
		if e := f.nodesFile.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
