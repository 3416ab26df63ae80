/*
PURPOSE:
  Writes run results to a JSON Lines file (NDJSON).
  Each line is a complete model.Result, plot geometry included, so a
  renderer can redraw any case without recomputing it.

REQUIREMENTS:
  User-specified:
  - JSON output for plotting and further parsing.

  Implementation-discovered:
  - JSON Lines is append-friendly, one case per line.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Runner), internal/cli
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("results.jsonl")
  w.Write(result)
  w.Close()
*/

package output

import (
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/daryltucker/mccabe-thiele/internal/model"
)

// JSONWriter handles writing results as JSON lines.
type JSONWriter struct {
	closer  io.Closer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter on a fresh file.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{closer: f, encoder: json.NewEncoder(f)}, nil
}

// NewJSONStream writes JSON lines to w; Close is a no-op.
func NewJSONStream(w io.Writer) *JSONWriter {
	return &JSONWriter{encoder: json.NewEncoder(w)}
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(r model.Result) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	if jw.closer == nil {
		return nil
	}
	return jw.closer.Close()
}
