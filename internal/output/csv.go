/*
PURPOSE:
  Writes run summaries to a CSV file, one row per case.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Output to CSV.

  Implementation-discovered:
  - Overwrite on each batch; a batch is one table against many cases.
  - Plot geometry stays in the JSONL file; CSV carries scalars only.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine (Runner, Sweep), internal/cli
  - Consumes: internal/model.Result

ERROR HANDLING:
  - Returns error on file creation or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write.
  - Mutex-guarded.

USAGE:
  w, err := output.NewCSVWriter("results.csv")
  w.Write(result)
  w.Close()

MAINTENANCE:
  - Update Write() mapping when Result struct changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"

	"github.com/daryltucker/mccabe-thiele/internal/model"
)

// CSVHeader is the column layout of every summary file.
var CSVHeader = []string{
	"name", "status",
	"xd", "xb", "zf", "q", "r_factor", "nm", "sc",
	"r_min", "r", "r_internal", "subcooling_factor",
	"stages", "fractional_stages", "feed_stage", "xb_actual",
	"azeotropes", "error",
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	closer io.Closer
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It overwrites the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	cw, err := newCSV(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return cw, nil
}

// NewCSVStream writes CSV to w; Close flushes but does not close w.
func NewCSVStream(w io.Writer) (*CSVWriter, error) {
	return newCSV(w, nil)
}

func newCSV(w io.Writer, closer io.Closer) (*CSVWriter, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}
	return &CSVWriter{closer: closer, writer: cw}, nil
}

// Write writes a single result to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.Result) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	p := r.Parameters
	record := []string{
		r.Name,
		string(r.Status),
		num(p.XD), num(p.XB), num(p.ZF), num(p.Q), num(p.RFactor), num(p.NM), num(p.SC),
		fmt.Sprintf("%.4f", r.RMin),
		fmt.Sprintf("%.4f", r.R),
		fmt.Sprintf("%.4f", r.RInternal),
		fmt.Sprintf("%.6f", r.SubcoolingFactor),
		strconv.Itoa(r.Stages),
		fmt.Sprintf("%.2f", r.FractionalStages),
		strconv.Itoa(r.FeedStage),
		fmt.Sprintf("%.4f", r.BottomsActual),
		r.AzeotropeList(),
		r.Error,
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close flushes and closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	if cw.closer == nil {
		return cw.writer.Error()
	}
	return cw.closer.Close()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
