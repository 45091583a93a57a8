package bboxconv

// Reading and writing of bounding box records.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// BoxWriter consumes converted boxes. index is the zero-based number of the input record.
type BoxWriter interface {
	WriteBox(index int, b Box) error
}

// CSVWriter writes one comma separated line per box, with the fields in the order of Box.Values.
type CSVWriter struct {
	w io.Writer
}

// NewCSVWriter returns a CSVWriter writing to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{w: w}
}

// WriteBox writes b as a single line.
func (w *CSVWriter) WriteBox(_ int, b Box) error {
	_, err := io.WriteString(w.w, b.String()+"\n")
	return err
}

type multiBoxWriter []BoxWriter

func (m multiBoxWriter) WriteBox(index int, b Box) error {
	for _, w := range m {
		if err := w.WriteBox(index, b); err != nil {
			return err
		}
	}
	return nil
}

// MultiBoxWriter returns a BoxWriter that passes every box to all writers, in order. It stops at
// the first error.
func MultiBoxWriter(writers ...BoxWriter) BoxWriter {
	return multiBoxWriter(writers)
}

// ConvertRecords reads records of four comma separated numbers from r, converts each of them with c
// and writes the result to w.
//
// The records have no header. All fields are parsed as float32 and truncated to integers by the
// pixel formats. Processing stops at the first record that cannot be parsed or written.
//
// Returns the number of records written.
func ConvertRecords(r io.Reader, c *Converter, w BoxWriter) (int, error) {
	rdr := csv.NewReader(r)
	rdr.FieldsPerRecord = 4
	rdr.TrimLeadingSpace = true
	rdr.ReuseRecord = true

	n := 0
	for {
		record, err := rdr.Read()
		if err == io.EOF {
			return n, nil
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) && errors.Is(parseErr.Err, csv.ErrFieldCount) {
				return n, fmt.Errorf("record %d on line %d: expected 4 fields, found %d",
					n+1, parseErr.Line, len(record))
			}
			return n, fmt.Errorf("failed to read record %d: %w", n+1, err)
		}

		values, err := parseRecord(record)
		if err != nil {
			line, _ := rdr.FieldPos(0)
			return n, fmt.Errorf("record %d on line %d: %w", n+1, line, err)
		}

		if err := w.WriteBox(n, c.Convert(values)); err != nil {
			return n, fmt.Errorf("failed to write record %d: %w", n+1, err)
		}
		n++
	}
}

// parseRecord parses the four fields i, j, k, l of a record.
func parseRecord(record []string) (values [4]float32, err error) {
	for i, field := range record {
		// Values beyond the float32 range parse as ±inf.
		v, err := strconv.ParseFloat(strings.TrimSpace(field), 32)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return values, fmt.Errorf("unexpected value %q: %v", field, err)
		}
		values[i] = float32(v)
	}
	return values, nil
}
