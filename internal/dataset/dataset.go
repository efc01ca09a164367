package dataset

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/suykerbuyk/fitcalc/internal/calc"
	"github.com/suykerbuyk/fitcalc/internal/regression"
)

// DefaultPoints matches the sample count used for generated curves.
const DefaultPoints = 50

// StdinTimeout bounds how long Load("-") waits for piped input.
var StdinTimeout = 2 * time.Second

// Load reads samples from path. ".json" files are parsed as JSON, anything
// else as CSV. A path of "-" reads stdin and sniffs the format.
func Load(path string) ([]regression.Sample, error) {
	if path == "-" {
		data, err := readWithTimeout(os.Stdin, StdinTimeout)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return Parse(data)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return ParseJSON(f)
	}
	return ParseCSV(f)
}

// Parse sniffs data: a leading '[' means JSON, otherwise CSV.
func Parse(data []byte) ([]regression.Sample, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, errors.New("empty dataset")
	}
	if trimmed[0] == '[' {
		return ParseJSON(bytes.NewReader(trimmed))
	}
	return ParseCSV(bytes.NewReader(trimmed))
}

// ParseCSV reads two numeric columns (x, y). A first row whose fields are
// both non-numeric is treated as a header and skipped.
func ParseCSV(r io.Reader) ([]regression.Sample, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var samples []regression.Sample
	first := true
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := cr.FieldPos(0)

		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: want 2 columns, got %d", line, len(rec))
		}
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if first && errX != nil && errY != nil {
			first = false
			continue // header
		}
		first = false
		if errX != nil || errY != nil {
			return nil, fmt.Errorf("%w: line %d: non-numeric sample %q", calc.ErrInvalidInput, line, strings.Join(rec, ","))
		}
		samples = append(samples, regression.Sample{X: x, Y: y})
	}

	if len(samples) == 0 {
		return nil, errors.New("no samples in csv")
	}
	return samples, nil
}

// jsonSample distinguishes a missing coordinate from a zero one.
type jsonSample struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

// ParseJSON reads a single array of {"x": .., "y": ..} objects. Every
// element must carry both keys, and nothing may follow the array.
func ParseJSON(r io.Reader) ([]regression.Sample, error) {
	dec := json.NewDecoder(r)
	var raw []jsonSample
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after sample array", calc.ErrInvalidInput)
	}
	if len(raw) == 0 {
		return nil, errors.New("no samples in json")
	}

	samples := make([]regression.Sample, len(raw))
	for i, s := range raw {
		switch {
		case s.X == nil && s.Y == nil:
			return nil, fmt.Errorf("%w: sample %d: missing \"x\" and \"y\"", calc.ErrInvalidInput, i)
		case s.X == nil:
			return nil, fmt.Errorf("%w: sample %d: missing \"x\"", calc.ErrInvalidInput, i)
		case s.Y == nil:
			return nil, fmt.Errorf("%w: sample %d: missing \"y\"", calc.ErrInvalidInput, i)
		}
		samples[i] = regression.Sample{X: *s.X, Y: *s.Y}
	}
	return samples, nil
}

// WriteCSV writes samples with an "x,y" header.
func WriteCSV(w io.Writer, samples []regression.Sample) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"x", "y"}); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			strconv.FormatFloat(s.X, 'g', -1, 64),
			strconv.FormatFloat(s.Y, 'g', -1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Generate samples fn ("sin" or "cos") at n evenly spaced points over [0, 10].
func Generate(fn string, n int) ([]regression.Sample, error) {
	var f func(float64) float64
	switch strings.ToLower(fn) {
	case "sin":
		f = math.Sin
	case "cos":
		f = math.Cos
	default:
		return nil, fmt.Errorf("unknown function %q (use sin or cos)", fn)
	}
	if n <= 0 {
		n = DefaultPoints
	}

	samples := make([]regression.Sample, n)
	for i := range samples {
		x := 0.0
		if n > 1 {
			x = 10 * float64(i) / float64(n-1)
		}
		samples[i] = regression.Sample{X: x, Y: f(x)}
	}
	return samples, nil
}

func readWithTimeout(r io.Reader, timeout time.Duration) ([]byte, error) {
	done := make(chan []byte, 1)
	errCh := make(chan error, 1)

	go func() {
		data, err := io.ReadAll(r)
		if err != nil {
			errCh <- err
			return
		}
		done <- data
	}()

	select {
	case data := <-done:
		return data, nil
	case err := <-errCh:
		return nil, err
	case <-time.After(timeout):
		return nil, errors.New("timed out waiting for input")
	}
}
