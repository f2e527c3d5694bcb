package flowshop

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Encoding names an instance file format.
type Encoding string

// Supported encodings.
const (
	// EncodingText is "jobs machines" followed by one row of machine times per job.
	EncodingText Encoding = "text"
	// EncodingYAML mirrors the Instance fields.
	EncodingYAML Encoding = "yaml"
)

// EncodingFor picks the encoding from a file extension.
func EncodingFor(path string) Encoding {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return EncodingYAML
	default:
		return EncodingText
	}
}

// Parse reads a text-encoded instance.
func Parse(r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Split(bufio.ScanWords)

	next := func(what string) (int, error) {
		if !sc.Scan() {
			if err := sc.Err(); err != nil {
				return 0, fmt.Errorf("read %s: %w", what, err)
			}
			return 0, fmt.Errorf("%w: unexpected end of input reading %s", ErrInvalidInstance, what)
		}
		v, err := strconv.Atoi(sc.Text())
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %w", ErrInvalidInstance, what, err)
		}
		return v, nil
	}

	jobs, err := next("jobs")
	if err != nil {
		return nil, err
	}
	machines, err := next("machines")
	if err != nil {
		return nil, err
	}
	if jobs <= 0 || machines <= 0 {
		return nil, fmt.Errorf("%w: jobs and machines must be > 0 (got %dx%d)", ErrInvalidInstance, jobs, machines)
	}
	pt := make([]int, jobs*machines)
	for i := range pt {
		if pt[i], err = next(fmt.Sprintf("time of job %d machine %d", i/machines, i%machines)); err != nil {
			return nil, err
		}
	}
	return NewInstance(jobs, machines, pt)
}

// Decode reads an instance in the given encoding.
func Decode(r io.Reader, enc Encoding) (*Instance, error) {
	if enc != EncodingYAML {
		return Parse(r)
	}
	var inst Instance
	if err := yaml.NewDecoder(r).Decode(&inst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidInstance)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidInstance, err)
	}
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return &inst, nil
}

// Encode writes inst in the given encoding.
func Encode(w io.Writer, inst *Instance, enc Encoding) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	if enc == EncodingYAML {
		e := yaml.NewEncoder(w)
		if err := e.Encode(inst); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return e.Close()
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d\n", inst.Jobs, inst.Machines)
	for j := 0; j < inst.Jobs; j++ {
		row := inst.ProcTimes[j*inst.Machines : (j+1)*inst.Machines]
		for m, v := range row {
			if m > 0 {
				_ = bw.WriteByte(' ')
			}
			bw.WriteString(strconv.Itoa(v))
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

// ReadFile loads an instance, choosing the encoding from the extension.
func ReadFile(path string) (*Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open instance: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Decode(f, EncodingFor(path))
}

// WriteFile stores inst at path, choosing the encoding from the extension.
func WriteFile(path string, inst *Instance) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create instance file: %w", err)
	}
	if err := Encode(f, inst, EncodingFor(path)); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
