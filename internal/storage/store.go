package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/san-kum/physlab/internal/dynamo"
)

var trajectoryHeader = []string{"time", "position", "velocity", "energy"}

type RunMetadata struct {
	Integrator      string    `json:"integrator"`
	Timestamp       time.Time `json:"timestamp"`
	Mass            float64   `json:"mass"`
	SpringConstant  float64   `json:"spring_constant"`
	NominalDt       float64   `json:"nominal_dt"`
	MaxDisplacement float64   `json:"max_displacement"`
	Duration        float64   `json:"duration"`
	Samples         int       `json:"samples"`
	Refined         int       `json:"refined"`
	EnergyDrift     float64   `json:"energy_drift"`
}

type EventRecord struct {
	Step  int     `json:"step"`
	Time  float64 `json:"time"`
	Kind  string  `json:"kind"`
	Roots []any   `json:"roots"`
}

type ExportData struct {
	Metadata   RunMetadata   `json:"metadata"`
	Times      []float64     `json:"times"`
	Positions  []float64     `json:"positions"`
	Velocities []float64     `json:"velocities"`
	Energy     []float64     `json:"energy,omitempty"`
	Events     []EventRecord `json:"events"`
}

// WriteCSV writes one row per sample. energy may be nil.
func WriteCSV(w io.Writer, tr *dynamo.Trajectory, energy []float64) error {
	cw := csv.NewWriter(w)

	header := trajectoryHeader[:3]
	if energy != nil {
		header = trajectoryHeader
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range tr.Times {
		row := []string{
			formatFloat(tr.Times[i]),
			formatFloat(tr.Positions[i]),
			formatFloat(tr.Velocities[i]),
		}
		if energy != nil && i < len(energy) {
			row = append(row, formatFloat(energy[i]))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

func WriteJSON(w io.Writer, meta RunMetadata, tr *dynamo.Trajectory, energy []float64) error {
	data := ExportData{
		Metadata:   meta,
		Times:      tr.Times,
		Positions:  tr.Positions,
		Velocities: tr.Velocities,
		Energy:     energy,
		Events:     make([]EventRecord, 0, len(tr.Events)),
	}
	for _, ev := range tr.Events {
		data.Events = append(data.Events, EventRecord{
			Step:  ev.Step,
			Time:  ev.Time,
			Kind:  ev.Kind.String(),
			Roots: []any{jsonFloat(ev.Roots[0]), jsonFloat(ev.Roots[1])},
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// Export writes the trajectory to path; the extension selects csv or json.
func Export(path string, meta RunMetadata, tr *dynamo.Trajectory, energy []float64) error {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".json" {
		return fmt.Errorf("unsupported export format %q (want .csv or .json)", ext)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	if ext == ".csv" {
		err = WriteCSV(file, tr, energy)
	} else {
		err = WriteJSON(file, meta, tr, energy)
	}
	if err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	return file.Close()
}

// LoadTrajectory reads a CSV written by WriteCSV back into a trajectory.
func LoadTrajectory(r io.Reader) (*dynamo.Trajectory, error) {
	tbl, err := ReadTable(r)
	if err != nil {
		return nil, err
	}

	cols := make([][]float64, 3)
	for i, name := range trajectoryHeader[:3] {
		if cols[i], err = tbl.Column(name); err != nil {
			return nil, err
		}
	}

	tr := dynamo.NewTrajectory(len(tbl.Rows))
	for i := range tbl.Rows {
		if i == 0 {
			tr.Start(cols[1][i], cols[2][i])
			continue
		}
		tr.Append(cols[0][i]-cols[0][i-1], cols[1][i], cols[2][i])
	}
	// rebuild times verbatim rather than from summed steps
	copy(tr.Times, cols[0])
	return tr, tr.Validate()
}

// Table is a CSV file with a header row and numeric cells.
type Table struct {
	Header []string
	Rows   [][]float64
	index  map[string]int
}

var ErrEmptyTable = errors.New("storage: csv has no header")

func ReadTable(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrEmptyTable
	}

	tbl := &Table{
		Header: records[0],
		Rows:   make([][]float64, 0, len(records)-1),
		index:  make(map[string]int, len(records[0])),
	}
	for i, name := range tbl.Header {
		tbl.index[strings.TrimSpace(name)] = i
	}

	for line, record := range records[1:] {
		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}
		if len(record) != len(tbl.Header) {
			return nil, fmt.Errorf("line %d: %d fields, header has %d", line+2, len(record), len(tbl.Header))
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d column %q: %w", line+2, tbl.Header[j], err)
			}
			row[j] = v
		}
		tbl.Rows = append(tbl.Rows, row)
	}

	return tbl, nil
}

func ReadTableFile(path string) (*Table, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return ReadTable(file)
}

func (t *Table) Column(name string) ([]float64, error) {
	idx, ok := t.index[name]
	if !ok {
		return nil, fmt.Errorf("column %q not found (have %s)", name, strings.Join(t.Header, ", "))
	}
	col := make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		col[i] = row[idx]
	}
	return col, nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// jsonFloat maps NaN, which encoding/json rejects, to null.
func jsonFloat(v float64) any {
	if v != v {
		return nil
	}
	return v
}
