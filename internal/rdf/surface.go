// Package rdf loads radial distribution function samples taken at several
// temperatures and arranges them as a distance × temperature surface.
package rdf

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/physlab/internal/storage"
)

const (
	DefaultDistanceColumn    = "Distance"
	DefaultTemperatureColumn = "Temperature"
	DefaultValueColumn       = "RDF"
)

type Columns struct {
	Distance    string
	Temperature string
	Value       string
}

func DefaultColumns() Columns {
	return Columns{
		Distance:    DefaultDistanceColumn,
		Temperature: DefaultTemperatureColumn,
		Value:       DefaultValueColumn,
	}
}

type Point struct {
	Distance    float64
	Temperature float64
	Value       float64
}

// Surface holds g(r, T) on the grid of distinct distances and temperatures.
// Values[i][j] is the sample at Temperatures[i], Distances[j]; cells with no
// sample are NaN.
type Surface struct {
	Columns      Columns
	Points       []Point
	Distances    []float64
	Temperatures []float64
	Values       [][]float64
}

func Load(path string, cols Columns) (*Surface, error) {
	tbl, err := storage.ReadTableFile(path)
	if err != nil {
		return nil, err
	}
	return FromTable(tbl, cols)
}

func FromTable(tbl *storage.Table, cols Columns) (*Surface, error) {
	d, err := tbl.Column(cols.Distance)
	if err != nil {
		return nil, err
	}
	temp, err := tbl.Column(cols.Temperature)
	if err != nil {
		return nil, err
	}
	val, err := tbl.Column(cols.Value)
	if err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, fmt.Errorf("rdf: no samples")
	}

	pts := make([]Point, len(d))
	for i := range d {
		// line 1 is the header
		if !finite(d[i]) {
			return nil, fmt.Errorf("rdf: line %d: %s %g is not finite", i+2, cols.Distance, d[i])
		}
		if !finite(temp[i]) {
			return nil, fmt.Errorf("rdf: line %d: %s %g is not finite", i+2, cols.Temperature, temp[i])
		}
		pts[i] = Point{Distance: d[i], Temperature: temp[i], Value: val[i]}
	}
	return Build(cols, pts), nil
}

// Build arranges points on the grid; a repeated (distance, temperature)
// pair keeps the last value. Points with a non-finite distance or
// temperature are left off the grid.
func Build(cols Columns, pts []Point) *Surface {
	s := &Surface{
		Columns:      cols,
		Points:       pts,
		Distances:    distinct(pts, func(p Point) float64 { return p.Distance }),
		Temperatures: distinct(pts, func(p Point) float64 { return p.Temperature }),
	}

	s.Values = make([][]float64, len(s.Temperatures))
	for i := range s.Values {
		row := make([]float64, len(s.Distances))
		for j := range row {
			row[j] = math.NaN()
		}
		s.Values[i] = row
	}

	for _, p := range pts {
		if !finite(p.Distance) || !finite(p.Temperature) {
			continue
		}
		i := sort.SearchFloat64s(s.Temperatures, p.Temperature)
		j := sort.SearchFloat64s(s.Distances, p.Distance)
		s.Values[i][j] = p.Value
	}
	return s
}

// Series returns g(r) at temperature index i with holes filled by linear
// interpolation between neighbours, for plotting.
func (s *Surface) Series(i int) []float64 {
	row := s.Values[i]
	out := make([]float64, len(row))
	copy(out, row)

	last := -1
	for j, v := range out {
		if math.IsNaN(v) {
			continue
		}
		if last >= 0 && j-last > 1 {
			for k := last + 1; k < j; k++ {
				frac := float64(k-last) / float64(j-last)
				out[k] = out[last] + frac*(v-out[last])
			}
		} else if last < 0 {
			for k := 0; k < j; k++ {
				out[k] = v
			}
		}
		last = j
	}
	if last < 0 {
		for k := range out {
			out[k] = 0
		}
		return out
	}
	for k := last + 1; k < len(out); k++ {
		out[k] = out[last]
	}
	return out
}

// Peak returns the distance and value of the first-shell maximum at
// temperature index i.
func (s *Surface) Peak(i int) (distance, value float64) {
	value = math.Inf(-1)
	for j, v := range s.Values[i] {
		if !math.IsNaN(v) && v > value {
			distance, value = s.Distances[j], v
		}
	}
	return distance, value
}

func (s *Surface) Missing() int {
	n := 0
	for _, row := range s.Values {
		for _, v := range row {
			if math.IsNaN(v) {
				n++
			}
		}
	}
	return n
}

func distinct(pts []Point, key func(Point) float64) []float64 {
	seen := make(map[float64]struct{}, len(pts))
	out := make([]float64, 0)
	for _, p := range pts {
		k := key(p)
		if !finite(k) {
			continue
		}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}
	sort.Float64s(out)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
