package vle

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/daryltucker/mccabe-thiele/internal/model"
	"gopkg.in/yaml.v3"
)

// DefaultSamples is the point count of generated tables.
const DefaultSamples = 101

// ErrInvalidAlpha marks a relative volatility that cannot describe a separation.
var ErrInvalidAlpha = errors.New("relative volatility must be greater than 1")

// methanolWater is methanol-water at 1 atm, x and y as methanol mole fractions.
var methanolWater = []model.Point{
	{X: 0.0, Y: 0.0},
	{X: 0.012, Y: 0.068},
	{X: 0.02, Y: 0.121},
	{X: 0.026, Y: 0.159},
	{X: 0.033, Y: 0.188},
	{X: 0.036, Y: 0.215},
	{X: 0.053, Y: 0.275},
	{X: 0.076, Y: 0.366},
	{X: 0.1, Y: 0.438},
	{X: 0.12, Y: 0.485},
	{X: 0.14, Y: 0.522},
	{X: 0.15, Y: 0.541},
	{X: 0.2, Y: 0.605},
	{X: 0.3, Y: 0.686},
	{X: 0.4, Y: 0.739},
	{X: 0.5, Y: 0.779},
	{X: 0.6, Y: 0.825},
	{X: 0.7, Y: 0.87},
	{X: 0.8, Y: 0.915},
	{X: 0.9, Y: 0.958},
	{X: 0.95, Y: 0.979},
	{X: 1.0, Y: 1.0},
}

// MethanolWater returns a copy of the bundled default table.
func MethanolWater() []model.Point {
	cp := make([]model.Point, len(methanolWater))
	copy(cp, methanolWater)
	return cp
}

// DefaultCurve builds the bundled methanol-water curve.
func DefaultCurve() *Curve {
	c, err := NewCurve(methanolWater)
	if err != nil {
		panic(err) // bundled table is known good
	}
	return c
}

// IdealBinary generates y = αx / (1 + (α-1)x) at samples points over [0,1].
func IdealBinary(alpha float64, samples int) ([]model.Point, error) {
	if !finite(alpha) || alpha <= 1 {
		return nil, fmt.Errorf("%w (alpha=%v)", ErrInvalidAlpha, alpha)
	}
	if samples < 2 {
		samples = DefaultSamples
	}
	pts := make([]model.Point, samples)
	for i := range pts {
		x := float64(i) / float64(samples-1)
		pts[i] = model.Point{X: x, Y: alpha * x / (1 + (alpha-1)*x)}
	}
	return pts, nil
}

// LoadFile reads a table from a .csv, .yaml/.yml or .json file and sorts it by x.
//
// CSV files hold "x,y" rows; a non-numeric first row is treated as a header.
// YAML and JSON files hold either a bare list of {x, y} or an object with a
// "points" (or "vle_points") list.
func LoadFile(path string) ([]model.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var pts []model.Point
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		pts, err = ReadCSV(f)
	case ".yaml", ".yml":
		pts, err = readStructured(f, yaml.Unmarshal)
	case ".json":
		pts, err = readStructured(f, json.Unmarshal)
	default:
		return nil, fmt.Errorf("unsupported table format %q (want .csv, .yaml, .yml or .json)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse table %s: %w", path, err)
	}
	SortByX(pts)
	return pts, nil
}

// ReadCSV parses "x,y" records.
func ReadCSV(r io.Reader) ([]model.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}

	var pts []model.Point
	for i, rec := range records {
		x, errX := strconv.ParseFloat(strings.TrimSpace(rec[0]), 64)
		y, errY := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if errX != nil || errY != nil {
			if i == 0 {
				continue // header
			}
			return nil, fmt.Errorf("row %d: %q is not a numeric x,y pair", i+1, strings.Join(rec, ","))
		}
		pts = append(pts, model.Point{X: x, Y: y})
	}
	return pts, nil
}

type tableDoc struct {
	Points    []model.Point `json:"points" yaml:"points"`
	VLEPoints []model.Point `json:"vle_points" yaml:"vle_points"`
}

func readStructured(r io.Reader, unmarshal func([]byte, any) error) ([]model.Point, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return decodePoints(data, unmarshal)
}

// decodePoints accepts a bare point list or a document wrapping one.
func decodePoints(data []byte, unmarshal func([]byte, any) error) ([]model.Point, error) {
	var list []model.Point
	if err := unmarshal(data, &list); err == nil {
		return list, nil
	}
	var doc tableDoc
	if err := unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if len(doc.Points) > 0 {
		return doc.Points, nil
	}
	return doc.VLEPoints, nil
}

// SortByX orders points by liquid fraction in place.
func SortByX(pts []model.Point) {
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].X < pts[j].X })
}
