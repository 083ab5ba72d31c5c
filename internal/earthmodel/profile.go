package earthmodel

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tremor-data/forward.report/internal/units"
)

// ParseProfile reads a plain-text velocity-depth profile and builds a
// layered model. Each non-comment line holds four columns:
//
//	depth_km  vp_km_s  vs_km_s  density_g_cm3
//
// Consecutive rows at increasing depth define a gradient layer between
// them; two rows at the same depth define a discrete interface. Lines
// starting with '#' and blank lines are ignored.
func ParseProfile(r io.Reader) (*LayeredModel, error) {
	type row struct {
		z float64
		m Material
	}
	var rows []row

	sc := bufio.NewScanner(r)
	lineno := 0
	for sc.Scan() {
		lineno++
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("earthmodel: line %d: want 4 columns, got %d", lineno, len(fields))
		}
		vals := make([]float64, 4)
		for i := 0; i < 4; i++ {
			v, err := strconv.ParseFloat(fields[i], 64)
			if err != nil {
				return nil, fmt.Errorf("earthmodel: line %d: %w", lineno, err)
			}
			vals[i] = v
		}
		rows = append(rows, row{
			z: units.KmToM(vals[0]),
			m: Material{
				Vp:  units.KmToM(vals[1]),
				Vs:  units.KmToM(vals[2]),
				Rho: vals[3] * 1000, // g/cm³ to kg/m³
			},
		})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("earthmodel: profile needs at least 2 rows, got %d", len(rows))
	}

	var layers []Layer
	for i := 1; i < len(rows); i++ {
		a, b := rows[i-1], rows[i]
		if b.z < a.z {
			return nil, fmt.Errorf("earthmodel: profile depths decrease at row %d", i+1)
		}
		if b.z == a.z {
			// interface: velocity jump with no thickness
			continue
		}
		layers = append(layers, Layer{
			ZTop: a.z,
			ZBot: b.z,
			MTop: a.m,
			MBot: b.m,
		})
	}
	return New(layers)
}

// LoadProfile reads a profile file from disk. See ParseProfile for the
// expected format.
func LoadProfile(path string) (*LayeredModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("earthmodel: open profile: %w", err)
	}
	defer f.Close()
	m, err := ParseProfile(f)
	if err != nil {
		return nil, fmt.Errorf("earthmodel: parse %s: %w", path, err)
	}
	return m, nil
}
