/*
# Module: gazetteer/gazetteer.go
Embedded city gazetteer used for timezone resolution.

## Linked Modules
(None - reads its own embedded table)

## Tags
geolocation, gazetteer, lookup

## Exports
Gazetteer, Default, New, Lookup

<!-- LinkedDoc RDF -->
@prefix code: <https://schema.codedoc.org/> .
<this> a code:Module ;
    code:name "gazetteer/gazetteer.go" ;
    code:description "Embedded city gazetteer used for timezone resolution" ;
    code:exports :Gazetteer, :Default, :New, :Lookup ;
    code:tags "geolocation", "gazetteer", "lookup" .
<!-- End LinkedDoc RDF -->
*/
package gazetteer

import (
	_ "embed"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"
)

//go:embed cities.csv
var citiesCSV string

// Coordinate is a gazetteer entry position in degrees
type Coordinate struct {
	Latitude  float64
	Longitude float64
}

// Gazetteer maps city names to coordinates. Safe for concurrent reads.
type Gazetteer struct {
	cities map[string]Coordinate
}

var (
	defaultOnce sync.Once
	defaultGaz  *Gazetteer
)

// Default returns the gazetteer built from the embedded city table.
func Default() *Gazetteer {
	defaultOnce.Do(func() {
		g, err := New(strings.NewReader(citiesCSV))
		if err != nil {
			panic(fmt.Sprintf("gazetteer: embedded table is invalid: %v", err))
		}
		defaultGaz = g
	})
	return defaultGaz
}

// New reads a CSV table with a name,latitude,longitude header.
func New(r io.Reader) (*Gazetteer, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 3

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read gazetteer table: %w", err)
	}

	g := &Gazetteer{cities: make(map[string]Coordinate, len(records))}
	for i, rec := range records {
		if i == 0 && strings.EqualFold(rec[0], "name") {
			continue
		}
		lat, err := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad latitude %q: %w", i+1, rec[1], err)
		}
		lon, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("line %d: bad longitude %q: %w", i+1, rec[2], err)
		}
		if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			return nil, fmt.Errorf("line %d: coordinate (%v, %v) out of range", i+1, lat, lon)
		}
		g.cities[normalize(rec[0])] = Coordinate{Latitude: lat, Longitude: lon}
	}
	return g, nil
}

// Lookup finds a city by its exact name. A qualified name such as
// "Paris, Texas" is a miss, never a match on its first part.
func (g *Gazetteer) Lookup(name string) (Coordinate, bool) {
	key := normalize(name)
	if key == "" {
		return Coordinate{}, false
	}
	c, ok := g.cities[key]
	return c, ok
}

// Len returns the number of entries.
func (g *Gazetteer) Len() int {
	return len(g.cities)
}

func normalize(name string) string {
	name = strings.ToLower(strings.Join(strings.Fields(name), " "))
	return strings.ReplaceAll(name, ".", "")
}
