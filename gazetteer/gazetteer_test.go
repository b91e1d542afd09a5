package gazetteer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLookup(t *testing.T) {
	g := Default()
	require.Greater(t, g.Len(), 100)

	tests := []struct {
		name   string
		input  string
		lat    float64
		lon    float64
		wantOK bool
	}{
		{"exact", "Paris", 48.8566, 2.3522, true},
		{"case and spaces", "  new   YORK ", 40.7128, -74.0060, true},
		{"qualified name misses", "Tokyo, Japan", 0, 0, false},
		{"homonym in another country misses", "Paris, Texas", 0, 0, false},
		{"southern hemisphere", "Sydney", -33.8688, 151.2093, true},
		{"unknown", "Atlantis", 0, 0, false},
		{"empty", "   ", 0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := g.Lookup(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.lat, c.Latitude, 1e-9)
				assert.InDelta(t, tt.lon, c.Longitude, 1e-9)
			}
		})
	}
}

func TestNewRejectsBadRows(t *testing.T) {
	_, err := New(strings.NewReader("name,latitude,longitude\nNowhere,abc,1\n"))
	assert.Error(t, err)

	_, err = New(strings.NewReader("name,latitude,longitude\nNowhere,91,1\n"))
	assert.Error(t, err)

	_, err = New(strings.NewReader("Nowhere,1\n"))
	assert.Error(t, err)
}

func TestNewWithoutHeader(t *testing.T) {
	g, err := New(strings.NewReader("St. Louis,38.6270,-90.1994\n"))
	require.NoError(t, err)

	c, ok := g.Lookup("St Louis")
	require.True(t, ok)
	assert.InDelta(t, 38.6270, c.Latitude, 1e-9)
}
