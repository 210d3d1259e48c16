package batch_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip_planner/internal/batch"
	"trip_planner/internal/domain"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "trips.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_OK(t *testing.T) {
	p := writeFile(t, `
trips:
  - origin: BOM
    destination: DEL
    departure_date: "2026-09-01"
    return_date: "2026-09-06"
    days: 5
    theme: family
    budget: standard
    activities: museums and food
  - origin: BOM
    destination: GOI
    departure_date: "2026-10-01"
    return_date: "2026-10-04"
    days: 3
    currency: INR
`)
	trips, err := batch.Load(p)
	require.NoError(t, err)
	require.Len(t, trips, 2)
	assert.Equal(t, "DEL", trips[0].Destination)
	assert.Equal(t, domain.ThemeFamily, trips[0].Theme)
	assert.Equal(t, 3, trips[1].Days)
	assert.Equal(t, "INR", trips[1].Currency)
}

func TestLoad_InvalidTripRejectsFile(t *testing.T) {
	p := writeFile(t, `
trips:
  - origin: BOM
    destination: DEL
    departure_date: "2026-09-01"
    return_date: "2026-09-06"
    days: 5
  - origin: BOM
    days: 2
`)
	_, err := batch.Load(p)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingInput)
	assert.Contains(t, err.Error(), "trip 2")
}

func TestLoad_EmptyAndMissing(t *testing.T) {
	p := writeFile(t, "trips: []\n")
	_, err := batch.Load(p)
	assert.Error(t, err)

	_, err = batch.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_NotYAML(t *testing.T) {
	p := writeFile(t, "{not: [valid")
	_, err := batch.Load(p)
	assert.Error(t, err)
}
