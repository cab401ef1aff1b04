package gtfsstatic

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeArchive(t *testing.T, members map[string]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "gtfs.zip")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	zw := zip.NewWriter(f)
	for name, body := range members {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(body))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())

	return path
}

func TestParseArchive(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,First St,40.1,-73.1\n" +
			"S2,Second St,40.2,-73.2\n",
		"trips.txt": "route_id,service_id,trip_id\n" +
			"A,WKD,T1\n",
		"stop_times.txt": "trip_id,arrival_time,departure_time,stop_id,stop_sequence\n" +
			"T1,06:00:00,06:00:00,S1,1\n" +
			"T1,06:05:00,06:05:00,S2,2\n",
	})

	feed, err := ParseArchive(path)
	require.NoError(t, err)

	require.Len(t, feed.Stops, 2)
	assert.Equal(t, "S1", feed.Stops[0].StopID)
	assert.Equal(t, "First St", feed.Stops[0].Name)
	assert.Equal(t, 40.1, feed.Stops[0].Lat)
	assert.Equal(t, -73.1, feed.Stops[0].Lon)

	require.Len(t, feed.Trips, 1)
	assert.Equal(t, "A", feed.Trips[0].RouteID)

	require.Len(t, feed.StopTimes, 2)
	assert.Equal(t, 2, feed.StopTimes[1].StopSequence)
}

func TestParseArchiveMissingTable(t *testing.T) {
	path := writeArchive(t, map[string]string{
		"stops.txt": "stop_id,stop_name,stop_lat,stop_lon\nS1,First St,40.1,-73.1\n",
	})

	feed, err := ParseArchive(path)
	require.NoError(t, err)

	assert.Len(t, feed.Stops, 1)
	assert.Empty(t, feed.Trips)
	assert.Empty(t, feed.StopTimes)
}

func TestParseArchiveCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gtfs.zip")
	require.NoError(t, os.WriteFile(path, []byte("not a zip archive"), 0o644))

	_, err := ParseArchive(path)
	assert.Error(t, err)
}

func TestParseStops(t *testing.T) {
	t.Run("name fallback chain", func(t *testing.T) {
		input := "stop_id,stop_name,stop_desc,stop_lat,stop_lon\n" +
			"S1,,Platform desc,40.1,-73.1\n" +
			"S2,,,40.2,-73.2\n"

		stops, err := parseStopsFromReader(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, stops, 2)
		assert.Equal(t, "Platform desc", stops[0].Name)
		assert.Equal(t, "S2", stops[1].Name)
	})

	t.Run("bad coordinates default to zero", func(t *testing.T) {
		input := "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,First St,garbage,-73.1\n"

		stops, err := parseStopsFromReader(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, stops, 1)
		assert.Equal(t, 0.0, stops[0].Lat)
		assert.Equal(t, -73.1, stops[0].Lon)
	})

	t.Run("missing stop_id skipped", func(t *testing.T) {
		input := "stop_id,stop_name,stop_lat,stop_lon\n" +
			",First St,40.1,-73.1\n" +
			"S2,Second St,40.2,-73.2\n"

		stops, err := parseStopsFromReader(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, stops, 1)
		assert.Equal(t, "S2", stops[0].StopID)
	})

	t.Run("malformed row skipped", func(t *testing.T) {
		input := "stop_id,stop_name,stop_lat,stop_lon\n" +
			"S1,First St\n" +
			"S2,Second St,40.2,-73.2\n"

		stops, err := parseStopsFromReader(strings.NewReader(input))
		require.NoError(t, err)
		require.Len(t, stops, 1)
		assert.Equal(t, "S2", stops[0].StopID)
	})
}

func TestParseTrips(t *testing.T) {
	input := "route_id,service_id,trip_id\n" +
		"A,WKD,T1\n" +
		",WKD,T2\n" +
		"B,WKD,\n"

	trips, err := parseTripsFromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, trips, 1)
	assert.Equal(t, "T1", trips[0].TripID)
	assert.Equal(t, "A", trips[0].RouteID)
}

func TestParseStopTimes(t *testing.T) {
	input := "trip_id,stop_id,stop_sequence\n" +
		"T1,S1,5\n" +
		"T1,S2,bogus\n" +
		"T1,,3\n"

	stopTimes, err := parseStopTimesFromReader(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, stopTimes, 2)
	assert.Equal(t, 5, stopTimes[0].StopSequence)
	// Unparseable sequence defaults to 0.
	assert.Equal(t, 0, stopTimes[1].StopSequence)
}
