package gtfsstatic

import (
	"archive/zip"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"

	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

// StaticFeed holds the three archive tables the topology build joins.
type StaticFeed struct {
	Stops     []models.StopRow
	Trips     []models.TripRow
	StopTimes []models.StopTimeRow
}

// ParseArchive reads stops.txt, trips.txt and stop_times.txt out of the
// zip at zipPath. Tables missing from the archive yield empty row sets;
// malformed rows are skipped. A corrupt archive or an unreadable member
// is an error, and callers must degrade to empty results.
func ParseArchive(zipPath string) (*StaticFeed, error) {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}
	defer reader.Close()

	feed := &StaticFeed{}

	if err := readTable(&reader.Reader, "stops.txt", func(r io.Reader) error {
		rows, err := parseStopsFromReader(r)
		feed.Stops = rows
		return err
	}); err != nil {
		return nil, err
	}

	if err := readTable(&reader.Reader, "trips.txt", func(r io.Reader) error {
		rows, err := parseTripsFromReader(r)
		feed.Trips = rows
		return err
	}); err != nil {
		return nil, err
	}

	if err := readTable(&reader.Reader, "stop_times.txt", func(r io.Reader) error {
		rows, err := parseStopTimesFromReader(r)
		feed.StopTimes = rows
		return err
	}); err != nil {
		return nil, err
	}

	log.Printf("Parsed GTFS static: %d stops, %d trips, %d stop_times",
		len(feed.Stops), len(feed.Trips), len(feed.StopTimes))

	return feed, nil
}

// readTable locates name in the archive and hands its contents to
// parse. A missing member is not an error.
func readTable(reader *zip.Reader, name string, parse func(io.Reader) error) error {
	for _, file := range reader.File {
		if file.Name != name {
			continue
		}
		rc, err := file.Open()
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", name, err)
		}
		defer rc.Close()
		if err := parse(rc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", name, err)
		}
		return nil
	}

	log.Printf("Warning: %s not present in archive", name)
	return nil
}

func parseStopsFromReader(reader io.Reader) ([]models.StopRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var stops []models.StopRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed stop row: %v", err)
			continue
		}

		stopID := getField(record, colMap, "stop_id")
		if stopID == "" {
			continue
		}

		name := getField(record, colMap, "stop_name")
		if name == "" {
			name = getField(record, colMap, "stop_desc")
		}
		if name == "" {
			name = stopID
		}

		// Unparseable coordinates fall back to (0, 0) rather than
		// dropping the stop.
		lat, err := strconv.ParseFloat(getField(record, colMap, "stop_lat"), 64)
		if err != nil {
			lat = 0.0
		}
		lon, err := strconv.ParseFloat(getField(record, colMap, "stop_lon"), 64)
		if err != nil {
			lon = 0.0
		}

		stops = append(stops, models.StopRow{
			StopID: stopID,
			Name:   name,
			Lat:    lat,
			Lon:    lon,
		})
	}

	return stops, nil
}

func parseTripsFromReader(reader io.Reader) ([]models.TripRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var trips []models.TripRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed trip row: %v", err)
			continue
		}

		tripID := getField(record, colMap, "trip_id")
		routeID := getField(record, colMap, "route_id")
		if tripID == "" || routeID == "" {
			continue
		}

		trips = append(trips, models.TripRow{
			TripID:  tripID,
			RouteID: routeID,
		})
	}

	return trips, nil
}

func parseStopTimesFromReader(reader io.Reader) ([]models.StopTimeRow, error) {
	csvReader := csv.NewReader(reader)
	csvReader.TrimLeadingSpace = true

	header, err := csvReader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	colMap := makeColumnMap(header)
	var stopTimes []models.StopTimeRow

	for {
		record, err := csvReader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			log.Printf("Warning: skipping malformed stop_time row: %v", err)
			continue
		}

		tripID := getField(record, colMap, "trip_id")
		stopID := getField(record, colMap, "stop_id")
		if tripID == "" || stopID == "" {
			continue
		}

		// Missing or unparseable sequence defaults to 0.
		sequence, _ := strconv.Atoi(getField(record, colMap, "stop_sequence"))

		stopTimes = append(stopTimes, models.StopTimeRow{
			TripID:       tripID,
			StopID:       stopID,
			StopSequence: sequence,
		})
	}

	return stopTimes, nil
}

func makeColumnMap(header []string) map[string]int {
	colMap := make(map[string]int)
	for i, col := range header {
		colMap[strings.TrimSpace(col)] = i
	}
	return colMap
}

func getField(record []string, colMap map[string]int, fieldName string) string {
	if idx, ok := colMap[fieldName]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}
