package gtfsstatic

import (
	"sort"

	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

// Topology is the derived geographic product of the static schedule:
// one representative polyline per route and the full stop catalog with
// the routes serving each stop.
type Topology struct {
	Routes []models.RoutePolyline `json:"routes"`
	Stops  []models.StopEntry     `json:"stops"`
}

// EmptyTopology is what degraded static processing serves: no routes,
// no stops, but still a well-formed value.
func EmptyTopology() *Topology {
	return &Topology{
		Routes: []models.RoutePolyline{},
		Stops:  []models.StopEntry{},
	}
}

type stopRecord struct {
	name   string
	lat    float64
	lon    float64
	routes map[string]struct{}
}

// BuildTopology joins the stops, trips and stop_times tables into the
// per-route polylines and the annotated stop catalog. For each route
// the single trip with the most stops stands in for the route's path;
// equal stop counts are broken by the lexicographically smallest trip
// id so the result doesn't depend on map iteration order.
func BuildTopology(feed *StaticFeed) *Topology {
	if feed == nil {
		return EmptyTopology()
	}

	stops := make(map[string]*stopRecord, len(feed.Stops))
	for _, row := range feed.Stops {
		stops[row.StopID] = &stopRecord{
			name:   row.Name,
			lat:    row.Lat,
			lon:    row.Lon,
			routes: make(map[string]struct{}),
		}
	}

	tripToRoute := make(map[string]string, len(feed.Trips))
	for _, row := range feed.Trips {
		tripToRoute[row.TripID] = row.RouteID
	}

	// Ordered stop sequence per trip.
	tripSeqs := make(map[string][]models.StopTimeRow)
	for _, row := range feed.StopTimes {
		tripSeqs[row.TripID] = append(tripSeqs[row.TripID], row)
	}
	for tripID := range tripSeqs {
		seq := tripSeqs[tripID]
		sort.SliceStable(seq, func(i, j int) bool {
			return seq[i].StopSequence < seq[j].StopSequence
		})
	}

	// Representative trip per route: most stops, ties to the smallest
	// trip id.
	type candidate struct {
		tripID  string
		stopIDs []string
	}
	best := make(map[string]candidate)
	for tripID, seq := range tripSeqs {
		routeID, ok := tripToRoute[tripID]
		if !ok {
			continue
		}

		stopIDs := make([]string, 0, len(seq))
		for _, st := range seq {
			stopIDs = append(stopIDs, st.StopID)
		}

		cur, exists := best[routeID]
		if !exists ||
			len(stopIDs) > len(cur.stopIDs) ||
			(len(stopIDs) == len(cur.stopIDs) && tripID < cur.tripID) {
			best[routeID] = candidate{tripID: tripID, stopIDs: stopIDs}
		}
	}

	routeIDs := make([]string, 0, len(best))
	for routeID := range best {
		routeIDs = append(routeIDs, routeID)
	}
	sort.Strings(routeIDs)

	routes := make([]models.RoutePolyline, 0, len(routeIDs))
	for _, routeID := range routeIDs {
		coords := [][2]float64{}
		prev := ""
		for _, stopID := range best[routeID].stopIDs {
			// Only directly adjacent repeats are dropped; a stop may
			// legitimately recur later in the sequence.
			if stopID == prev {
				continue
			}
			prev = stopID

			rec, ok := stops[stopID]
			if !ok {
				continue
			}
			coords = append(coords, [2]float64{rec.lat, rec.lon})
			rec.routes[routeID] = struct{}{}
		}

		routes = append(routes, models.RoutePolyline{
			ID:          routeID,
			Name:        routeID,
			Coordinates: coords,
		})
	}

	stopIDs := make([]string, 0, len(stops))
	for stopID := range stops {
		stopIDs = append(stopIDs, stopID)
	}
	sort.Strings(stopIDs)

	stopList := make([]models.StopEntry, 0, len(stopIDs))
	for _, stopID := range stopIDs {
		rec := stops[stopID]

		lines := make([]string, 0, len(rec.routes))
		for routeID := range rec.routes {
			lines = append(lines, routeID)
		}
		sort.Strings(lines)

		stopList = append(stopList, models.StopEntry{
			ID:    stopID,
			Name:  rec.name,
			Lat:   rec.lat,
			Lon:   rec.lon,
			Lines: lines,
		})
	}

	return &Topology{Routes: routes, Stops: stopList}
}
