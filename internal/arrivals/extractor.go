package arrivals

import (
	"sort"
	"strings"
	"time"

	"github.com/Miscodings/nyc-transit-hub/internal/feed"
	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

// maxArrivals caps the number of arrivals returned per station.
const maxArrivals = 10

// Extract collects upcoming arrivals for a station across every feed
// result. Station ids are base ids; the feed's stop ids append a
// direction suffix, so matching is by prefix. Unavailable feeds
// contribute nothing. The result is sorted by minutes ascending and
// capped at 10 entries.
func Extract(results []feed.Result, stationID string, now time.Time) []models.Arrival {
	nowUnix := now.Unix()
	arrivals := []models.Arrival{}

	for _, res := range results {
		if !res.Available() {
			continue
		}

		for _, entity := range res.Feed.Entity {
			tu := entity.GetTripUpdate()
			if tu == nil {
				continue
			}
			line := tu.GetTrip().GetRouteId()

			for _, stu := range tu.GetStopTimeUpdate() {
				stopID := stu.GetStopId()
				if !strings.HasPrefix(stopID, stationID) {
					continue
				}
				if stu.Arrival == nil || stu.Arrival.Time == nil {
					continue
				}

				minutes := (stu.Arrival.GetTime() - nowUnix) / 60
				if minutes < 0 {
					minutes = 0
				}

				direction := "Downtown"
				if strings.HasSuffix(stopID, "N") {
					direction = "Uptown"
				}

				arrivals = append(arrivals, models.Arrival{
					Line:      line,
					Direction: direction,
					Minutes:   int(minutes),
				})
			}
		}
	}

	sort.SliceStable(arrivals, func(i, j int) bool {
		return arrivals[i].Minutes < arrivals[j].Minutes
	})

	if len(arrivals) > maxArrivals {
		arrivals = arrivals[:maxArrivals]
	}
	return arrivals
}
