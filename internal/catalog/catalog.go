package catalog

import "github.com/Miscodings/nyc-transit-hub/internal/models"

// subwayRoutes is the fixed set of 24 routes the service status report
// always covers. Routes absent from the alerts feed still get a row.
var subwayRoutes = []models.RouteInfo{
	{ID: "1", Name: "1 Line", Type: "subway"},
	{ID: "2", Name: "2 Line", Type: "subway"},
	{ID: "3", Name: "3 Line", Type: "subway"},
	{ID: "4", Name: "4 Line", Type: "subway"},
	{ID: "5", Name: "5 Line", Type: "subway"},
	{ID: "6", Name: "6 Line", Type: "subway"},
	{ID: "7", Name: "7 Line", Type: "subway"},
	{ID: "A", Name: "A Line", Type: "subway"},
	{ID: "B", Name: "B Line", Type: "subway"},
	{ID: "C", Name: "C Line", Type: "subway"},
	{ID: "D", Name: "D Line", Type: "subway"},
	{ID: "E", Name: "E Line", Type: "subway"},
	{ID: "F", Name: "F Line", Type: "subway"},
	{ID: "G", Name: "G Line", Type: "subway"},
	{ID: "J", Name: "J Line", Type: "subway"},
	{ID: "L", Name: "L Line", Type: "subway"},
	{ID: "M", Name: "M Line", Type: "subway"},
	{ID: "N", Name: "N Line", Type: "subway"},
	{ID: "Q", Name: "Q Line", Type: "subway"},
	{ID: "R", Name: "R Line", Type: "subway"},
	{ID: "W", Name: "W Line", Type: "subway"},
	{ID: "Z", Name: "Z Line", Type: "subway"},
	{ID: "SI", Name: "Staten Island Railway", Type: "subway"},
	{ID: "S", Name: "Shuttle (S)", Type: "subway"},
}

// Routes returns a copy of the route catalog so callers can't mutate
// the reference data.
func Routes() []models.RouteInfo {
	out := make([]models.RouteInfo, len(subwayRoutes))
	copy(out, subwayRoutes)
	return out
}

// stations is the fixed catalog of major stations with accessibility
// information. Not derived from the GTFS static archive.
var stations = []models.Station{
	{
		ID:         "127",
		Name:       "Times Square-42nd St",
		Lines:      []string{"1", "2", "3", "N", "Q", "R", "W", "S", "7"},
		Accessible: true,
		Elevators:  []string{"42nd St & 7th Ave", "42nd St & 8th Ave"},
		Escalators: []string{"Main entrance", "Port Authority connector"},
		Lat:        40.7580,
		Lon:        -73.9855,
	},
	{
		ID:         "631",
		Name:       "Grand Central-42nd St",
		Lines:      []string{"4", "5", "6", "7", "S"},
		Accessible: true,
		Elevators:  []string{"Lexington Ave entrance", "Grand Central Terminal"},
		Escalators: []string{"East entrance", "West entrance"},
		Lat:        40.7527,
		Lon:        -73.9772,
	},
	{
		ID:         "120",
		Name:       "Penn Station-34th St",
		Lines:      []string{"1", "2", "3", "A", "C", "E"},
		Accessible: true,
		Elevators:  []string{"7th Ave entrance", "8th Ave entrance"},
		Escalators: []string{"Main entrance"},
		Lat:        40.7505,
		Lon:        -73.9934,
	},
	{
		ID:         "635",
		Name:       "Union Square-14th St",
		Lines:      []string{"4", "5", "6", "L", "N", "Q", "R", "W"},
		Accessible: true,
		Elevators:  []string{"14th St & Broadway"},
		Escalators: []string{"Main entrance"},
		Lat:        40.7359,
		Lon:        -73.9911,
	},
	{
		ID:         "725",
		Name:       "Atlantic Ave-Barclays Ctr",
		Lines:      []string{"2", "3", "4", "5", "B", "D", "N", "Q", "R"},
		Accessible: true,
		Elevators:  []string{"Multiple elevators"},
		Escalators: []string{"Multiple escalators"},
		Lat:        40.6840,
		Lon:        -73.9767,
	},
	{
		ID:         "A32",
		Name:       "Jay St-MetroTech",
		Lines:      []string{"A", "C", "F", "R"},
		Accessible: true,
		Elevators:  []string{"Jay St entrance"},
		Escalators: []string{"Main entrance"},
		Lat:        40.6924,
		Lon:        -73.9875,
	},
	{
		ID:         "902",
		Name:       "Herald Square-34th St",
		Lines:      []string{"B", "D", "F", "M", "N", "Q", "R", "W"},
		Accessible: false,
		Elevators:  []string{},
		Escalators: []string{"6th Ave entrance"},
		Lat:        40.7498,
		Lon:        -73.9878,
	},
	{
		ID:         "718",
		Name:       "Fulton St",
		Lines:      []string{"2", "3", "4", "5", "A", "C", "J", "Z"},
		Accessible: true,
		Elevators:  []string{"Multiple elevators"},
		Escalators: []string{"Multiple escalators"},
		Lat:        40.7099,
		Lon:        -74.0089,
	},
	{
		ID:         "D14",
		Name:       "Columbus Circle-59th St",
		Lines:      []string{"1", "2", "A", "B", "C", "D"},
		Accessible: true,
		Elevators:  []string{"Broadway entrance", "8th Ave entrance"},
		Escalators: []string{"Multiple escalators"},
		Lat:        40.7682,
		Lon:        -73.9818,
	},
	{
		ID:         "423",
		Name:       "Canal St",
		Lines:      []string{"J", "N", "Q", "R", "W", "Z", "6"},
		Accessible: false,
		Elevators:  []string{},
		Escalators: []string{"Main entrance"},
		Lat:        40.7189,
		Lon:        -74.0006,
	},
}

// Stations returns a copy of the station catalog.
func Stations() []models.Station {
	out := make([]models.Station, len(stations))
	copy(out, stations)
	return out
}
