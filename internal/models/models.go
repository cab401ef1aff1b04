package models

import (
	"fmt"
	"time"
)

// Severity classifies how badly an alert impacts a route.
// The integer value is the severity rank: higher means worse.
type Severity int

const (
	SeverityGood Severity = iota
	SeverityDelay
	SeverityServiceChange
)

// String returns the wire representation used in API responses
// and in the service_status_cache table.
func (s Severity) String() string {
	switch s {
	case SeverityDelay:
		return "delay"
	case SeverityServiceChange:
		return "service-change"
	default:
		return "good"
	}
}

// MarshalJSON encodes the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", s.String())), nil
}

// ParseSeverity maps a stored status string back to a Severity.
// Unknown values map to good.
func ParseSeverity(s string) Severity {
	switch s {
	case "delay":
		return SeverityDelay
	case "service-change":
		return SeverityServiceChange
	default:
		return SeverityGood
	}
}

// AlertMessage is one classified alert message attached to a route.
type AlertMessage struct {
	Header      string   `json:"header"`
	Description string   `json:"description"`
	Text        string   `json:"text"`
	Status      Severity `json:"status"`
}

// RouteAlerts holds the aggregated alert state for a single route:
// the worst severity seen so far and every message in arrival order.
type RouteAlerts struct {
	Status   Severity
	Messages []AlertMessage
}

// RouteInfo is one entry of the fixed route catalog.
type RouteInfo struct {
	ID   string
	Name string
	Type string
}

// RouteStatus is the per-route service status served by the API.
type RouteStatus struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Status   Severity       `json:"status"`
	Message  string         `json:"message"`
	Messages []AlertMessage `json:"messages"`
}

// CachedStatus is one row of the service_status_cache table, returned
// as-is when live computation fails and the snapshot is served instead.
type CachedStatus struct {
	RouteID   string    `json:"route_id"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Arrival is one upcoming train at a station.
type Arrival struct {
	Line      string `json:"line"`
	Direction string `json:"direction"`
	Minutes   int    `json:"minutes"`
}

// Station is fixed reference data for a major station.
type Station struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Lines      []string `json:"lines"`
	Accessible bool     `json:"accessible"`
	Elevators  []string `json:"elevators"`
	Escalators []string `json:"escalators"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
}

// StopEntry is one stop from the static schedule, annotated with the
// routes whose representative trips pass through it.
type StopEntry struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Lat   float64  `json:"lat"`
	Lon   float64  `json:"lon"`
	Lines []string `json:"lines"`
}

// RoutePolyline is the representative geographic path of a route,
// as an ordered list of [lat, lon] pairs.
type RoutePolyline struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// GTFS static rows, straight out of the archive tables.

// StopRow is a row of stops.txt.
type StopRow struct {
	StopID string
	Name   string
	Lat    float64
	Lon    float64
}

// TripRow is a row of trips.txt.
type TripRow struct {
	TripID  string
	RouteID string
}

// StopTimeRow is a row of stop_times.txt.
type StopTimeRow struct {
	TripID       string
	StopID       string
	StopSequence int
}
