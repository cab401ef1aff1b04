package alerts

import (
	"strings"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

const (
	maxHeaderLen      = 200
	maxDescriptionLen = 1000
	maxDisplayLen     = 300
)

// Classify walks every alert entity in the feed and produces the
// per-route alert aggregation: worst severity plus every message in
// feed order. Alerts that name no route in their informed entities are
// ignored. A nil feed yields an empty map, which callers read as "no
// known alerts".
func Classify(feed *gtfs.FeedMessage) map[string]*models.RouteAlerts {
	routeAlerts := make(map[string]*models.RouteAlerts)
	if feed == nil {
		return routeAlerts
	}

	for _, entity := range feed.Entity {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}

		header := firstTranslation(alert.GetHeaderText())
		description := firstTranslation(alert.GetDescriptionText())
		combined := combineText(header, description)
		status := classifySeverity(combined)

		msg := models.AlertMessage{
			Header:      truncate(header, maxHeaderLen),
			Description: truncate(description, maxDescriptionLen),
			Text:        truncate(combined, maxDisplayLen),
			Status:      status,
		}

		for _, informed := range alert.GetInformedEntity() {
			if informed.RouteId == nil {
				continue
			}
			routeID := informed.GetRouteId()

			ra, ok := routeAlerts[routeID]
			if !ok {
				ra = &models.RouteAlerts{Status: models.SeverityGood}
				routeAlerts[routeID] = ra
			}

			ra.Messages = append(ra.Messages, msg)
			if status > ra.Status {
				ra.Status = status
			}
		}
	}

	return routeAlerts
}

// firstTranslation returns the text of the first translation, or "".
func firstTranslation(ts *gtfs.TranslatedString) string {
	translations := ts.GetTranslation()
	if len(translations) == 0 {
		return ""
	}
	return translations[0].GetText()
}

// combineText builds the display text from header and description.
func combineText(header, description string) string {
	switch {
	case header != "" && description != "":
		return header + " — " + description
	case header != "":
		return header
	case description != "":
		return description
	default:
		return "Service alert"
	}
}

// classifySeverity maps free-text alert wording to a severity. Rules
// run in priority order; the first match wins. Matching is
// case-insensitive and runs on the full, untruncated text.
func classifySeverity(text string) models.Severity {
	lower := strings.ToLower(text)

	switch {
	case strings.Contains(lower, "suspended"),
		strings.Contains(lower, "no service"),
		strings.Contains(lower, "not operating"):
		return models.SeverityServiceChange
	case strings.Contains(lower, "delayed"),
		strings.Contains(lower, "delay"),
		strings.Contains(lower, "running behind"):
		return models.SeverityDelay
	case strings.Contains(lower, "skip"):
		return models.SeverityServiceChange
	case strings.Contains(lower, "express") &&
		(strings.Contains(lower, "running") || strings.Contains(lower, "skip")):
		return models.SeverityServiceChange
	case strings.Contains(lower, "modified schedule"),
		strings.Contains(lower, "adjusted schedule"):
		return models.SeverityServiceChange
	default:
		return models.SeverityGood
	}
}

// truncate caps s at n runes. Truncation happens after classification
// so it can never change a message's severity.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
