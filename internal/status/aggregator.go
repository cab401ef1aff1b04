package status

import (
	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

// goodService is the synthetic message emitted for routes without any
// live alert.
var goodService = models.AlertMessage{
	Header: "Good Service",
	Text:   "Good Service",
	Status: models.SeverityGood,
}

// Merge combines the fixed route catalog with the classifier's output
// into one complete status row per catalog route, in catalog order.
// Routes with no alerts report good service with the synthetic message;
// routes with alerts carry their worst severity and the first message's
// text as the primary display message.
func Merge(catalog []models.RouteInfo, alerts map[string]*models.RouteAlerts) []models.RouteStatus {
	statuses := make([]models.RouteStatus, 0, len(catalog))

	for _, route := range catalog {
		rs := models.RouteStatus{
			ID:   route.ID,
			Name: route.Name,
			Type: route.Type,
		}

		if ra, ok := alerts[route.ID]; ok && len(ra.Messages) > 0 {
			rs.Status = ra.Status
			rs.Message = ra.Messages[0].Text
			rs.Messages = ra.Messages
		} else {
			rs.Status = models.SeverityGood
			rs.Message = goodService.Text
			rs.Messages = []models.AlertMessage{goodService}
		}

		statuses = append(statuses, rs)
	}

	return statuses
}
