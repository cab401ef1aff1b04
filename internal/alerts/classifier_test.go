package alerts

import (
	"strings"
	"testing"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"google.golang.org/protobuf/proto"

	"github.com/Miscodings/nyc-transit-hub/internal/models"
)

func translated(text string) *gtfs.TranslatedString {
	return &gtfs.TranslatedString{
		Translation: []*gtfs.TranslatedString_Translation{
			{Text: proto.String(text)},
		},
	}
}

func alertEntity(id, header, description string, routeIDs ...string) *gtfs.FeedEntity {
	alert := &gtfs.Alert{}
	if header != "" {
		alert.HeaderText = translated(header)
	}
	if description != "" {
		alert.DescriptionText = translated(description)
	}
	for _, routeID := range routeIDs {
		alert.InformedEntity = append(alert.InformedEntity, &gtfs.EntitySelector{
			RouteId: proto.String(routeID),
		})
	}
	return &gtfs.FeedEntity{
		Id:    proto.String(id),
		Alert: alert,
	}
}

func TestClassifySeverity(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected models.Severity
	}{
		{
			name:     "Suspended",
			text:     "Service suspended in both directions",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Suspended uppercase",
			text:     "A TRAINS SUSPENDED",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "No service",
			text:     "No service between Canal St and Fulton St",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Not operating",
			text:     "Shuttle not operating overnight",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Delays",
			text:     "A train experiencing delays due to signal problems",
			expected: models.SeverityDelay,
		},
		{
			name:     "Running behind",
			text:     "Trains are running behind schedule",
			expected: models.SeverityDelay,
		},
		{
			name:     "Suspended wins over delay",
			text:     "Service suspended, expect delays",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Skips stops",
			text:     "F skips 14 St in both directions",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Express running",
			text:     "7 trains are running express to Main St",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Express alone is fine",
			text:     "Take the express for faster service",
			expected: models.SeverityGood,
		},
		{
			name:     "Modified schedule",
			text:     "Trains operate on a modified schedule this weekend",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "Adjusted schedule",
			text:     "Adjusted schedule in effect",
			expected: models.SeverityServiceChange,
		},
		{
			name:     "No keywords",
			text:     "Enjoy the new countdown clocks",
			expected: models.SeverityGood,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, classifySeverity(tt.text))
		})
	}
}

func TestCombineText(t *testing.T) {
	tests := []struct {
		name        string
		header      string
		description string
		expected    string
	}{
		{
			name:        "Both present",
			header:      "A trains delayed",
			description: "Signal problems at Jay St",
			expected:    "A trains delayed — Signal problems at Jay St",
		},
		{
			name:     "Header only",
			header:   "A trains delayed",
			expected: "A trains delayed",
		},
		{
			name:        "Description only",
			description: "Signal problems at Jay St",
			expected:    "Signal problems at Jay St",
		},
		{
			name:     "Neither",
			expected: "Service alert",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, combineText(tt.header, tt.description))
		})
	}
}

func TestClassifyAggregation(t *testing.T) {
	feed := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			alertEntity("1", "A trains delayed", "Signal problems", "A"),
			alertEntity("2", "Service suspended on the A", "", "A"),
			alertEntity("3", "C trains delayed", "", "C", "E"),
		},
	}

	result := Classify(feed)

	assert.Len(t, result, 3)

	// A accumulates both messages and keeps the worst severity.
	a := result["A"]
	assert.Equal(t, models.SeverityServiceChange, a.Status)
	assert.Len(t, a.Messages, 2)
	assert.Equal(t, models.SeverityDelay, a.Messages[0].Status)
	assert.Equal(t, models.SeverityServiceChange, a.Messages[1].Status)

	// The same alert lands on every route it names.
	assert.Equal(t, models.SeverityDelay, result["C"].Status)
	assert.Equal(t, models.SeverityDelay, result["E"].Status)
	assert.Equal(t, "C trains delayed", result["C"].Messages[0].Text)
}

func TestClassifySeverityNeverDecreases(t *testing.T) {
	feed := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			alertEntity("1", "Service suspended on the 7", "", "7"),
			alertEntity("2", "7 trains delayed", "", "7"),
			alertEntity("3", "Planned work notice", "", "7"),
		},
	}

	result := Classify(feed)

	assert.Equal(t, models.SeverityServiceChange, result["7"].Status)
	assert.Len(t, result["7"].Messages, 3)
}

func TestClassifyIgnoresUnscopedAlerts(t *testing.T) {
	noRoute := &gtfs.FeedEntity{
		Id: proto.String("1"),
		Alert: &gtfs.Alert{
			HeaderText: translated("Station elevator outage"),
			InformedEntity: []*gtfs.EntitySelector{
				{StopId: proto.String("127N")},
			},
		},
	}

	result := Classify(&gtfs.FeedMessage{Entity: []*gtfs.FeedEntity{noRoute}})
	assert.Empty(t, result)
}

func TestClassifyNilFeed(t *testing.T) {
	result := Classify(nil)
	assert.NotNil(t, result)
	assert.Empty(t, result)
}

func TestClassifyEmptyAlertText(t *testing.T) {
	feed := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			alertEntity("1", "", "", "L"),
		},
	}

	result := Classify(feed)

	msg := result["L"].Messages[0]
	assert.Equal(t, "Service alert", msg.Text)
	assert.Equal(t, "", msg.Header)
	assert.Equal(t, models.SeverityGood, msg.Status)
}

func TestClassifyTruncationAfterClassification(t *testing.T) {
	// The keyword sits past the 200-rune header cut, so the stored
	// header loses it but the severity must not.
	header := strings.Repeat("x", 220) + " suspended"
	feed := &gtfs.FeedMessage{
		Entity: []*gtfs.FeedEntity{
			alertEntity("1", header, "", "N"),
		},
	}

	result := Classify(feed)

	msg := result["N"].Messages[0]
	assert.Equal(t, models.SeverityServiceChange, msg.Status)
	assert.Len(t, []rune(msg.Header), 200)
	assert.NotContains(t, msg.Header, "suspended")
	assert.LessOrEqual(t, len([]rune(msg.Text)), 300)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		n        int
		expected string
	}{
		{
			name:     "Shorter than limit",
			input:    "short",
			n:        10,
			expected: "short",
		},
		{
			name:     "Exactly at limit",
			input:    "exact",
			n:        5,
			expected: "exact",
		},
		{
			name:     "Over limit",
			input:    "overflowing",
			n:        4,
			expected: "over",
		},
		{
			name:     "Multibyte runes kept whole",
			input:    "état — détour",
			n:        6,
			expected: "état —",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, truncate(tt.input, tt.n))
		})
	}
}
