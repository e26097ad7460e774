package domain

import (
	"time"
)

// Citation is a source surfaced by the generation service's retrieval tools.
// Title and URI are passed through verbatim.
type Citation struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// Route is the result of one planning request. It is never mutated after
// creation; the next request replaces it.
type Route struct {
	ID            string     `json:"id"`
	Origin        string     `json:"origin"`
	Preferences   string     `json:"preferences"`
	Text          string     `json:"text"`
	Destination   string     `json:"destination"`
	Citations     []Citation `json:"citations"`
	Waypoints     []Waypoint `json:"waypoints"`
	Polyline      string     `json:"polyline,omitempty"`
	LengthKm      float64    `json:"length_km"`
	StartTimezone string     `json:"start_timezone,omitempty"`
	EndTimezone   string     `json:"end_timezone,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// HasPath reports whether the route carries anything to draw.
func (r *Route) HasPath() bool { return r != nil && len(r.Waypoints) > 0 }

// RouteSummary is a history entry of a planned route. Waypoints are optional.
type RouteSummary struct {
	ID          string     `json:"id"`
	Origin      string     `json:"origin"`
	Preferences string     `json:"preferences"`
	Text        string     `json:"text"`
	Citations   []Citation `json:"citations"`
	Waypoints   []Waypoint `json:"waypoints,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Summary converts a route into a history entry.
func (r *Route) Summary(withWaypoints bool) RouteSummary {
	s := RouteSummary{
		ID:          r.ID,
		Origin:      r.Origin,
		Preferences: r.Preferences,
		Text:        r.Text,
		Citations:   r.Citations,
		CreatedAt:   r.CreatedAt,
	}
	if withWaypoints {
		s.Waypoints = r.Waypoints
	}
	return s
}

// Motorcycle is a bike in the rider's garage.
type Motorcycle struct {
	ID        string    `json:"id"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Year      int       `json:"year"`
	VIN       string    `json:"vin,omitempty"`
	Mileage   int       `json:"mileage"` // km
	Image     string    `json:"image,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// MaintenanceRecord is a service or other expense entry.
type MaintenanceRecord struct {
	ID           string    `json:"id"`
	BikeID       string    `json:"bike_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Type         string    `json:"type"`
	Description  string    `json:"description"`
	Mileage      int       `json:"mileage"`
	Cost         float64   `json:"cost"`
	ReceiptImage string    `json:"receipt_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// FuelRecord is a single refuelling.
type FuelRecord struct {
	ID           string    `json:"id"`
	BikeID       string    `json:"bike_id"`
	Date         string    `json:"date"` // YYYY-MM-DD
	Mileage      int       `json:"mileage"`
	Liters       float64   `json:"liters"`
	Cost         float64   `json:"cost"`
	ReceiptImage string    `json:"receipt_image,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Pending record types produced by receipt extraction.
const (
	RecordFuel    = "fuel"
	RecordService = "service"
	RecordOther   = "other"
)

// PendingRecord is an extracted receipt waiting for the rider's confirmation.
// Numeric fields stay loosely typed because the rider may edit them as text.
type PendingRecord struct {
	Type         string `json:"type"`
	Date         string `json:"date,omitempty"`
	Cost         any    `json:"cost,omitempty"`
	Liters       any    `json:"liters,omitempty"`
	Mileage      any    `json:"mileage,omitempty"`
	Description  string `json:"description,omitempty"`
	ReceiptImage string `json:"receipt_image,omitempty"`
}

// LogbookEntry is one item of the merged fuel/expense timeline.
type LogbookEntry struct {
	Kind        string             `json:"kind"` // "fuel" | "expense"
	Date        string             `json:"date"`
	Fuel        *FuelRecord        `json:"fuel,omitempty"`
	Maintenance *MaintenanceRecord `json:"maintenance,omitempty"`
}

// Chat roles.
const (
	RoleUser  = "user"
	RoleModel = "model"
)

// ChatMessage is one turn of the assistant conversation.
type ChatMessage struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Profile is the rider's profile document.
type Profile struct {
	Name        string    `json:"name"`
	HomeBase    string    `json:"home_base"`
	RidingStyle string    `json:"riding_style"`
	Language    string    `json:"language"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// MaintenanceAnalysis is an AI service recommendation for a bike.
type MaintenanceAnalysis struct {
	ID        string    `json:"id"`
	BikeID    string    `json:"bike_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

// AnalysisRequest asks the worker to analyse a bike asynchronously.
type AnalysisRequest struct {
	RequestID   string    `json:"request_id"`
	BikeID      string    `json:"bike_id"`
	RequestedAt time.Time `json:"requested_at"`
}
