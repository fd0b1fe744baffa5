package model

import "time"

// Item is a single lost or found report.
type Item struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Category     string    `json:"category"`
	Location     string    `json:"location"`
	DateOccurred string    `json:"date_occurred"`
	ContactInfo  string    `json:"contact_info,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	ReporterID   string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// Report types. Write-once: a lost report never becomes a found report.
const (
	TypeLost  = "lost"
	TypeFound = "found"
)

// Report statuses.
const (
	StatusActive   = "active"
	StatusResolved = "resolved"
)

// Categories is the fixed set of report categories.
var Categories = []string{
	"Electronics",
	"Documents",
	"Accessories",
	"Clothing",
	"Keys",
	"Bags",
	"Other",
}

// ValidCategory reports whether category is a member of the fixed set.
func ValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidType reports whether t is a known report type.
func ValidType(t string) bool {
	return t == TypeLost || t == TypeFound
}
