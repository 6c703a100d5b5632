package site

import "time"

// Site is a named work location whose geofence is a circle around the
// center coordinate.
type Site struct {
	ID           string
	Name         string
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Assignment links an employee to a site. An employee may hold zero, one,
// or many active assignments at once.
type Assignment struct {
	ID         string
	EmployeeID string
	SiteID     string
	IsActive   bool
	StartDate  time.Time
	EndDate    *time.Time
	CreatedAt  time.Time
}
