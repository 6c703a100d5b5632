package site

import "context"

type SiteRepository interface {
	GetByID(ctx context.Context, id string) (Site, error)

	// GetActiveSitesByEmployee returns the sites behind the employee's
	// active assignments. An empty slice means the employee cannot clock in
	// anywhere.
	GetActiveSitesByEmployee(ctx context.Context, employeeID string) ([]Site, error)
}
