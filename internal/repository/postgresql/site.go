package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/sagana-hq/workforce-backend-go/internal/domain/site"
	"github.com/sagana-hq/workforce-backend-go/internal/pkg/database"
)

type siteRepository struct {
	db *database.DB
}

func NewSiteRepository(db *database.DB) site.SiteRepository {
	return &siteRepository{db: db}
}

// GetByID implements site.SiteRepository.
func (r *siteRepository) GetByID(ctx context.Context, id string) (site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, name, latitude, longitude, radius_meters, is_active, created_at, updated_at
		FROM sites
		WHERE id = $1
	`

	var s site.Site
	err := q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusMeters,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return site.Site{}, site.ErrSiteNotFound
		}
		return site.Site{}, fmt.Errorf("failed to get site: %w", err)
	}
	return s, nil
}

// GetActiveSitesByEmployee implements site.SiteRepository. Only assignments
// that are active and not yet ended contribute a geofence.
func (r *siteRepository) GetActiveSitesByEmployee(ctx context.Context, employeeID string) ([]site.Site, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.name, s.latitude, s.longitude, s.radius_meters, s.is_active,
			   s.created_at, s.updated_at
		FROM sites s
		JOIN site_assignments sa ON sa.site_id = s.id
		WHERE sa.employee_id = $1
		  AND sa.is_active = TRUE
		  AND (sa.end_date IS NULL OR sa.end_date >= NOW())
		  AND s.is_active = TRUE
		ORDER BY s.name
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query site assignments: %w", err)
	}
	defer rows.Close()

	var sites []site.Site
	for rows.Next() {
		var s site.Site
		if err := rows.Scan(
			&s.ID, &s.Name, &s.Latitude, &s.Longitude, &s.RadiusMeters,
			&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan site: %w", err)
		}
		sites = append(sites, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sites: %w", err)
	}
	return sites, nil
}
