package services

import (
	"fmt"

	"gorm.io/gorm"

	"corpbank-portal-api/models"
)

// UnknownStatusBucket collects applications whose stored status is not one
// of the canonical seven. Legacy rows must never break a dashboard; they are
// counted separately instead of being dropped or raising an error.
const UnknownStatusBucket = "unknown"

// StatusCounts maps a status (or UnknownStatusBucket) to how many
// applications currently hold it.
type StatusCounts map[string]int64

// Total sums every bucket, the unknown one included.
func (c StatusCounts) Total() int64 {
	var total int64
	for _, n := range c {
		total += n
	}
	return total
}

// RoleBreakdown segments status counts by the role that created the
// application. Admin dashboards render one slice per role.
type RoleBreakdown map[models.Role]StatusCounts

// CountByStatus computes per-status counts over an in-memory collection.
func CountByStatus(apps []models.Application) StatusCounts {
	counts := StatusCounts{}
	for _, app := range apps {
		counts[statusBucket(app.Status)]++
	}
	return counts
}

// BreakdownByRole computes per-creator-role status counts over an in-memory
// collection.
func BreakdownByRole(apps []models.Application) RoleBreakdown {
	breakdown := RoleBreakdown{}
	for _, app := range apps {
		counts, ok := breakdown[app.CreatedByRole]
		if !ok {
			counts = StatusCounts{}
			breakdown[app.CreatedByRole] = counts
		}
		counts[statusBucket(app.Status)]++
	}
	return breakdown
}

func statusBucket(status models.Status) string {
	if status.Valid() {
		return string(status)
	}
	return UnknownStatusBucket
}

// ReportingService runs the grouped dashboard queries. It is read-only.
type ReportingService struct {
	db *gorm.DB
}

func NewReportingService(db *gorm.DB) *ReportingService {
	return &ReportingService{db: db}
}

type statusCountRow struct {
	Status models.Status `gorm:"column:status"`
	Role   models.Role   `gorm:"column:created_by_role"`
	Count  int64         `gorm:"column:count"`
}

// StatusCountsFor returns the per-status counts visible to the actor:
// everything for admins, the created-or-assigned slice for managers, and
// the actor's own applications otherwise.
func (r *ReportingService) StatusCountsFor(actor *models.Profile) (StatusCounts, error) {
	query := r.scopedQuery(actor).
		Select("status, COUNT(*) AS count").
		Group("status")

	var rows []statusCountRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate status counts: %w", err)
	}

	counts := StatusCounts{}
	for _, row := range rows {
		counts[statusBucket(row.Status)] += row.Count
	}
	return counts, nil
}

// RoleBreakdownAll returns the admin view: per-creator-role per-status
// counts over every live application.
func (r *ReportingService) RoleBreakdownAll() (RoleBreakdown, error) {
	var rows []statusCountRow
	err := r.db.Model(&models.Application{}).
		Select("created_by_role, status, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("created_by_role, status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate role breakdown: %w", err)
	}

	breakdown := RoleBreakdown{}
	for _, row := range rows {
		counts, ok := breakdown[row.Role]
		if !ok {
			counts = StatusCounts{}
			breakdown[row.Role] = counts
		}
		counts[statusBucket(row.Status)] += row.Count
	}
	return breakdown, nil
}

func (r *ReportingService) scopedQuery(actor *models.Profile) *gorm.DB {
	query := r.db.Model(&models.Application{}).Where("delete_at IS NULL")
	switch actor.Role {
	case models.RoleAdmin:
		return query
	case models.RoleManager:
		return query.Where("created_by = ? OR assigned_manager = ?", actor.ProfileID, actor.ProfileID)
	default:
		return query.Where("created_by = ?", actor.ProfileID)
	}
}
