package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Scope narrows an aggregate query. Column names are fixed by callers, never user input.
type Scope struct {
	OrganizationID *uuid.UUID
	OwnerColumn    string
	OwnerID        *uuid.UUID
	Since          *time.Time
	Where          map[string]interface{}
}

type GroupCount struct {
	Key   string `gorm:"column:group_key" json:"key"`
	Count int64  `gorm:"column:total" json:"count"`
}

type AnalyticsRepository interface {
	Count(ctx context.Context, model interface{}, scope Scope) (int64, error)
	CountBy(ctx context.Context, model interface{}, column string, scope Scope) ([]GroupCount, error)
	Average(ctx context.Context, model interface{}, column string, scope Scope) (float64, error)
	IDs(ctx context.Context, model interface{}, scope Scope) ([]uuid.UUID, error)
}

type analyticsRepository struct {
	db *gorm.DB
}

func NewAnalyticsRepository(db *gorm.DB) AnalyticsRepository {
	return &analyticsRepository{db: db}
}

func (s Scope) apply(db *gorm.DB) *gorm.DB {
	if s.OrganizationID != nil {
		db = db.Where("organization_id = ?", *s.OrganizationID)
	}
	if s.OwnerColumn != "" && s.OwnerID != nil {
		db = db.Where(fmt.Sprintf("%s = ?", s.OwnerColumn), *s.OwnerID)
	}
	if s.Since != nil {
		db = db.Where("created_at >= ?", *s.Since)
	}
	for column, value := range s.Where {
		db = db.Where(fmt.Sprintf("%s = ?", column), value)
	}
	return db
}

// Count implements AnalyticsRepository.
func (r *analyticsRepository) Count(ctx context.Context, model interface{}, scope Scope) (int64, error) {
	var total int64
	if err := scope.apply(r.db.WithContext(ctx).Model(model)).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count: %w", err)
	}
	return total, nil
}

// CountBy implements AnalyticsRepository.
func (r *analyticsRepository) CountBy(ctx context.Context, model interface{}, column string, scope Scope) ([]GroupCount, error) {
	var rows []GroupCount
	err := scope.apply(r.db.WithContext(ctx).Model(model)).
		Select(fmt.Sprintf("%s AS group_key, COUNT(*) AS total", column)).
		Group(column).
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by %s: %w", column, err)
	}
	return rows, nil
}

// Average implements AnalyticsRepository. Rows with a NULL column are ignored.
func (r *analyticsRepository) Average(ctx context.Context, model interface{}, column string, scope Scope) (float64, error) {
	var avg sql.NullFloat64
	err := scope.apply(r.db.WithContext(ctx).Model(model)).
		Where(fmt.Sprintf("%s IS NOT NULL", column)).
		Select(fmt.Sprintf("AVG(%s)", column)).
		Row().Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("failed to average %s: %w", column, err)
	}
	return avg.Float64, nil
}

// IDs implements AnalyticsRepository.
func (r *analyticsRepository) IDs(ctx context.Context, model interface{}, scope Scope) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	if err := scope.apply(r.db.WithContext(ctx).Model(model)).Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list ids: %w", err)
	}
	return ids, nil
}
