package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"hireflow/ats-platform/internal/models"
)

type InterviewTemplateRepository interface {
	Create(ctx context.Context, tmpl *models.InterviewTemplate) error
	FindAccessible(ctx context.Context, orgID, id uuid.UUID) (*models.InterviewTemplate, error)
	FindOwned(ctx context.Context, orgID, id uuid.UUID) (*models.InterviewTemplate, error)
	FindDefault(ctx context.Context, orgID uuid.UUID) (*models.InterviewTemplate, error)
	FindGlobalByName(ctx context.Context, name string) (*models.InterviewTemplate, error)
	List(ctx context.Context, orgID uuid.UUID, category models.TemplateCategory) ([]models.InterviewTemplate, error)
	Save(ctx context.Context, tmpl *models.InterviewTemplate) error
	IncrementUsage(ctx context.Context, id uuid.UUID) error
}

type interviewTemplateRepository struct {
	db *gorm.DB
}

func NewInterviewTemplateRepository(db *gorm.DB) InterviewTemplateRepository {
	return &interviewTemplateRepository{db: db}
}

func accessibleTo(db *gorm.DB, orgID uuid.UUID) *gorm.DB {
	return db.Where("organization_id = ? OR is_global = ?", orgID, true)
}

// Create implements InterviewTemplateRepository.
func (r *interviewTemplateRepository) Create(ctx context.Context, tmpl *models.InterviewTemplate) error {
	if err := r.db.WithContext(ctx).Create(tmpl).Error; err != nil {
		return writeError(err, "create", "interview template")
	}
	return nil
}

// FindAccessible returns an active template owned by the organization or a global one.
func (r *interviewTemplateRepository) FindAccessible(ctx context.Context, orgID, id uuid.UUID) (*models.InterviewTemplate, error) {
	var tmpl models.InterviewTemplate
	err := accessibleTo(r.db.WithContext(ctx).Where("id = ? AND is_active = ?", id, true), orgID).
		First(&tmpl).Error
	if err != nil {
		return nil, findError(err, "interview template")
	}
	return &tmpl, nil
}

// FindOwned implements InterviewTemplateRepository. Global templates are not owned by any organization.
func (r *interviewTemplateRepository) FindOwned(ctx context.Context, orgID, id uuid.UUID) (*models.InterviewTemplate, error) {
	var tmpl models.InterviewTemplate
	err := r.db.WithContext(ctx).
		Where("id = ? AND organization_id = ?", id, orgID).
		First(&tmpl).Error
	if err != nil {
		return nil, findError(err, "interview template")
	}
	return &tmpl, nil
}

// FindDefault prefers the organization's most used active template, then a global one.
func (r *interviewTemplateRepository) FindDefault(ctx context.Context, orgID uuid.UUID) (*models.InterviewTemplate, error) {
	var tmpl models.InterviewTemplate
	err := accessibleTo(r.db.WithContext(ctx).Where("is_active = ?", true), orgID).
		Order("is_global ASC").
		Order("usage_count DESC").
		Order("created_at ASC").
		First(&tmpl).Error
	if err != nil {
		return nil, findError(err, "interview template")
	}
	return &tmpl, nil
}

// FindGlobalByName implements InterviewTemplateRepository.
func (r *interviewTemplateRepository) FindGlobalByName(ctx context.Context, name string) (*models.InterviewTemplate, error) {
	var tmpl models.InterviewTemplate
	err := r.db.WithContext(ctx).
		Where("name = ? AND is_global = ?", name, true).
		First(&tmpl).Error
	if err != nil {
		return nil, findError(err, "interview template")
	}
	return &tmpl, nil
}

// List implements InterviewTemplateRepository.
func (r *interviewTemplateRepository) List(ctx context.Context, orgID uuid.UUID, category models.TemplateCategory) ([]models.InterviewTemplate, error) {
	db := accessibleTo(r.db.WithContext(ctx).Where("is_active = ?", true), orgID)
	if category != "" {
		db = db.Where("category = ?", category)
	}

	var templates []models.InterviewTemplate
	if err := db.Order("is_global ASC").Order("name ASC").Find(&templates).Error; err != nil {
		return nil, fmt.Errorf("failed to list interview templates: %w", err)
	}
	return templates, nil
}

// Save implements InterviewTemplateRepository.
func (r *interviewTemplateRepository) Save(ctx context.Context, tmpl *models.InterviewTemplate) error {
	if err := r.db.WithContext(ctx).Save(tmpl).Error; err != nil {
		return writeError(err, "update", "interview template")
	}
	return nil
}

// IncrementUsage implements InterviewTemplateRepository.
func (r *interviewTemplateRepository) IncrementUsage(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Model(&models.InterviewTemplate{}).
		Where("id = ?", id).
		UpdateColumn("usage_count", gorm.Expr("usage_count + ?", 1)).Error
	if err != nil {
		return fmt.Errorf("failed to increment template usage: %w", err)
	}
	return nil
}
