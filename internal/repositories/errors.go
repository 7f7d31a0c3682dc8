package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"hireflow/ats-platform/internal/apperr"
)

func findError(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperr.NotFound(entity)
	}
	return fmt.Errorf("failed to find %s: %w", entity, err)
}

func writeError(err error, op, entity string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s %w", entity, apperr.ErrDuplicate)
	}
	return fmt.Errorf("failed to %s %s: %w", op, entity, err)
}
