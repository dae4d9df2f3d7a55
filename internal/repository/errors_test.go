package repository

import (
	"errors"
	"fmt"
	"testing"

	"inkwell/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestMapDBError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
	}{
		{"not found", gorm.ErrRecordNotFound, models.CodeNotFound},
		{"pg unique", &pgconn.PgError{Code: "23505"}, models.CodeConflict},
		{"pg fk", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), models.CodeValidation},
		{"sqlite unique", errors.New("UNIQUE constraint failed: users.email"), models.CodeConflict},
		{"sqlite fk", errors.New("FOREIGN KEY constraint failed"), models.CodeValidation},
		{"other", errors.New("connection reset"), models.CodeInternal},
		{"already mapped", models.NewForbiddenError("no"), models.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var appErr *models.AppError
			assert.ErrorAs(t, mapDBError(tt.err, "Thing", 1), &appErr)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}

	assert.NoError(t, mapDBError(nil, "Thing", 1))
}
