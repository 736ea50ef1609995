package postgresql

import (
	"context"
	"fmt"

	"github.com/Nikul55640/HRM-System-sub001/internal/domain/audit"
	"github.com/Nikul55640/HRM-System-sub001/internal/pkg/database"
	"github.com/google/uuid"
)

type auditRepository struct {
	db *database.DB
}

func NewAuditRepository(db *database.DB) audit.Recorder {
	return &auditRepository{db: db}
}

// Record implements audit.Recorder. Meta is stored as jsonb.
func (a *auditRepository) Record(ctx context.Context, entry audit.Entry) error {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO audit_log (id, action, actor, entity, meta)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := q.Exec(ctx, query,
		uuid.Must(uuid.NewV7()).String(), entry.Action, entry.Actor, entry.Entity, entry.Meta,
	)
	if err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}

	return nil
}
