package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"slotboard/models"

	"github.com/uptrace/bun"
)

// Actions recorded by the import and refresh paths.
const (
	ActionImportLocations = "import_locations"
	ActionImportOccupancy = "import_occupancy"
	ActionSeed            = "seed"
)

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.IDB, actor, action, entityType, entityID string, before, after any) error {
	beforeJSON, err := marshal(before)
	if err != nil {
		return fmt.Errorf("marshal audit before: %w", err)
	}
	afterJSON, err := marshal(after)
	if err != nil {
		return fmt.Errorf("marshal audit after: %w", err)
	}
	if actor == "" {
		actor = "system"
	}
	log := &models.AuditLog{
		Actor:      actor,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}
	if _, err := tx.NewInsert().Model(log).Exec(ctx); err != nil {
		return fmt.Errorf("insert audit log: %w", err)
	}
	return nil
}

// Recent returns the newest audit entries for entityType, newest first.
func (s *Service) Recent(ctx context.Context, db bun.IDB, entityType string, limit int) ([]models.AuditLog, error) {
	if limit <= 0 {
		limit = 20
	}
	var logs []models.AuditLog
	err := db.NewSelect().
		Model(&logs).
		Where("entity_type = ?", entityType).
		OrderExpr("id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("select audit logs: %w", err)
	}
	return logs, nil
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
