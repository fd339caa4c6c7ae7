package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/telehealth-api/internal/model"
)

func (r *availabilityRepository) ListForProvider(ctx context.Context, providerID uuid.UUID) ([]*model.AvailabilityRule, error) {
	query := `
		SELECT id, provider_id, day_of_week, start_time, end_time, created_at
		FROM availability_rules
		WHERE provider_id = $1
		ORDER BY day_of_week ASC
	`
	var rules []*model.AvailabilityRule
	if err := r.db.SelectContext(ctx, &rules, query, providerID); err != nil {
		return nil, fmt.Errorf("failed to list availability rules: %w", err)
	}
	return rules, nil
}

// ReplaceAll deletes every rule the provider has and inserts the new set
// in one transaction, so concurrent readers never observe a half-written
// schedule. Returns the number of rules inserted.
func (r *availabilityRepository) ReplaceAll(ctx context.Context, providerID uuid.UUID, rules []*model.AvailabilityRule) (int, error) {
	count := 0
	err := r.WithTx(ctx, func(tx *sqlx.Tx) error {
		deleteQuery := `DELETE FROM availability_rules WHERE provider_id = $1`
		if _, err := tx.ExecContext(ctx, deleteQuery, providerID); err != nil {
			return fmt.Errorf("failed to delete availability rules: %w", err)
		}

		insertQuery := `
			INSERT INTO availability_rules (
				id, provider_id, day_of_week, start_time, end_time, created_at
			) VALUES ($1, $2, $3, $4, $5, $6)
		`
		for _, rule := range rules {
			rule.ID = uuid.New()
			rule.ProviderID = providerID
			rule.CreatedAt = time.Now()

			if _, err := tx.ExecContext(ctx, insertQuery,
				rule.ID,
				rule.ProviderID,
				rule.DayOfWeek,
				rule.StartTime,
				rule.EndTime,
				rule.CreatedAt,
			); err != nil {
				return fmt.Errorf("failed to insert availability rule: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
