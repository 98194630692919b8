package postgresql

import (
	"context"
	"fmt"

	"github.com/attendly/attendance-backend-go/internal/domain/roster"
	"github.com/attendly/attendance-backend-go/internal/pkg/database"
)

type rosterProvider struct {
	db *database.DB
}

// ActiveUsernames implements roster.Provider.
func (r *rosterProvider) ActiveUsernames(ctx context.Context, tenantID string) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT username
		FROM roster_users
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY username ASC
	`

	rows, err := q.Query(ctx, query, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to query active roster: %w", err)
	}
	defer rows.Close()

	var usernames []string
	for rows.Next() {
		var username string
		if err := rows.Scan(&username); err != nil {
			return nil, fmt.Errorf("failed to scan roster username: %w", err)
		}
		usernames = append(usernames, username)
	}

	return usernames, nil
}

// Tenants implements roster.Provider.
func (r *rosterProvider) Tenants(ctx context.Context) ([]string, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT tenant_id
		FROM roster_users
		WHERE active = TRUE
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query tenants: %w", err)
	}
	defer rows.Close()

	var tenantIDs []string
	for rows.Next() {
		var tenantID string
		if err := rows.Scan(&tenantID); err != nil {
			return nil, fmt.Errorf("failed to scan tenant id: %w", err)
		}
		tenantIDs = append(tenantIDs, tenantID)
	}

	return tenantIDs, nil
}

func NewRosterProvider(db *database.DB) roster.Provider {
	return &rosterProvider{db: db}
}
