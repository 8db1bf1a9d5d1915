package sqlite

import (
	"context"
	"fmt"
)

// IsStarred reports whether the result id is starred.
func (s *Store) IsStarred(ctx context.Context, resultID string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stars WHERE result_id = ?`, resultID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("check star %q: %w", resultID, err)
	}
	return count > 0, nil
}

// SetStarred stars or unstars a result id. Both directions are
// idempotent.
func (s *Store) SetStarred(ctx context.Context, resultID string, starred bool) error {
	var err error
	if starred {
		_, err = s.db.ExecContext(ctx,
			`INSERT INTO stars (result_id) VALUES (?) ON CONFLICT(result_id) DO NOTHING`, resultID)
	} else {
		_, err = s.db.ExecContext(ctx, `DELETE FROM stars WHERE result_id = ?`, resultID)
	}
	if err != nil {
		return fmt.Errorf("set star %q: %w", resultID, err)
	}
	return nil
}

// StarredIDs returns every starred result id in id order.
func (s *Store) StarredIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT result_id FROM stars ORDER BY result_id`)
	if err != nil {
		return nil, fmt.Errorf("list stars: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan star: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
