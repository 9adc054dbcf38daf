package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gomokuarena/backend/internal/domain"
)

var ErrRuleSetNotFound = errors.New("ruleset not found")

type RuleSetRepo struct {
	db *sql.DB
}

func NewRuleSetRepo(db *sql.DB) *RuleSetRepo {
	return &RuleSetRepo{db: db}
}

// Create stores a validated ruleset. Existing rulesets are never updated;
// games may already reference them.
func (r *RuleSetRepo) Create(ctx context.Context, rs domain.RuleSet) error {
	const query = `
	INSERT INTO rulesets (name, board_size, win_length, allow_overlines, description)
	VALUES ($1, $2, $3, $4, $5);`

	if _, err := r.db.ExecContext(ctx, query, rs.Name, rs.BoardSize, rs.WinLength, rs.AllowOverlines, rs.Description); err != nil {
		return fmt.Errorf("create ruleset: %w", err)
	}
	return nil
}

func (r *RuleSetRepo) Get(ctx context.Context, name string) (domain.RuleSet, error) {
	const query = `
	SELECT name, board_size, win_length, allow_overlines, description
	FROM rulesets WHERE name = $1;`

	var rs domain.RuleSet
	err := r.db.QueryRowContext(ctx, query, name).Scan(
		&rs.Name, &rs.BoardSize, &rs.WinLength, &rs.AllowOverlines, &rs.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.RuleSet{}, ErrRuleSetNotFound
	}
	if err != nil {
		return domain.RuleSet{}, fmt.Errorf("get ruleset: %w", err)
	}
	return rs, nil
}

func (r *RuleSetRepo) List(ctx context.Context) ([]domain.RuleSet, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT name, board_size, win_length, allow_overlines, description
	FROM rulesets ORDER BY name;`)
	if err != nil {
		return nil, fmt.Errorf("list rulesets: %w", err)
	}
	defer rows.Close()

	var out []domain.RuleSet
	for rows.Next() {
		var rs domain.RuleSet
		if err := rows.Scan(&rs.Name, &rs.BoardSize, &rs.WinLength, &rs.AllowOverlines, &rs.Description); err != nil {
			return nil, fmt.Errorf("scan ruleset: %w", err)
		}
		out = append(out, rs)
	}
	return out, rows.Err()
}
