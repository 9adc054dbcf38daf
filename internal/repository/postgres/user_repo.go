package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

var ErrUserNotFound = errors.New("user not found")

type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo {
	return &UserRepo{db: db}
}

type User struct {
	ID           int64
	Username     string
	DisplayName  string
	Email        sql.NullString
	GoogleID     sql.NullString
	PasswordHash string
	GamesPlayed  int
	GamesWon     int
	GamesDrawn   int
	CreatedAt    time.Time
}

// Response returns the JSON-friendly view of a user.
func (u *User) Response() map[string]any {
	email := ""
	if u.Email.Valid {
		email = u.Email.String
	}
	return map[string]any{
		"id":           u.ID,
		"username":     u.Username,
		"display_name": u.DisplayName,
		"email":        email,
		"wins":         u.GamesWon,
		"losses":       u.GamesPlayed - u.GamesWon - u.GamesDrawn,
		"draws":        u.GamesDrawn,
	}
}

// Create inserts a new user. email and googleID are optional.
func (r *UserRepo) Create(ctx context.Context, username, displayName, passwordHash, email, googleID string) (int64, error) {
	var emailParam, googleIDParam any
	if email != "" {
		emailParam = email
	}
	if googleID != "" {
		googleIDParam = googleID
	}

	const query = `
	INSERT INTO players (username, display_name, password_hash, email, google_id)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING id;`

	var userID int64
	if err := r.db.QueryRowContext(ctx, query, username, displayName, passwordHash, emailParam, googleIDParam).Scan(&userID); err != nil {
		return 0, fmt.Errorf("create user: %w", err)
	}
	return userID, nil
}

const userColumns = `id, username, display_name, email, google_id, password_hash,
	games_played, games_won, games_drawn, created_at`

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.DisplayName,
		&u.Email,
		&u.GoogleID,
		&u.PasswordHash,
		&u.GamesPlayed,
		&u.GamesWon,
		&u.GamesDrawn,
		&u.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM players WHERE id = $1;`, id)
	return scanUser(row)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM players WHERE username = $1;`, username)
	return scanUser(row)
}

func (r *UserRepo) GetByGoogleID(ctx context.Context, googleID string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM players WHERE google_id = $1;`, googleID)
	return scanUser(row)
}
