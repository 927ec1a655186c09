package repos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/propertylabs/rental-radar-alerts-sub000/data"
)

type UserRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db, now: time.Now}
}

// UpsertUser inserts the user or refreshes the cached name and email of an existing one.
func (r UserRepo) UpsertUser(ctx context.Context, user data.User) error {
	now := r.now().Unix()
	user.CreatedAt = now
	user.UpdatedAt = now

	query := `
		INSERT INTO users (whop_user_id, name, email, created_at, updated_at)
		VALUES (:whop_user_id, :name, :email, :created_at, :updated_at)
		ON CONFLICT (whop_user_id) DO UPDATE
		SET name = excluded.name, email = excluded.email, updated_at = excluded.updated_at`

	if _, err := r.db.NamedExecContext(ctx, query, user); err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}

	return nil
}

func (r UserRepo) GetUserByID(ctx context.Context, id string) (*data.User, error) {
	var user data.User
	query := r.db.Rebind("SELECT * FROM users WHERE whop_user_id = ?")
	err := r.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &user, nil
}

func (r UserRepo) GetUsersByIDs(ctx context.Context, ids []string) ([]data.User, error) {
	if len(ids) == 0 {
		return []data.User{}, nil
	}

	var users []data.User
	query, args, err := sqlx.In(`
		SELECT whop_user_id, name, email, created_at, updated_at
		FROM users
		WHERE whop_user_id IN (?)`, ids)
	if err != nil {
		return nil, fmt.Errorf("build get users by ids: %w", err)
	}
	query = r.db.Rebind(query)

	err = r.db.SelectContext(ctx, &users, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get users by ids: %w", err)
	}

	return users, nil
}
