package store

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"memopad/models"
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// Users looks up user records. Users are created out of band; there is no
// signup path, so this is read-only.
type Users struct {
	DB *sqlx.DB
}

// ByEmail returns the user record for an email, or sql.ErrNoRows when the
// email is unknown.
func (s *Users) ByEmail(ctx context.Context, email string) (*models.User, error) {
	query, args, err := qb.Select("id", "email", "password", "created_at").
		From("users").
		Where(sq.Eq{"email": email}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var u models.User
	if err := s.DB.GetContext(ctx, &u, query, args...); err != nil {
		return nil, err
	}
	return &u, nil
}
