package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"memopad/models"
)

var noteColumns = []string{"id", "title", "content", "user_id", "deleted", "archived", "created_at"}

// Notes persists note records. Deletion is always a flag flip: rows are
// never removed, and the deleted and archived flags are independent, so a
// note can be in any of the four flag combinations.
//
// List filters by owner; ByID, Update, SoftDelete, BulkSoftDelete and
// SetArchived intentionally do not. That reproduces the system this one
// replaces, where any authenticated user can touch any note by id.
type Notes struct {
	DB *sqlx.DB
}

// byID re-reads a full note row regardless of its flags. Used after writes
// to return the current state of the row.
func (s *Notes) byID(ctx context.Context, id int) (*models.Note, error) {
	query, args, err := qb.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var n models.Note
	if err := s.DB.GetContext(ctx, &n, query, args...); err != nil {
		return nil, err
	}
	return &n, nil
}

// Create inserts a note owned by ownerID with both flags clear. Titles are
// not validated here; an empty title inserts fine.
func (s *Notes) Create(ctx context.Context, ownerID int, title, content string) (*models.Note, error) {
	query, args, err := qb.Insert("notes").
		Columns("title", "content", "user_id").
		Values(title, content, ownerID).
		ToSql()
	if err != nil {
		return nil, err
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}
	lastID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return s.byID(ctx, int(lastID))
}

// List returns ownerID's non-deleted notes, newest first, windowed to the
// requested page, plus the pagination derived from a count over the same
// filter.
func (s *Notes) List(ctx context.Context, ownerID, page, pageSize int) ([]models.Note, models.Pagination, error) {
	pagination := models.Pagination{CurrentPage: page, PageSize: pageSize}

	countQuery, countArgs, err := qb.Select("COUNT(*)").
		From("notes").
		Where(sq.Eq{"user_id": ownerID}).
		Where(sq.Eq{"deleted": false}).
		ToSql()
	if err != nil {
		return nil, pagination, err
	}
	var total int
	if err := s.DB.GetContext(ctx, &total, countQuery, countArgs...); err != nil {
		return nil, pagination, fmt.Errorf("count notes: %w", err)
	}

	query, args, err := qb.Select(noteColumns...).
		From("notes").
		Where(sq.Eq{"user_id": ownerID}).
		Where(sq.Eq{"deleted": false}).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(pageSize)).
		Offset(uint64((page - 1) * pageSize)).
		ToSql()
	if err != nil {
		return nil, pagination, err
	}

	notes := make([]models.Note, 0, pageSize)
	if err := s.DB.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, pagination, fmt.Errorf("list notes: %w", err)
	}

	pagination.TotalNotes = total
	pagination.TotalPages = (total + pageSize - 1) / pageSize
	return notes, pagination, nil
}

// ByID returns the title and content of a non-deleted note, or
// sql.ErrNoRows when the id is unknown or the note is soft-deleted.
func (s *Notes) ByID(ctx context.Context, id int) (*models.NoteContent, error) {
	query, args, err := qb.Select("title", "content").
		From("notes").
		Where(sq.Eq{"id": id}).
		Where(sq.Eq{"deleted": false}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var n models.NoteContent
	if err := s.DB.GetContext(ctx, &n, query, args...); err != nil {
		return nil, err
	}
	return &n, nil
}

// Update overwrites title and content and returns the updated row. An
// unknown id surfaces as sql.ErrNoRows from the re-read.
func (s *Notes) Update(ctx context.Context, id int, title, content string) (*models.Note, error) {
	query, args, err := qb.Update("notes").
		Set("title", title).
		Set("content", content).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("update note: %w", err)
	}
	return s.byID(ctx, id)
}

// SoftDelete flips the deleted flag on, unconditionally. Deleting an
// unknown or already-deleted id is not an error.
func (s *Notes) SoftDelete(ctx context.Context, id int) error {
	query, args, err := qb.Update("notes").
		Set("deleted", true).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("soft delete note: %w", err)
	}
	return nil
}

// BulkSoftDelete flips the deleted flag on every listed id that is not
// already deleted, and reports how many rows matched. Ids that match no
// row are silently skipped.
func (s *Notes) BulkSoftDelete(ctx context.Context, ids []int) (int64, error) {
	query, args, err := qb.Update("notes").
		Set("deleted", true).
		Where(sq.Eq{"id": ids}).
		Where(sq.Eq{"deleted": false}).
		ToSql()
	if err != nil {
		return 0, err
	}

	res, err := s.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("bulk soft delete: %w", err)
	}
	return res.RowsAffected()
}

// SetArchived sets the archived flag and returns the updated row. Works on
// deleted notes too; archiving never touches the deleted flag.
func (s *Notes) SetArchived(ctx context.Context, id int, archived bool) (*models.Note, error) {
	query, args, err := qb.Update("notes").
		Set("archived", archived).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	if _, err := s.DB.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("archive note: %w", err)
	}
	return s.byID(ctx, id)
}
