package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusvoice/issue-service/internal/domain"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrVersionConflict is returned when an update carries a stale version.
	ErrVersionConflict = errors.New("version conflict")
	// ErrDuplicateID is returned when creating a record whose id is taken.
	ErrDuplicateID = errors.New("duplicate id")
)

// IssueRepository is the durable store for the issue collection. Create sets
// Version to 1; Update succeeds only when issue.Version matches the stored
// version and increments it on success.
type IssueRepository interface {
	Create(ctx context.Context, issue *domain.Issue) error
	Update(ctx context.Context, issue *domain.Issue) error
	GetByID(ctx context.Context, id string) (*domain.Issue, error)
	List(ctx context.Context) ([]domain.Issue, error)
}

type issueRepository struct {
	pool *pgxpool.Pool
}

// NewIssueRepository returns a Postgres-backed implementation.
func NewIssueRepository(pool *pgxpool.Pool) IssueRepository {
	return &issueRepository{pool: pool}
}

const issueColumns = `id, title, description, category, status, priority, is_anonymous,
               student_id, student_name, student_email, assigned_to, rating, version, created_at, updated_at`

func (r *issueRepository) Create(ctx context.Context, issue *domain.Issue) error {
	const query = `
        INSERT INTO issues (id, title, description, category, status, priority, is_anonymous,
            student_id, student_name, student_email, assigned_to, rating, version, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,1,$13,$14)
        ON CONFLICT (id) DO NOTHING`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query,
			issue.ID,
			issue.Title,
			issue.Description,
			issue.Category,
			issue.Status,
			issue.Priority,
			issue.IsAnonymous,
			issue.StudentID,
			issue.StudentName,
			issue.StudentEmail,
			issue.AssignedTo,
			issue.Rating,
			issue.CreatedAt,
			issue.UpdatedAt,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return ErrDuplicateID
		}
		if err := insertComments(ctx, tx, issue.ID, issue.Comments); err != nil {
			return err
		}
		issue.Version = 1
		return nil
	})
}

func (r *issueRepository) Update(ctx context.Context, issue *domain.Issue) error {
	const query = `
        UPDATE issues SET title=$1, description=$2, category=$3, status=$4, priority=$5,
            assigned_to=$6, rating=$7, updated_at=$8, version=version+1
        WHERE id=$9 AND version=$10`

	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, query,
			issue.Title,
			issue.Description,
			issue.Category,
			issue.Status,
			issue.Priority,
			issue.AssignedTo,
			issue.Rating,
			issue.UpdatedAt,
			issue.ID,
			issue.Version,
		)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			var exists bool
			if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM issues WHERE id=$1)`, issue.ID).Scan(&exists); err != nil {
				return err
			}
			if !exists {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		if err := insertComments(ctx, tx, issue.ID, issue.Comments); err != nil {
			return err
		}
		issue.Version++
		return nil
	})
}

func (r *issueRepository) GetByID(ctx context.Context, id string) (*domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id=$1`
	issue, err := scanIssue(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	comments, err := r.commentsFor(ctx, `WHERE issue_id=$1`, id)
	if err != nil {
		return nil, err
	}
	issue.Comments = append([]domain.Comment{}, comments[id]...)
	return issue, nil
}

func (r *issueRepository) List(ctx context.Context) ([]domain.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Issue{}
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *issue)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	comments, err := r.commentsFor(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range result {
		result[i].Comments = append([]domain.Comment{}, comments[result[i].ID]...)
	}
	return result, nil
}

func (r *issueRepository) commentsFor(ctx context.Context, where string, args ...any) (map[string][]domain.Comment, error) {
	query := fmt.Sprintf(`
        SELECT id, issue_id, user_id, user_name, user_role, text, created_at
        FROM issue_comments %s ORDER BY issue_id, position ASC`, where)
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string][]domain.Comment{}
	for rows.Next() {
		var c domain.Comment
		if err := rows.Scan(
			&c.ID,
			&c.IssueID,
			&c.UserID,
			&c.UserName,
			&c.UserRole,
			&c.Text,
			&c.CreatedAt,
		); err != nil {
			return nil, err
		}
		c.CreatedAt = c.CreatedAt.UTC()
		result[c.IssueID] = append(result[c.IssueID], c)
	}
	return result, rows.Err()
}

// insertComments appends comments not yet stored; existing rows are left untouched.
func insertComments(ctx context.Context, tx pgx.Tx, issueID string, comments []domain.Comment) error {
	const query = `
        INSERT INTO issue_comments (id, issue_id, position, user_id, user_name, user_role, text, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        ON CONFLICT (id) DO NOTHING`
	for pos, c := range comments {
		if _, err := tx.Exec(ctx, query,
			c.ID,
			issueID,
			pos,
			c.UserID,
			c.UserName,
			c.UserRole,
			c.Text,
			c.CreatedAt,
		); err != nil {
			return err
		}
	}
	return nil
}

func scanIssue(row pgx.Row) (*domain.Issue, error) {
	var issue domain.Issue
	if err := row.Scan(
		&issue.ID,
		&issue.Title,
		&issue.Description,
		&issue.Category,
		&issue.Status,
		&issue.Priority,
		&issue.IsAnonymous,
		&issue.StudentID,
		&issue.StudentName,
		&issue.StudentEmail,
		&issue.AssignedTo,
		&issue.Rating,
		&issue.Version,
		&issue.CreatedAt,
		&issue.UpdatedAt,
	); err != nil {
		return nil, err
	}
	issue.CreatedAt = issue.CreatedAt.UTC()
	issue.UpdatedAt = issue.UpdatedAt.UTC()
	issue.Comments = []domain.Comment{}
	return &issue, nil
}
