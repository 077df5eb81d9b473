package repository

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campusvoice/issue-service/internal/domain"
)

// IssueHistoryRepository stores audit entries.
type IssueHistoryRepository interface {
	Create(ctx context.Context, history *domain.IssueHistory) error
	ListByIssue(ctx context.Context, issueID string) ([]domain.IssueHistory, error)
}

type issueHistoryRepository struct {
	pool *pgxpool.Pool
}

// NewIssueHistoryRepository builds a Postgres-backed repository.
func NewIssueHistoryRepository(pool *pgxpool.Pool) IssueHistoryRepository {
	return &issueHistoryRepository{pool: pool}
}

func (r *issueHistoryRepository) Create(ctx context.Context, history *domain.IssueHistory) error {
	const query = `
        INSERT INTO issue_history (id, issue_id, changed_by, change_type, old_value, new_value, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7)`
	_, err := r.pool.Exec(ctx, query,
		history.ID,
		history.IssueID,
		history.ChangedBy,
		history.ChangeType,
		history.OldValue,
		history.NewValue,
		history.CreatedAt,
	)
	return err
}

func (r *issueHistoryRepository) ListByIssue(ctx context.Context, issueID string) ([]domain.IssueHistory, error) {
	const query = `
        SELECT id, issue_id, changed_by, change_type, old_value, new_value, created_at
        FROM issue_history WHERE issue_id=$1 ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.IssueHistory{}
	for rows.Next() {
		var history domain.IssueHistory
		if err := rows.Scan(
			&history.ID,
			&history.IssueID,
			&history.ChangedBy,
			&history.ChangeType,
			&history.OldValue,
			&history.NewValue,
			&history.CreatedAt,
		); err != nil {
			return nil, err
		}
		history.CreatedAt = history.CreatedAt.UTC()
		result = append(result, history)
	}
	return result, rows.Err()
}

type memoryIssueHistoryRepository struct {
	mu      sync.RWMutex
	entries map[string][]domain.IssueHistory
}

// NewMemoryIssueHistoryRepository returns a process-local implementation.
func NewMemoryIssueHistoryRepository() IssueHistoryRepository {
	return &memoryIssueHistoryRepository{entries: make(map[string][]domain.IssueHistory)}
}

func (r *memoryIssueHistoryRepository) Create(_ context.Context, history *domain.IssueHistory) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[history.IssueID] = append(r.entries[history.IssueID], *history)
	return nil
}

func (r *memoryIssueHistoryRepository) ListByIssue(_ context.Context, issueID string) ([]domain.IssueHistory, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]domain.IssueHistory{}, r.entries[issueID]...), nil
}
