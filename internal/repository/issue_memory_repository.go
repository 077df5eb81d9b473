package repository

import (
	"context"
	"sync"

	"github.com/campusvoice/issue-service/internal/domain"
)

type memoryIssueRepository struct {
	mu     sync.RWMutex
	order  []string
	issues map[string]*domain.Issue
}

// NewMemoryIssueRepository returns a process-local implementation that keeps
// insertion order.
func NewMemoryIssueRepository() IssueRepository {
	return &memoryIssueRepository{issues: make(map[string]*domain.Issue)}
}

func (r *memoryIssueRepository) Create(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.issues[issue.ID]; exists {
		return ErrDuplicateID
	}
	issue.Version = 1
	r.issues[issue.ID] = issue.Clone()
	r.order = append(r.order, issue.ID)
	return nil
}

func (r *memoryIssueRepository) Update(_ context.Context, issue *domain.Issue) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.issues[issue.ID]
	if !ok {
		return ErrNotFound
	}
	if stored.Version != issue.Version {
		return ErrVersionConflict
	}
	issue.Version++
	r.issues[issue.ID] = issue.Clone()
	return nil
}

func (r *memoryIssueRepository) GetByID(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored, ok := r.issues[id]
	if !ok {
		return nil, ErrNotFound
	}
	return stored.Clone(), nil
}

func (r *memoryIssueRepository) List(_ context.Context) ([]domain.Issue, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]domain.Issue, 0, len(r.order))
	for _, id := range r.order {
		result = append(result, *r.issues[id].Clone())
	}
	return result, nil
}
