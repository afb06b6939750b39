package lead

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"leadengage/internal/tenant"
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

type Service struct {
	repo    *Repository
	timeout time.Duration
	now     func() time.Time
}

// NewService creates the lead service. timeout bounds every store call.
func NewService(repo *Repository, timeout time.Duration) *Service {
	return &Service{repo: repo, timeout: timeout, now: time.Now}
}

func (s *Service) List(ctx context.Context, scoped *tenant.Scoped, f ListFilter) (*ListResponse, error) {
	if f.Limit <= 0 {
		f.Limit = defaultListLimit
	}
	if f.Limit > maxListLimit {
		f.Limit = maxListLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	leads, total, err := s.repo.List(ctx, scoped, f)
	if err != nil {
		return nil, err
	}
	if leads == nil {
		leads = []Lead{}
	}
	return &ListResponse{Leads: leads, Total: total}, nil
}

func (s *Service) Get(ctx context.Context, scoped *tenant.Scoped, id uuid.UUID) (*Lead, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.repo.Get(ctx, scoped, id)
}

// UpdateStatus sets a new status. History grows only when the status changes.
func (s *Service) UpdateStatus(ctx context.Context, scoped *tenant.Scoped, id uuid.UUID, status string) (*Lead, error) {
	status = strings.TrimSpace(status)
	if status == "" {
		return nil, ErrEmptyStatus
	}

	ctx, cancel := s.bound(ctx)
	defer cancel()

	l, err := s.repo.Get(ctx, scoped, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	history, changed := AppendStatus(l.StatusHistory, l.Status, status, now)
	if !changed {
		return l, nil
	}
	if err := s.repo.UpdateStatus(ctx, scoped, id, l.Status, status, history, now); err != nil {
		return nil, err
	}
	l.Status = status
	l.StatusHistory = history
	l.UpdatedAt = now
	return l, nil
}

func (s *Service) Delete(ctx context.Context, scoped *tenant.Scoped, id uuid.UUID) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	return s.repo.Delete(ctx, scoped, id)
}

func (s *Service) Stats(ctx context.Context, scoped *tenant.Scoped) (*StatsResponse, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	counts, err := s.repo.CountByStatus(ctx, scoped)
	if err != nil {
		return nil, err
	}
	var total int64
	for _, n := range counts {
		total += n
	}
	return &StatsResponse{ByStatus: counts, Total: total}, nil
}

func (s *Service) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.timeout)
}
