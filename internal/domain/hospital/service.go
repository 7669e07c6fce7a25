package hospital

import (
	"context"
	"fmt"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// All returns every hospital in dataset order. The routing engine consumes
// this; filter and selection stages rely on the order being stable.
func (s *Service) All(ctx context.Context) ([]*Hospital, error) {
	return s.repo.All(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (*Hospital, error) {
	if id == "" {
		return nil, fmt.Errorf("hospital id is required")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Hospital, int, error) {
	return s.repo.List(ctx, limit, offset)
}
