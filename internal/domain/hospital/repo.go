package hospital

import "context"

type Repository interface {
	All(ctx context.Context) ([]*Hospital, error)
	GetByID(ctx context.Context, id string) (*Hospital, error)
	List(ctx context.Context, limit, offset int) ([]*Hospital, int, error)
}
