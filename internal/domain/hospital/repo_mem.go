package hospital

import (
	"context"
	"fmt"
)

type memRepo struct {
	hospitals []*Hospital
}

// NewMemRepository returns a Repository over a fixed in-memory slice,
// preserving its order. Used by tests and ad-hoc datasets.
func NewMemRepository(hospitals []*Hospital) Repository {
	return &memRepo{hospitals: hospitals}
}

func (r *memRepo) All(_ context.Context) ([]*Hospital, error) {
	out := make([]*Hospital, len(r.hospitals))
	copy(out, r.hospitals)
	return out, nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*Hospital, error) {
	for _, h := range r.hospitals {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, fmt.Errorf("hospital %s not found", id)
}

func (r *memRepo) List(_ context.Context, limit, offset int) ([]*Hospital, int, error) {
	total := len(r.hospitals)
	if offset >= total {
		return []*Hospital{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]*Hospital, end-offset)
	copy(out, r.hospitals[offset:end])
	return out, total, nil
}
