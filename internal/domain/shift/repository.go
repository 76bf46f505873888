package shift

import "context"

type ShiftRepository interface {
	GetByID(ctx context.Context, id string) (Shift, error)
	List(ctx context.Context) ([]Shift, error)
	Create(ctx context.Context, newShift Shift) (Shift, error)
}
