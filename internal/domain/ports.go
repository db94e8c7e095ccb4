package domain

import "context"

// Registry is the persistence port for services and gates. Implementations
// must assign ids, stamp created_at on insert, stamp updated_at on every
// mutation, and run each mutating operation atomically with the existence
// checks it depends on. Records are only ever soft-deleted.
type Registry interface {
	CreateService(ctx context.Context, value Service) (Service, error)
	GetService(ctx context.Context, id uint, opts GetOptions) (Service, error)
	ListServices(ctx context.Context, opts ListOptions) ([]Service, error)
	UpdateService(ctx context.Context, id uint, update ServiceUpdate) (Service, error)
	SoftDeleteService(ctx context.Context, id uint) error

	CreateGate(ctx context.Context, value Gate) (Gate, error)
	GetGate(ctx context.Context, id uint, opts GetOptions) (Gate, error)
	ListGates(ctx context.Context, opts ListOptions) ([]Gate, error)
	UpdateGate(ctx context.Context, id uint, update GateUpdate) (Gate, error)
	SoftDeleteGate(ctx context.Context, id uint) error
}
