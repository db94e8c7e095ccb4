package domain

import "time"

// Service is a backend endpoint that gates forward traffic to.
type Service struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	Host      string
	Port      int
}

// Deleted reports whether the service has been soft-deleted.
func (s Service) Deleted() bool { return s.DeletedAt != nil }

// Gate is a front-facing endpoint bound to exactly one service.
type Gate struct {
	ID        uint
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	ServiceID uint
	Host      string
	Port      int
}

func (g Gate) Deleted() bool { return g.DeletedAt != nil }

// ServiceUpdate carries the mutable service fields; nil means leave unchanged.
type ServiceUpdate struct {
	Host *string
	Port *int
}

func (u ServiceUpdate) Empty() bool { return u.Host == nil && u.Port == nil }

// GateUpdate carries the mutable gate fields; nil means leave unchanged.
type GateUpdate struct {
	ServiceID *uint
	Host      *string
	Port      *int
}

func (u GateUpdate) Empty() bool { return u.ServiceID == nil && u.Host == nil && u.Port == nil }

// GetOptions controls single-record reads. Soft-deleted records are
// invisible unless IncludeDeleted is set.
type GetOptions struct {
	IncludeDeleted bool
}

// ListOptions controls list reads, with the same visibility rule.
type ListOptions struct {
	IncludeDeleted bool
}
