package application

import (
	"context"
	"strings"

	"github.com/onichandame/porter/internal/domain"
)

// RegistryService validates operator input and applies the registry
// lifecycle policy before handing off to the persistence port.
type RegistryService struct {
	repo domain.Registry
}

func NewRegistryService(repo domain.Registry) *RegistryService {
	return &RegistryService{repo: repo}
}

func (s *RegistryService) CreateService(ctx context.Context, host string, port int) (domain.Service, error) {
	if err := validateEndpoint(host, port); err != nil {
		return domain.Service{}, err
	}

	return s.repo.CreateService(ctx, domain.Service{
		Host: strings.TrimSpace(host),
		Port: port,
	})
}

func (s *RegistryService) GetService(ctx context.Context, id uint, includeDeleted bool) (domain.Service, error) {
	if id == 0 {
		return domain.Service{}, domain.Validationf("service id is required")
	}
	return s.repo.GetService(ctx, id, domain.GetOptions{IncludeDeleted: includeDeleted})
}

func (s *RegistryService) ListServices(ctx context.Context, includeDeleted bool) ([]domain.Service, error) {
	return s.repo.ListServices(ctx, domain.ListOptions{IncludeDeleted: includeDeleted})
}

func (s *RegistryService) UpdateService(ctx context.Context, id uint, update domain.ServiceUpdate) (domain.Service, error) {
	if id == 0 {
		return domain.Service{}, domain.Validationf("service id is required")
	}
	if update.Empty() {
		return domain.Service{}, domain.Validationf("no fields to update")
	}
	if err := validateUpdate(update.Host, update.Port); err != nil {
		return domain.Service{}, err
	}
	if update.Host != nil {
		trimmed := strings.TrimSpace(*update.Host)
		update.Host = &trimmed
	}

	return s.repo.UpdateService(ctx, id, update)
}

func (s *RegistryService) SoftDeleteService(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validationf("service id is required")
	}
	return s.repo.SoftDeleteService(ctx, id)
}

// CreateGate registers a gate for an existing live service. The repository
// rejects unknown service ids with ErrNotFound and soft-deleted ones with
// ErrIntegrity; new gates are never attached to a dead backend.
func (s *RegistryService) CreateGate(ctx context.Context, serviceID uint, host string, port int) (domain.Gate, error) {
	if serviceID == 0 {
		return domain.Gate{}, domain.Validationf("service id is required")
	}
	if err := validateEndpoint(host, port); err != nil {
		return domain.Gate{}, err
	}

	return s.repo.CreateGate(ctx, domain.Gate{
		ServiceID: serviceID,
		Host:      strings.TrimSpace(host),
		Port:      port,
	})
}

func (s *RegistryService) GetGate(ctx context.Context, id uint, includeDeleted bool) (domain.Gate, error) {
	if id == 0 {
		return domain.Gate{}, domain.Validationf("gate id is required")
	}
	return s.repo.GetGate(ctx, id, domain.GetOptions{IncludeDeleted: includeDeleted})
}

func (s *RegistryService) ListGates(ctx context.Context, includeDeleted bool) ([]domain.Gate, error) {
	return s.repo.ListGates(ctx, domain.ListOptions{IncludeDeleted: includeDeleted})
}

func (s *RegistryService) UpdateGate(ctx context.Context, id uint, update domain.GateUpdate) (domain.Gate, error) {
	if id == 0 {
		return domain.Gate{}, domain.Validationf("gate id is required")
	}
	if update.Empty() {
		return domain.Gate{}, domain.Validationf("no fields to update")
	}
	if update.ServiceID != nil && *update.ServiceID == 0 {
		return domain.Gate{}, domain.Validationf("service id is required")
	}
	if err := validateUpdate(update.Host, update.Port); err != nil {
		return domain.Gate{}, err
	}
	if update.Host != nil {
		trimmed := strings.TrimSpace(*update.Host)
		update.Host = &trimmed
	}

	return s.repo.UpdateGate(ctx, id, update)
}

func (s *RegistryService) SoftDeleteGate(ctx context.Context, id uint) error {
	if id == 0 {
		return domain.Validationf("gate id is required")
	}
	return s.repo.SoftDeleteGate(ctx, id)
}

func validateEndpoint(host string, port int) error {
	if strings.TrimSpace(host) == "" {
		return domain.Validationf("host is required")
	}
	return validatePort(port)
}

func validateUpdate(host *string, port *int) error {
	if host != nil && strings.TrimSpace(*host) == "" {
		return domain.Validationf("host is required")
	}
	if port != nil {
		return validatePort(*port)
	}
	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return domain.Validationf("port %d out of range 1-65535", port)
	}
	return nil
}
