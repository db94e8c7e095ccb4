package sqlite

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/onichandame/porter/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

type RegistryRepository struct {
	db *gorm.DB
}

func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        path,
	}, &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.Exec("PRAGMA foreign_keys=ON").Error; err != nil {
		return nil, err
	}
	return db, nil
}

func NewRegistryRepository(db *gorm.DB) *RegistryRepository {
	return &RegistryRepository{db: db}
}

func (r *RegistryRepository) CreateService(ctx context.Context, value domain.Service) (domain.Service, error) {
	m := ServiceModel{Host: value.Host, Port: value.Port}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return domain.Service{}, translateConstraint(err)
	}
	return toService(m), nil
}

func (r *RegistryRepository) GetService(ctx context.Context, id uint, opts domain.GetOptions) (domain.Service, error) {
	q := r.db.WithContext(ctx)
	if opts.IncludeDeleted {
		q = q.Unscoped()
	}

	var m ServiceModel
	if err := q.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Service{}, domain.NotFoundf("service %d", id)
		}
		return domain.Service{}, err
	}
	return toService(m), nil
}

func (r *RegistryRepository) ListServices(ctx context.Context, opts domain.ListOptions) ([]domain.Service, error) {
	q := r.db.WithContext(ctx).Model(&ServiceModel{})
	if opts.IncludeDeleted {
		q = q.Unscoped()
	}

	rows := make([]ServiceModel, 0)
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Service, 0, len(rows))
	for _, m := range rows {
		result = append(result, toService(m))
	}
	return result, nil
}

func (r *RegistryRepository) UpdateService(ctx context.Context, id uint, update domain.ServiceUpdate) (domain.Service, error) {
	var out domain.Service
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m ServiceModel
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundf("service %d", id)
			}
			return err
		}

		if update.Host != nil {
			m.Host = *update.Host
		}
		if update.Port != nil {
			m.Port = *update.Port
		}
		now := time.Now().UTC()
		m.UpdatedAt = &now

		if err := tx.Save(&m).Error; err != nil {
			return translateConstraint(err)
		}
		out = toService(m)
		return nil
	})
	if err != nil {
		return domain.Service{}, err
	}
	return out, nil
}

func (r *RegistryRepository) SoftDeleteService(ctx context.Context, id uint) error {
	// The default scope skips rows already soft-deleted, so deleting one
	// twice reports not found.
	res := r.db.WithContext(ctx).Delete(&ServiceModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("service %d", id)
	}
	return nil
}

func (r *RegistryRepository) CreateGate(ctx context.Context, value domain.Gate) (domain.Gate, error) {
	var out domain.Gate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireLiveService(tx, value.ServiceID); err != nil {
			return err
		}

		m := GateModel{ServiceID: value.ServiceID, Host: value.Host, Port: value.Port}
		if err := tx.Create(&m).Error; err != nil {
			return translateConstraint(err)
		}
		out = toGate(m)
		return nil
	})
	if err != nil {
		return domain.Gate{}, err
	}
	return out, nil
}

func (r *RegistryRepository) GetGate(ctx context.Context, id uint, opts domain.GetOptions) (domain.Gate, error) {
	q := r.db.WithContext(ctx)
	if opts.IncludeDeleted {
		q = q.Unscoped()
	}

	var m GateModel
	if err := q.First(&m, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Gate{}, domain.NotFoundf("gate %d", id)
		}
		return domain.Gate{}, err
	}
	return toGate(m), nil
}

func (r *RegistryRepository) ListGates(ctx context.Context, opts domain.ListOptions) ([]domain.Gate, error) {
	q := r.db.WithContext(ctx).Model(&GateModel{})
	if opts.IncludeDeleted {
		q = q.Unscoped()
	}

	rows := make([]GateModel, 0)
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]domain.Gate, 0, len(rows))
	for _, m := range rows {
		result = append(result, toGate(m))
	}
	return result, nil
}

func (r *RegistryRepository) UpdateGate(ctx context.Context, id uint, update domain.GateUpdate) (domain.Gate, error) {
	var out domain.Gate
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m GateModel
		if err := tx.First(&m, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.NotFoundf("gate %d", id)
			}
			return err
		}

		if update.ServiceID != nil {
			if err := requireLiveService(tx, *update.ServiceID); err != nil {
				return err
			}
			m.ServiceID = *update.ServiceID
		}
		if update.Host != nil {
			m.Host = *update.Host
		}
		if update.Port != nil {
			m.Port = *update.Port
		}
		now := time.Now().UTC()
		m.UpdatedAt = &now

		if err := tx.Save(&m).Error; err != nil {
			return translateConstraint(err)
		}
		out = toGate(m)
		return nil
	})
	if err != nil {
		return domain.Gate{}, err
	}
	return out, nil
}

func (r *RegistryRepository) SoftDeleteGate(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&GateModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.NotFoundf("gate %d", id)
	}
	return nil
}

// requireLiveService checks the gate's target inside the caller's
// transaction: a missing service id is not found, a soft-deleted one is an
// integrity violation. Gates are never attached to a dead backend.
func requireLiveService(tx *gorm.DB, serviceID uint) error {
	var svc ServiceModel
	if err := tx.Unscoped().First(&svc, serviceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFoundf("service %d", serviceID)
		}
		return err
	}
	if svc.DeletedAt.Valid {
		return domain.Integrityf("service %d is deleted", serviceID)
	}
	return nil
}

func translateConstraint(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "FOREIGN KEY"):
		return domain.Integrityf("%s", msg)
	case strings.Contains(msg, "UNIQUE"):
		return domain.Conflictf("%s", msg)
	}
	return err
}

func toService(m ServiceModel) domain.Service {
	return domain.Service{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt(m.DeletedAt),
		Host:      m.Host,
		Port:      m.Port,
	}
}

func toGate(m GateModel) domain.Gate {
	return domain.Gate{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
		DeletedAt: deletedAt(m.DeletedAt),
		ServiceID: m.ServiceID,
		Host:      m.Host,
		Port:      m.Port,
	}
}

func deletedAt(v gorm.DeletedAt) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}
