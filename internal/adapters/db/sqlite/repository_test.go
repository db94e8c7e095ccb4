package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/onichandame/porter/internal/domain"
)

func newTestRepo(t *testing.T) *RegistryRepository {
	t.Helper()
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "porter_test.db")

	db, err := Open(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		t.Fatalf("run migrations: %v", err)
	}

	return NewRegistryRepository(db)
}

func TestCreateServiceAssignsIdentityAndTimestamps(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	second, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.2", Port: 8081})
	if err != nil {
		t.Fatalf("create second service: %v", err)
	}

	if first.ID == 0 || second.ID == 0 {
		t.Fatalf("expected assigned ids, got %d and %d", first.ID, second.ID)
	}
	if first.ID == second.ID {
		t.Fatalf("ids must be unique, both are %d", first.ID)
	}
	if first.CreatedAt.IsZero() {
		t.Fatalf("created_at must be set on creation")
	}
	if first.UpdatedAt != nil {
		t.Fatalf("updated_at must be nil before the first mutation, got %v", first.UpdatedAt)
	}
	if first.DeletedAt != nil {
		t.Fatalf("deleted_at must be nil on a fresh record, got %v", first.DeletedAt)
	}
}

func TestUpdateServiceStampsUpdatedAt(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}

	// created_at and updated_at must differ even on a fast machine.
	time.Sleep(10 * time.Millisecond)

	host := "10.0.0.9"
	updated, err := repo.UpdateService(ctx, svc.ID, domain.ServiceUpdate{Host: &host})
	if err != nil {
		t.Fatalf("update service: %v", err)
	}
	if updated.Host != "10.0.0.9" {
		t.Fatalf("expected updated host, got %q", updated.Host)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("updated_at must be set after a mutation")
	}
	if !updated.UpdatedAt.After(updated.CreatedAt) {
		t.Fatalf("updated_at %v must be later than created_at %v", updated.UpdatedAt, updated.CreatedAt)
	}

	read, err := repo.GetService(ctx, svc.ID, domain.GetOptions{})
	if err != nil {
		t.Fatalf("get service: %v", err)
	}
	if read.UpdatedAt == nil || read.Host != "10.0.0.9" {
		t.Fatalf("update not persisted: %+v", read)
	}
}

func TestUpdateServiceUnknownOrDeleted(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	port := 9090
	if _, err := repo.UpdateService(ctx, 999, domain.ServiceUpdate{Port: &port}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown id, got %v", err)
	}

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if err := repo.SoftDeleteService(ctx, svc.ID); err != nil {
		t.Fatalf("soft delete service: %v", err)
	}
	if _, err := repo.UpdateService(ctx, svc.ID, domain.ServiceUpdate{Port: &port}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for deleted record, got %v", err)
	}
}

func TestSoftDeleteServiceVisibility(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if err := repo.SoftDeleteService(ctx, svc.ID); err != nil {
		t.Fatalf("soft delete service: %v", err)
	}

	if _, err := repo.GetService(ctx, svc.ID, domain.GetOptions{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default get must not see deleted record, got %v", err)
	}

	read, err := repo.GetService(ctx, svc.ID, domain.GetOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("get with include_deleted: %v", err)
	}
	if read.DeletedAt == nil {
		t.Fatalf("deleted record must carry deleted_at")
	}
	if !read.Deleted() {
		t.Fatalf("Deleted() must report true for a soft-deleted record")
	}

	// Double delete is terminal, not idempotent.
	if err := repo.SoftDeleteService(ctx, svc.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestCreateGateRequiresLiveService(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	if _, err := repo.CreateGate(ctx, domain.Gate{ServiceID: 999, Host: "x", Port: 80}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing service, got %v", err)
	}

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	if err := repo.SoftDeleteService(ctx, svc.ID); err != nil {
		t.Fatalf("soft delete service: %v", err)
	}
	if _, err := repo.CreateGate(ctx, domain.Gate{ServiceID: svc.ID, Host: "0.0.0.0", Port: 443}); !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity for deleted service, got %v", err)
	}
}

func TestServiceDeleteDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	gate, err := repo.CreateGate(ctx, domain.Gate{ServiceID: svc.ID, Host: "0.0.0.0", Port: 443})
	if err != nil {
		t.Fatalf("create gate: %v", err)
	}
	if gate.ServiceID != svc.ID {
		t.Fatalf("gate must reference service %d, got %d", svc.ID, gate.ServiceID)
	}

	if err := repo.SoftDeleteService(ctx, svc.ID); err != nil {
		t.Fatalf("soft delete service: %v", err)
	}

	gates, err := repo.ListGates(ctx, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list gates: %v", err)
	}
	if len(gates) != 1 || gates[0].ID != gate.ID {
		t.Fatalf("gate must survive its service's deletion, got %+v", gates)
	}
	if gates[0].DeletedAt != nil || gates[0].UpdatedAt != nil {
		t.Fatalf("gate must be untouched by service deletion: %+v", gates[0])
	}

	services, err := repo.ListServices(ctx, domain.ListOptions{})
	if err != nil {
		t.Fatalf("list services: %v", err)
	}
	if len(services) != 0 {
		t.Fatalf("default list must omit deleted service, got %+v", services)
	}

	all, err := repo.ListServices(ctx, domain.ListOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("list services with include_deleted: %v", err)
	}
	if len(all) != 1 || all[0].DeletedAt == nil {
		t.Fatalf("include_deleted list must show the deleted service, got %+v", all)
	}
}

func TestUpdateGateRetarget(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	first, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create first service: %v", err)
	}
	second, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.2", Port: 8081})
	if err != nil {
		t.Fatalf("create second service: %v", err)
	}
	gate, err := repo.CreateGate(ctx, domain.Gate{ServiceID: first.ID, Host: "0.0.0.0", Port: 443})
	if err != nil {
		t.Fatalf("create gate: %v", err)
	}

	updated, err := repo.UpdateGate(ctx, gate.ID, domain.GateUpdate{ServiceID: &second.ID})
	if err != nil {
		t.Fatalf("retarget gate: %v", err)
	}
	if updated.ServiceID != second.ID {
		t.Fatalf("expected gate to point at service %d, got %d", second.ID, updated.ServiceID)
	}
	if updated.UpdatedAt == nil {
		t.Fatalf("updated_at must be set after retargeting")
	}

	if err := repo.SoftDeleteService(ctx, second.ID); err != nil {
		t.Fatalf("soft delete second service: %v", err)
	}
	if _, err := repo.UpdateGate(ctx, gate.ID, domain.GateUpdate{ServiceID: &second.ID}); !errors.Is(err, domain.ErrIntegrity) {
		t.Fatalf("expected ErrIntegrity when retargeting to deleted service, got %v", err)
	}

	missing := uint(999)
	if _, err := repo.UpdateGate(ctx, gate.ID, domain.GateUpdate{ServiceID: &missing}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound when retargeting to missing service, got %v", err)
	}
}

func TestSoftDeleteGate(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepo(t)

	svc, err := repo.CreateService(ctx, domain.Service{Host: "10.0.0.1", Port: 8080})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	gate, err := repo.CreateGate(ctx, domain.Gate{ServiceID: svc.ID, Host: "0.0.0.0", Port: 443})
	if err != nil {
		t.Fatalf("create gate: %v", err)
	}

	if err := repo.SoftDeleteGate(ctx, gate.ID); err != nil {
		t.Fatalf("soft delete gate: %v", err)
	}
	if _, err := repo.GetGate(ctx, gate.ID, domain.GetOptions{}); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("default get must not see deleted gate, got %v", err)
	}
	read, err := repo.GetGate(ctx, gate.ID, domain.GetOptions{IncludeDeleted: true})
	if err != nil {
		t.Fatalf("get deleted gate: %v", err)
	}
	if !read.Deleted() {
		t.Fatalf("expected deleted gate, got %+v", read)
	}

	// The service is untouched by its gate's deletion.
	if _, err := repo.GetService(ctx, svc.ID, domain.GetOptions{}); err != nil {
		t.Fatalf("service must stay live: %v", err)
	}

	if err := repo.SoftDeleteGate(ctx, 999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown gate, got %v", err)
	}
}
