package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/helioslabs/billgate/internal/customer/domain"
	"github.com/helioslabs/billgate/internal/customer/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:memdb_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db pool: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.AutoMigrate(&domain.CustomerLink{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

type fakeVendorCustomers struct {
	calls int
	err   error

	// beforeReturn runs after the vendor call succeeds but before the
	// service persists the link, to simulate a racing writer.
	beforeReturn func()
}

func (f *fakeVendorCustomers) NewCustomer(ctx context.Context, orgID string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	if f.beforeReturn != nil {
		f.beforeReturn()
	}
	return fmt.Sprintf("cus_%s_%d", orgID, f.calls), nil
}

func newDirectory(db *gorm.DB, customers domain.VendorCustomers) domain.Service {
	return New(Params{
		DB:        db,
		Log:       zap.NewNop(),
		Repo:      repository.Provide(),
		Customers: customers,
	})
}

func TestResolveCreatesVendorCustomerOnce(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	vendor := &fakeVendorCustomers{}
	svc := newDirectory(db, vendor)

	first, err := svc.Resolve(ctx, "org_1")
	if err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	if first == "" {
		t.Fatal("expected a customer handle")
	}

	second, err := svc.Resolve(ctx, "org_1")
	if err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if second != first {
		t.Fatalf("expected stable handle, got %s then %s", first, second)
	}
	if vendor.calls != 1 {
		t.Fatalf("expected one vendor call, got %d", vendor.calls)
	}
}

func TestResolveReturnsStoredHandleOnRace(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	repo := repository.Provide()

	vendor := &fakeVendorCustomers{}
	vendor.beforeReturn = func() {
		// A concurrent request linked the org while our vendor call was
		// in flight.
		_, err := repo.Insert(ctx, db, &domain.CustomerLink{
			OrgID:              "org_1",
			Provider:           "stripe",
			ProviderCustomerID: "cus_winner",
			CreatedAt:          time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("racing insert: %v", err)
		}
	}

	svc := newDirectory(db, vendor)
	handle, err := svc.Resolve(ctx, "org_1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if handle != "cus_winner" {
		t.Fatalf("expected the stored handle cus_winner, got %s", handle)
	}
}

func TestResolveVendorFailure(t *testing.T) {
	db := setupTestDB(t)
	vendor := &fakeVendorCustomers{err: errors.New("stripe: connection reset")}
	svc := newDirectory(db, vendor)

	_, err := svc.Resolve(context.Background(), "org_1")
	if !errors.Is(err, domain.ErrLookupFailed) {
		t.Fatalf("expected ErrLookupFailed, got %v", err)
	}

	stored, repoErr := repository.Provide().FindByOrg(context.Background(), db, "org_1")
	if repoErr != nil {
		t.Fatalf("find: %v", repoErr)
	}
	if stored != nil {
		t.Fatalf("expected no link persisted after vendor failure, got %+v", stored)
	}
}

func TestResolveRejectsEmptyOrganization(t *testing.T) {
	svc := newDirectory(setupTestDB(t), &fakeVendorCustomers{})

	_, err := svc.Resolve(context.Background(), "  ")
	if !errors.Is(err, domain.ErrInvalidOrganization) {
		t.Fatalf("expected ErrInvalidOrganization, got %v", err)
	}
}
