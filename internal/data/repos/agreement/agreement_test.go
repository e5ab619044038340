package agreement

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/znznow/agreements-backend/internal/data/repos/testutil"
	"github.com/znznow/agreements-backend/internal/domain"
)

func seedAgreement(t *testing.T, repo AgreementRepo, vendor, status, level string, createdAt time.Time) *domain.Agreement {
	t.Helper()
	rec := &domain.Agreement{
		ID:                 uuid.NewString(),
		VendorName:         vendor,
		VendorEmail:        vendor + "@example.com",
		VendorRegistration: "REG-001",
		ContactPerson:      "Test Person",
		PartnershipLevel:   level,
		Status:             status,
		CreatedAt:          createdAt,
	}
	if err := repo.Create(context.Background(), nil, rec); err != nil {
		t.Fatalf("Create: %v", err)
	}
	return rec
}

func TestCreateAndGetByID(t *testing.T) {
	gdb, log := testutil.OpenDB(t)
	repo := NewAgreementRepo(gdb, log)

	rec := seedAgreement(t, repo, "Spice Tours", domain.StatusSigned, domain.PartnershipGrowth, time.Now().UTC())

	got, err := repo.GetByID(context.Background(), nil, rec.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.VendorName != "Spice Tours" {
		t.Fatalf("vendor name = %q, want %q", got.VendorName, "Spice Tours")
	}
	if got.Status != domain.StatusSigned {
		t.Fatalf("status = %q, want %q", got.Status, domain.StatusSigned)
	}

	if _, err := repo.GetByID(context.Background(), nil, "no-such-id"); err != gorm.ErrRecordNotFound {
		t.Fatalf("GetByID unknown id err = %v, want gorm.ErrRecordNotFound", err)
	}
}

func TestListPagination(t *testing.T) {
	gdb, log := testutil.OpenDB(t)
	repo := NewAgreementRepo(gdb, log)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		seedAgreement(t, repo, fmt.Sprintf("Vendor %d", i), domain.StatusSigned, "", base.Add(time.Duration(i)*time.Minute))
	}

	rows, total, err := repo.List(context.Background(), nil, 1, 2, "")
	if err != nil {
		t.Fatalf("List page 1: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(rows) != 2 {
		t.Fatalf("page 1 rows = %d, want 2", len(rows))
	}
	// Newest first.
	if rows[0].VendorName != "Vendor 4" {
		t.Fatalf("first row = %q, want Vendor 4", rows[0].VendorName)
	}

	rows, _, err = repo.List(context.Background(), nil, 3, 2, "")
	if err != nil {
		t.Fatalf("List page 3: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("page 3 rows = %d, want 1", len(rows))
	}
	if rows[0].VendorName != "Vendor 0" {
		t.Fatalf("last row = %q, want Vendor 0", rows[0].VendorName)
	}

	rows, _, err = repo.List(context.Background(), nil, 4, 2, "")
	if err != nil {
		t.Fatalf("List past end: %v", err)
	}
	if len(rows) != 0 {
		t.Fatalf("past-end rows = %d, want 0", len(rows))
	}
}

func TestListStatusFilter(t *testing.T) {
	gdb, log := testutil.OpenDB(t)
	repo := NewAgreementRepo(gdb, log)

	now := time.Now().UTC()
	seedAgreement(t, repo, "Signed One", domain.StatusSigned, "", now)
	seedAgreement(t, repo, "Signed Two", domain.StatusSigned, "", now.Add(time.Second))
	seedAgreement(t, repo, "Pending One", domain.StatusPending, "", now.Add(2*time.Second))

	rows, total, err := repo.List(context.Background(), nil, 1, 20, domain.StatusPending)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(rows) != 1 {
		t.Fatalf("filtered total=%d rows=%d, want 1/1", total, len(rows))
	}
	if rows[0].VendorName != "Pending One" {
		t.Fatalf("filtered row = %q, want Pending One", rows[0].VendorName)
	}
}

func TestAggregate(t *testing.T) {
	gdb, log := testutil.OpenDB(t)
	repo := NewAgreementRepo(gdb, log)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		level := domain.PartnershipStrategic
		if i%2 == 0 {
			level = domain.PartnershipGrowth
		}
		seedAgreement(t, repo, fmt.Sprintf("Vendor %d", i), domain.StatusSigned, level, base.Add(time.Duration(i)*time.Minute))
	}

	stats, err := repo.Aggregate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Aggregate: %v", err)
	}
	if stats.Total != 7 {
		t.Fatalf("total = %d, want 7", stats.Total)
	}
	if stats.ByStatus[domain.StatusSigned] != 7 {
		t.Fatalf("by_status[signed] = %d, want 7", stats.ByStatus[domain.StatusSigned])
	}
	if stats.ByPartnership[domain.PartnershipGrowth] != 4 {
		t.Fatalf("by_partnership[growth] = %d, want 4", stats.ByPartnership[domain.PartnershipGrowth])
	}
	if stats.ByPartnership[domain.PartnershipStrategic] != 3 {
		t.Fatalf("by_partnership[strategic] = %d, want 3", stats.ByPartnership[domain.PartnershipStrategic])
	}
	if len(stats.Recent) != 5 {
		t.Fatalf("recent = %d entries, want 5", len(stats.Recent))
	}
	if stats.Recent[0].VendorName != "Vendor 6" {
		t.Fatalf("recent[0] = %q, want Vendor 6", stats.Recent[0].VendorName)
	}
}

func TestAppendLog(t *testing.T) {
	gdb, log := testutil.OpenDB(t)
	repo := NewAgreementRepo(gdb, log)

	rec := seedAgreement(t, repo, "Spice Tours", domain.StatusSigned, "", time.Now().UTC())

	err := repo.AppendLog(context.Background(), nil, rec.ID, "created", map[string]any{"vendor": "Spice Tours"})
	if err != nil {
		t.Fatalf("AppendLog: %v", err)
	}
	err = repo.AppendLog(context.Background(), nil, rec.ID, "email_sent", nil)
	if err != nil {
		t.Fatalf("AppendLog without details: %v", err)
	}

	var entries []domain.AgreementLog
	if err := gdb.Where("agreement_id = ?", rec.ID).Order("id ASC").Find(&entries).Error; err != nil {
		t.Fatalf("load log entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0].Action != "created" || entries[1].Action != "email_sent" {
		t.Fatalf("actions = %q, %q", entries[0].Action, entries[1].Action)
	}

	var details map[string]any
	if err := json.Unmarshal(entries[0].Details, &details); err != nil {
		t.Fatalf("details not valid JSON: %v", err)
	}
	if details["vendor"] != "Spice Tours" {
		t.Fatalf("details vendor = %v", details["vendor"])
	}
	if len(entries[1].Details) != 0 {
		t.Fatalf("empty details stored as %s", entries[1].Details)
	}
}
