package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/abushana-oss/mithran/internal/production/entity"
	"github.com/abushana-oss/mithran/internal/production/repository"
	"github.com/abushana-oss/mithran/internal/testutil"
	"go.uber.org/zap"
)

const testUser = "user-0001"

func setupProductionService(t *testing.T) *ProductionService {
	t.Helper()
	db := testutil.NewDB(t, &entity.ProductionLot{}, &entity.ProductionEntry{})
	lotRepo := repository.NewLotRepository(db)
	entryRepo := repository.NewEntryRepository(db)
	return NewProductionService(lotRepo, entryRepo, zap.NewNop())
}

func createLot(t *testing.T, svc *ProductionService, lotNumber string) *entity.ProductionLot {
	t.Helper()
	lot, err := svc.CreateLot(context.Background(), testUser, &CreateLotRequest{
		LotNumber: lotNumber,
		PartName:  "bracket",
		Quantity:  500,
	})
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}
	return lot
}

func day(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("parse date %s: %v", value, err)
	}
	return d
}

func TestCreateLotRejectsDuplicateNumber(t *testing.T) {
	svc := setupProductionService(t)
	createLot(t, svc, "LOT-2025-001")

	_, err := svc.CreateLot(context.Background(), testUser, &CreateLotRequest{LotNumber: "LOT-2025-001"})
	if !errors.Is(err, ErrLotNumberExists) {
		t.Errorf("duplicate lot number = %v, want ErrLotNumberExists", err)
	}
}

func TestCreateEntryRejectsTupleConflict(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()
	lot := createLot(t, svc, "LOT-2025-002")

	base := EntryInput{
		ProcessID:   "proc-milling",
		EntryDate:   day(t, "2025-10-06"),
		Shift:       entity.ShiftMorning,
		TargetQty:   100,
		ProducedQty: 90,
	}
	if _, err := svc.CreateEntry(ctx, lot.ID, &base); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	// same lot, process, date and shift: rejected
	if _, err := svc.CreateEntry(ctx, lot.ID, &base); !errors.Is(err, ErrEntryConflict) {
		t.Errorf("duplicate tuple = %v, want ErrEntryConflict", err)
	}

	// a different time of day on the same date is still the same tuple
	sameDay := base
	sameDay.EntryDate = base.EntryDate.Add(14 * time.Hour)
	if _, err := svc.CreateEntry(ctx, lot.ID, &sameDay); !errors.Is(err, ErrEntryConflict) {
		t.Errorf("same date different hour = %v, want ErrEntryConflict", err)
	}

	// changing any element of the tuple lifts the conflict
	afternoon := base
	afternoon.Shift = entity.ShiftAfternoon
	if _, err := svc.CreateEntry(ctx, lot.ID, &afternoon); err != nil {
		t.Errorf("afternoon shift rejected: %v", err)
	}
}

func TestUpdateEntryChecksConflictOnTupleChange(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()
	lot := createLot(t, svc, "LOT-2025-003")

	first, err := svc.CreateEntry(ctx, lot.ID, &EntryInput{
		ProcessID: "proc-a", EntryDate: day(t, "2025-10-06"), Shift: entity.ShiftMorning,
	})
	if err != nil {
		t.Fatalf("create first entry: %v", err)
	}
	second, err := svc.CreateEntry(ctx, lot.ID, &EntryInput{
		ProcessID: "proc-a", EntryDate: day(t, "2025-10-06"), Shift: entity.ShiftNight,
	})
	if err != nil {
		t.Fatalf("create second entry: %v", err)
	}

	morning := entity.ShiftMorning
	if _, err := svc.UpdateEntry(ctx, lot.ID, second.ID, &UpdateEntryRequest{Shift: &morning}); !errors.Is(err, ErrEntryConflict) {
		t.Errorf("update into occupied tuple = %v, want ErrEntryConflict", err)
	}

	// updating quantities without touching the tuple never conflicts
	qty := 80.0
	if _, err := svc.UpdateEntry(ctx, lot.ID, first.ID, &UpdateEntryRequest{ProducedQty: &qty}); err != nil {
		t.Errorf("quantity-only update: %v", err)
	}
}

func TestGetWeeklySummaryGroupsBySundayWeek(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()
	lot := createLot(t, svc, "LOT-2025-004")

	// 2025-10-08 (Wed) and 2025-10-09 (Thu) share the week of Sunday 2025-10-05;
	// 2025-10-12 is the next Sunday and opens a new bucket
	entries := []EntryInput{
		{ProcessID: "p", EntryDate: day(t, "2025-10-08"), Shift: entity.ShiftMorning, TargetQty: 10, ProducedQty: 8, DowntimeMinutes: 15},
		{ProcessID: "p", EntryDate: day(t, "2025-10-09"), Shift: entity.ShiftMorning, TargetQty: 10, ProducedQty: 9, DowntimeMinutes: 5},
		{ProcessID: "p", EntryDate: day(t, "2025-10-12"), Shift: entity.ShiftMorning, TargetQty: 20, ProducedQty: 20},
	}
	for i := range entries {
		if _, err := svc.CreateEntry(ctx, lot.ID, &entries[i]); err != nil {
			t.Fatalf("create entry %d: %v", i, err)
		}
	}

	buckets, err := svc.GetWeeklySummary(ctx, lot.ID)
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("expected 2 week buckets, got %d", len(buckets))
	}

	first := buckets[0]
	if first.WeekStart != "2025-10-05" {
		t.Errorf("week start = %s, want 2025-10-05", first.WeekStart)
	}
	if first.TargetQty != 20 || first.ProducedQty != 17 {
		t.Errorf("first week qty = %v/%v, want 20/17", first.TargetQty, first.ProducedQty)
	}
	if first.DowntimeMinutes != 20 {
		t.Errorf("first week downtime = %v, want 20", first.DowntimeMinutes)
	}
	if first.Efficiency != 85 {
		t.Errorf("first week efficiency = %d, want 85", first.Efficiency)
	}

	second := buckets[1]
	if second.WeekStart != "2025-10-12" {
		t.Errorf("second week start = %s, want 2025-10-12", second.WeekStart)
	}
	if second.Efficiency != 100 {
		t.Errorf("second week efficiency = %d, want 100", second.Efficiency)
	}
}

func TestGetWeeklySummaryZeroTarget(t *testing.T) {
	svc := setupProductionService(t)
	ctx := context.Background()
	lot := createLot(t, svc, "LOT-2025-005")

	if _, err := svc.CreateEntry(ctx, lot.ID, &EntryInput{
		ProcessID: "p", EntryDate: day(t, "2025-10-08"), Shift: entity.ShiftMorning, ProducedQty: 12,
	}); err != nil {
		t.Fatalf("create entry: %v", err)
	}

	buckets, err := svc.GetWeeklySummary(ctx, lot.ID)
	if err != nil {
		t.Fatalf("weekly summary: %v", err)
	}
	if len(buckets) != 1 {
		t.Fatalf("expected 1 bucket, got %d", len(buckets))
	}
	if buckets[0].Efficiency != 0 {
		t.Errorf("efficiency with zero target = %d, want 0", buckets[0].Efficiency)
	}
}
