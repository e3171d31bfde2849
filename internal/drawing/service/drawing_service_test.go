package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abushana-oss/mithran/internal/drawing/entity"
	"github.com/abushana-oss/mithran/internal/drawing/repository"
	nomentity "github.com/abushana-oss/mithran/internal/nomination/entity"
	nomrepo "github.com/abushana-oss/mithran/internal/nomination/repository"
	"github.com/abushana-oss/mithran/internal/shared/cadengine"
	"github.com/abushana-oss/mithran/internal/testutil"
	"go.uber.org/zap"
)

const testUser = "user-0001"

func setupDrawingService(t *testing.T, cadClient *cadengine.Client) (*DrawingService, string, string) {
	t.Helper()
	db := testutil.NewDB(t,
		&nomentity.Nomination{},
		&nomentity.NominationBOMPart{},
		&nomentity.NominationBOMPartVendor{},
		&entity.Drawing{},
	)
	nomRepos := nomrepo.NewRepositories(db)

	ctx := context.Background()
	nom := &nomentity.Nomination{
		ID:     "nom-0001",
		Name:   "fixture nomination",
		Status: nomentity.NominationStatusDraft,
		UserID: testUser,
	}
	if err := nomRepos.Nomination.Create(ctx, nom); err != nil {
		t.Fatalf("create nomination: %v", err)
	}
	part := &nomentity.NominationBOMPart{
		ID:           "part-0001",
		NominationID: nom.ID,
		Name:         "housing",
	}
	if err := nomRepos.BOMPart.Create(ctx, part); err != nil {
		t.Fatalf("create part: %v", err)
	}
	vendor := &nomentity.NominationBOMPartVendor{
		ID:         "pv-0001",
		PartID:     part.ID,
		SupplierID: "sup-0001",
	}
	if err := db.Create(vendor).Error; err != nil {
		t.Fatalf("create part vendor: %v", err)
	}

	svc := NewDrawingService(
		repository.NewDrawingRepository(db),
		nomRepos,
		nil, "drawings-test", cadClient,
		zap.NewNop(),
	)
	return svc, nom.ID, part.ID
}

func upload(t *testing.T, svc *DrawingService, nomID, partID, fileName string) *entity.Drawing {
	t.Helper()
	content := "ISO-10303-21;"
	d, err := svc.Upload(context.Background(), nomID, testUser, partID,
		strings.NewReader(content), fileName, int64(len(content)), "application/octet-stream")
	if err != nil {
		t.Fatalf("upload %s: %v", fileName, err)
	}
	return d
}

func TestUploadPlainFileSkipsConversion(t *testing.T) {
	svc, nomID, partID := setupDrawingService(t, nil)

	d := upload(t, svc, nomID, partID, "datasheet.pdf")
	if d.STLStatus != entity.STLStatusNone {
		t.Errorf("stl status = %q, want none", d.STLStatus)
	}
	if !strings.HasSuffix(d.ObjectKey, ".pdf") {
		t.Errorf("object key = %q, want .pdf suffix", d.ObjectKey)
	}

	items, err := svc.List(context.Background(), nomID, testUser, partID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 1 {
		t.Errorf("expected 1 drawing, got %d", len(items))
	}
}

func TestUploadStepFileConverts(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("solid part\nendsolid part\n"))
	}))
	defer engine.Close()
	cad := cadengine.NewClient(engine.URL, 5*time.Second, 0, 0)

	svc, nomID, partID := setupDrawingService(t, cad)

	d := upload(t, svc, nomID, partID, "housing.step")
	if d.STLStatus != entity.STLStatusConverted {
		t.Errorf("stl status = %q, want converted", d.STLStatus)
	}
	if !strings.HasSuffix(d.STLObjectKey, ".stl") {
		t.Errorf("stl object key = %q, want .stl suffix", d.STLObjectKey)
	}
}

func TestUploadStepFileConversionFailureIsBestEffort(t *testing.T) {
	engine := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"detail":"failed to read STEP file"}`))
	}))
	defer engine.Close()
	cad := cadengine.NewClient(engine.URL, 5*time.Second, 0, 0)

	svc, nomID, partID := setupDrawingService(t, cad)

	// the upload itself still succeeds
	d := upload(t, svc, nomID, partID, "broken.step")
	if d.STLStatus != entity.STLStatusFailed {
		t.Errorf("stl status = %q, want failed", d.STLStatus)
	}
}

func TestDrawingScopedToPartAndOwner(t *testing.T) {
	svc, nomID, partID := setupDrawingService(t, nil)
	ctx := context.Background()

	upload(t, svc, nomID, partID, "datasheet.pdf")

	if _, err := svc.List(ctx, nomID, "other-user", partID); !errors.Is(err, ErrNotFound) {
		t.Errorf("foreign user list = %v, want ErrNotFound", err)
	}
	if _, err := svc.List(ctx, nomID, testUser, "other-part"); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown part list = %v, want ErrNotFound", err)
	}
}

func TestDeleteDrawing(t *testing.T) {
	svc, nomID, partID := setupDrawingService(t, nil)
	ctx := context.Background()

	d := upload(t, svc, nomID, partID, "datasheet.pdf")
	if err := svc.Delete(ctx, nomID, testUser, partID, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	items, err := svc.List(ctx, nomID, testUser, partID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("expected no drawings after delete, got %d", len(items))
	}
}
