package handler

import (
	"net/http"
	"testing"

	"github.com/abushana-oss/mithran/internal/middleware"
	"github.com/abushana-oss/mithran/internal/supplier/entity"
	"github.com/abushana-oss/mithran/internal/supplier/repository"
	"github.com/abushana-oss/mithran/internal/supplier/service"
	"github.com/abushana-oss/mithran/internal/testutil"
	"github.com/gin-gonic/gin"
)

func setupSupplierRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := testutil.NewDB(t, &entity.Supplier{})
	h := NewSupplierHandler(service.NewSupplierService(repository.NewSupplierRepository(db)))

	return testutil.NewRouter(func(v1 *gin.RouterGroup) {
		suppliers := v1.Group("/suppliers")
		{
			suppliers.GET("", h.ListSuppliers)
			suppliers.GET("/:id", h.GetSupplier)
			suppliers.POST("", h.CreateSupplier)
			suppliers.PUT("/:id", h.UpdateSupplier)
			suppliers.DELETE("/:id", middleware.RequireRole("admin"), h.DeleteSupplier)
		}
	})
}

func createSupplier(t *testing.T, r *gin.Engine, token, code, name string) entity.Supplier {
	t.Helper()
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/suppliers", token, map[string]interface{}{
		"code": code,
		"name": name,
		"type": "manufacturer",
	})
	testutil.RequireStatus(t, w, http.StatusCreated)
	var supplier entity.Supplier
	testutil.ParseResponse(t, w, &supplier)
	return supplier
}

func TestSupplierCRUD(t *testing.T) {
	r := setupSupplierRouter(t)
	token := testutil.Token(t, "user-1")

	created := createSupplier(t, r, token, "SUP-001", "宁波精密机械")
	if created.ID == "" {
		t.Fatal("created supplier has no id")
	}
	if created.Status != entity.SupplierStatusPending {
		t.Errorf("status = %q, want pending", created.Status)
	}

	w := testutil.DoRequest(t, r, http.MethodGet, "/api/v1/suppliers/"+created.ID, token, nil)
	testutil.RequireStatus(t, w, http.StatusOK)

	name := "updated"
	w = testutil.DoRequest(t, r, http.MethodPut, "/api/v1/suppliers/"+created.ID, token, map[string]interface{}{
		"name": name,
	})
	testutil.RequireStatus(t, w, http.StatusOK)
	var updated entity.Supplier
	testutil.ParseResponse(t, w, &updated)
	if updated.Name != name {
		t.Errorf("name = %q, want %q", updated.Name, name)
	}
}

func TestCreateSupplierDuplicateCode(t *testing.T) {
	r := setupSupplierRouter(t)
	token := testutil.Token(t, "user-1")

	createSupplier(t, r, token, "SUP-001", "first")
	w := testutil.DoRequest(t, r, http.MethodPost, "/api/v1/suppliers", token, map[string]interface{}{
		"code": "SUP-001",
		"name": "second",
	})
	testutil.RequireStatus(t, w, http.StatusConflict)
	env := testutil.ParseResponse(t, w, nil)
	if env.Code != 40900 {
		t.Errorf("envelope code = %d, want 40900", env.Code)
	}
}

func TestDeleteSupplierRequiresAdmin(t *testing.T) {
	r := setupSupplierRouter(t)
	token := testutil.Token(t, "user-1")
	admin := testutil.Token(t, "admin-1", "admin")

	supplier := createSupplier(t, r, token, "SUP-001", "target")

	w := testutil.DoRequest(t, r, http.MethodDelete, "/api/v1/suppliers/"+supplier.ID, token, nil)
	testutil.RequireStatus(t, w, http.StatusForbidden)

	w = testutil.DoRequest(t, r, http.MethodDelete, "/api/v1/suppliers/"+supplier.ID, admin, nil)
	testutil.RequireStatus(t, w, http.StatusOK)

	w = testutil.DoRequest(t, r, http.MethodGet, "/api/v1/suppliers/"+supplier.ID, token, nil)
	testutil.RequireStatus(t, w, http.StatusNotFound)
}

func TestSupplierRequiresAuth(t *testing.T) {
	r := setupSupplierRouter(t)
	w := testutil.DoRequest(t, r, http.MethodGet, "/api/v1/suppliers", "", nil)
	testutil.RequireStatus(t, w, http.StatusUnauthorized)
}
