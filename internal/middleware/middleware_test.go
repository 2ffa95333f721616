package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sis-ledger-api/internal/models"
)

type staticValidator struct {
	claims *models.JWTClaims
	err    error
	seen   string
}

func (v *staticValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	v.seen = token
	return v.claims, v.err
}

type recorderFunc func(models.AuditLog)

func (f recorderFunc) Record(entry models.AuditLog) { f(entry) }

type observedRequest struct {
	method, path string
	status       int
}

type observerStub struct {
	requests []observedRequest
}

func (o *observerStub) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	o.requests = append(o.requests, observedRequest{method: method, path: path, status: status})
}

func serveWith(router *gin.Engine, method, target string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestJWTRejectsMissingAndMalformedHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &staticValidator{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleAdmin}}
	router := gin.New()
	router.GET("/", JWT(validator), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := map[string]map[string]string{
		"missing":      nil,
		"wrong scheme": {"Authorization": "Basic abc"},
		"empty token":  {"Authorization": "Bearer "},
	}
	for name, header := range cases {
		rec := serveWith(router, http.MethodGet, "/", header)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, rec.Code)
		}
	}
}

func TestJWTRejectsInvalidToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", JWT(&staticValidator{err: errors.New("expired")}), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := serveWith(router, http.MethodGet, "/", map[string]string{"Authorization": "Bearer stale"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "invalid or expired token" {
		t.Fatalf("unexpected error body: %v", body)
	}
}

func TestJWTStoresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validator := &staticValidator{claims: &models.JWTClaims{UserID: "u-1", Role: models.RoleStudent}}
	var got *models.JWTClaims
	router := gin.New()
	router.GET("/", JWT(validator), func(c *gin.Context) {
		got, _ = c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.Status(http.StatusNoContent)
	})

	rec := serveWith(router, http.MethodGet, "/", map[string]string{"Authorization": "bearer tok-1"})
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if validator.seen != "tok-1" {
		t.Fatalf("unexpected token passed to validator: %q", validator.seen)
	}
	if got == nil || got.UserID != "u-1" {
		t.Fatalf("claims not stored: %+v", got)
	}
}

func TestRequireRoles(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if role := c.GetHeader("X-Role"); role != "" {
			c.Set(ContextUserKey, &models.JWTClaims{UserID: "u-1", Role: models.UserRole(role)})
		}
	})
	router.GET("/", RequireRoles(models.RoleAdmin, models.RoleLecturer), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if rec := serveWith(router, http.MethodGet, "/", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without claims, got %d", rec.Code)
	}
	if rec := serveWith(router, http.MethodGet, "/", map[string]string{"X-Role": "student"}); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for student, got %d", rec.Code)
	}
	if rec := serveWith(router, http.MethodGet, "/", map[string]string{"X-Role": "lecturer"}); rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for lecturer, got %d", rec.Code)
	}
}

func TestAuditRecordsSuccessfulRequestsOnly(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var entries []models.AuditLog
	recorder := recorderFunc(func(entry models.AuditLog) { entries = append(entries, entry) })

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(ContextUserKey, &models.JWTClaims{UserID: "admin-1", Role: models.RoleAdmin})
	})
	router.POST("/pay", Audit(recorder, "PAYMENT_RECORD", "payments"), func(c *gin.Context) {
		SetAuditResource(c, "pay-1")
		c.Status(http.StatusCreated)
	})
	router.DELETE("/enrollments/:id", Audit(recorder, "ENROLLMENT_DELETE", "enrollments"), func(c *gin.Context) {
		if c.Param("id") == "missing" {
			c.Status(http.StatusNotFound)
			return
		}
		c.Status(http.StatusOK)
	})

	serveWith(router, http.MethodPost, "/pay", nil)
	serveWith(router, http.MethodDelete, "/enrollments/enr-1", nil)
	serveWith(router, http.MethodDelete, "/enrollments/missing", nil)

	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	if entries[0].ResourceID == nil || *entries[0].ResourceID != "pay-1" {
		t.Fatalf("expected handler supplied resource id, got %v", entries[0].ResourceID)
	}
	if entries[1].ResourceID == nil || *entries[1].ResourceID != "enr-1" {
		t.Fatalf("expected path id fallback, got %v", entries[1].ResourceID)
	}
	if entries[0].UserID == nil || *entries[0].UserID != "admin-1" {
		t.Fatalf("expected actor id, got %v", entries[0].UserID)
	}
}

func TestMetricsObservesMatchedAndUnmatchedRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &observerStub{}
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/grades/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	serveWith(router, http.MethodGet, "/grades/g-1", nil)
	serveWith(router, http.MethodGet, "/nowhere", nil)

	if len(observer.requests) != 2 {
		t.Fatalf("expected 2 observations, got %d", len(observer.requests))
	}
	if observer.requests[0].path != "/grades/:id" || observer.requests[0].status != http.StatusOK {
		t.Fatalf("unexpected observation: %+v", observer.requests[0])
	}
	if observer.requests[1].path != "unmatched" || observer.requests[1].status != http.StatusNotFound {
		t.Fatalf("unexpected observation: %+v", observer.requests[1])
	}
}
