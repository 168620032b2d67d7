package pricing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	svc := setupTestService(t)
	h := NewHandler(svc)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", int64(7))
		c.Next()
	})
	h.RegisterRoutes(router.Group("/"))
	return router, svc
}

func putRate(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("PUT", "/rates", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func TestSetRateExplicitZeroCommission(t *testing.T) {
	router, svc := setupTestRouter(t)

	w := putRate(t, router, `{"duration_minutes":60,"price":100,"commission_percent":0}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	q, err := svc.Quote(context.Background(), 7, 60)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.CommissionPercent != 0 || q.HostEarnings != 0 || q.PlatformFee != 100 {
		t.Fatalf("explicit 0%% commission must be stored as-is, got %+v", q)
	}
}

func TestSetRateOmittedCommissionDefaults(t *testing.T) {
	router, svc := setupTestRouter(t)

	w := putRate(t, router, `{"duration_minutes":30,"price":80}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	q, err := svc.Quote(context.Background(), 7, 30)
	if err != nil {
		t.Fatalf("Quote returned error: %v", err)
	}
	if q.CommissionPercent != 70 || q.HostEarnings != 56 || q.PlatformFee != 24 {
		t.Fatalf("omitted commission must fall back to the platform default, got %+v", q)
	}
}

func TestSetRateRejectsBadCommission(t *testing.T) {
	router, _ := setupTestRouter(t)

	w := putRate(t, router, `{"duration_minutes":60,"price":100,"commission_percent":101}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for commission above 100, got %d: %s", w.Code, w.Body.String())
	}
}
