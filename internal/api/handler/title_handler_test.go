package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

type stubTitleService struct {
	rateFn func(ctx context.Context, actor, titleID string, value int) error
}

func (s *stubTitleService) GetTitle(ctx context.Context, idOrSlug string, byID bool) (*domain.Title, error) {
	return nil, domain.ErrTitleNotFound
}

func (s *stubTitleService) SearchTitles(ctx context.Context, searchValue string) ([]*domain.Title, error) {
	return nil, nil
}

func (s *stubTitleService) ListTitles(ctx context.Context, filter ports.TitleListFilter) (*ports.TitleListResult, error) {
	return &ports.TitleListResult{}, nil
}

func (s *stubTitleService) CreateTitle(ctx context.Context, author string, in ports.CreateTitleInput) (*domain.Title, error) {
	return nil, domain.ErrValidation
}

func (s *stubTitleService) UpdateTitle(ctx context.Context, actor, titleID string, in ports.UpdateTitleInput) (*domain.Title, error) {
	return nil, domain.ErrTitleNotFound
}

func (s *stubTitleService) DeleteTitle(ctx context.Context, titleID string) error { return nil }

func (s *stubTitleService) RateTitle(ctx context.Context, actor, titleID string, value int) error {
	return s.rateFn(ctx, actor, titleID, value)
}

func (s *stubTitleService) GetRateOfUser(ctx context.Context, actor, titleID string) (*domain.Rating, error) {
	return nil, domain.ErrRatingNotFound
}

func (s *stubTitleService) GetAverageRate(ctx context.Context, titleID string) (float64, error) {
	return 0, nil
}

func newRateContext(e *echo.Echo, body string, rec *httptest.ResponseRecorder) echo.Context {
	req := httptest.NewRequest(http.MethodPatch, "/v1/title/t1/rate", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, rec)
	c.SetParamNames("titleId")
	c.SetParamValues("t1")
	c.Set("username", "alice")
	c.Set("role", string(domain.RoleUser))
	return c
}

func TestTitleHandler_Rate_BindsRateValueKey(t *testing.T) {
	e := newTestEcho()
	var got int
	stub := &stubTitleService{
		rateFn: func(ctx context.Context, actor, titleID string, value int) error {
			if actor != "alice" || titleID != "t1" {
				t.Fatalf("unexpected call: actor=%s title=%s", actor, titleID)
			}
			got = value
			return nil
		},
	}
	handler := NewTitleHandler(stub)

	rec := httptest.NewRecorder()
	c := newRateContext(e, `{"rateValue":4}`, rec)

	if err := handler.Rate(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != 4 {
		t.Fatalf("expected rating 4, got %d", got)
	}
}

func TestTitleHandler_Rate_RejectsOutOfRange(t *testing.T) {
	e := newTestEcho()
	handler := NewTitleHandler(&stubTitleService{
		rateFn: func(ctx context.Context, actor, titleID string, value int) error {
			t.Fatalf("service must not be called for value %d", value)
			return nil
		},
	})

	for _, body := range []string{`{"rateValue":0}`, `{"rateValue":6}`} {
		rec := httptest.NewRecorder()
		c := newRateContext(e, body, rec)

		err := handler.Rate(c)
		var he *echo.HTTPError
		if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %v", body, err)
		}
	}
}
