package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"garage_crm/internal/adapter/http/handlers/mocks"
	"garage_crm/internal/domain/entities"
	"garage_crm/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestCustomerHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T) (*gin.Engine, *mocks.MockICustomerUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockICustomerUseCase(ctrl)
		h := NewCustomerHandler(uc)
		r := gin.New()
		r.POST("/v1/customers", h.RegisterCustomer)
		r.GET("/v1/customers/funnel", h.Funnel)
		r.GET("/v1/customers/:id", h.Details)
		r.PATCH("/v1/customers/:id/status", h.TransitionStatus)
		return r, uc
	}

	t.Run("register invalid phone", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().RegisterCustomer(gomock.Any(), gomock.Any()).Return(entities.Customer{}, usecase.ErrInvalidPhone)
		w := serve(r, http.MethodPost, "/v1/customers", `{"name":"Ana","phone":"123"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != "INVALID_PHONE" {
			t.Fatalf("unexpected response body: %s", w.Body.String())
		}
	})

	t.Run("register success", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().RegisterCustomer(gomock.Any(), usecase.NewCustomer{Name: "Ana", Phone: "5551234567", Vehicles: []entities.Vehicle{}}).
			Return(entities.Customer{ID: "C1", Name: "Ana", Status: entities.CustomerStageInquired}, nil)
		w := serve(r, http.MethodPost, "/v1/customers", `{"name":" Ana ","phone":"5551234567"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("funnel", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().Funnel(gomock.Any(), "ana").Return(usecase.Funnel{Total: 1}, nil)
		w := serve(r, http.MethodGet, "/v1/customers/funnel?search=ana", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("details not found", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().Details(gomock.Any(), "C9").Return(usecase.CustomerDetails{}, usecase.ErrEntityNotFound)
		w := serve(r, http.MethodGet, "/v1/customers/C9", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("status transition", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().TransitionCustomerStage(gomock.Any(), "C1", "Working").Return(usecase.MutationResult[entities.Customer]{Outcome: usecase.OutcomeSuperseded}, nil)
		w := serve(r, http.MethodPatch, "/v1/customers/C1/status", `{"status":"Working"}`)
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if w.Code != http.StatusOK || body["outcome"] != "superseded" {
			t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestAppointmentHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T) (*gin.Engine, *mocks.MockIAppointmentUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIAppointmentUseCase(ctrl)
		h := NewAppointmentHandler(uc)
		r := gin.New()
		r.GET("/v1/appointments/slots", h.Slots)
		r.POST("/v1/appointments", h.BookAppointment)
		r.PATCH("/v1/appointments/:id/status", h.TransitionStatus)
		return r, uc
	}
	booking := `{"customerName":"Ana","customerPhone":"5551234567","vehicleInfo":"Civic","serviceType":"Oil","date":"2026-10-20","timeSlot":"09:00"}`

	t.Run("slot taken", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().BookAppointment(gomock.Any(), gomock.Any()).Return(entities.Appointment{}, usecase.ErrSlotTaken)
		w := serve(r, http.MethodPost, "/v1/appointments", booking)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("missing fields", func(t *testing.T) {
		r, _ := newRouter(t)
		w := serve(r, http.MethodPost, "/v1/appointments", `{"customerName":"Ana"}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("slots", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().Slots(gomock.Any(), "2026-10-20").Return([]usecase.Slot{{Time: "09:00", Label: "9:00 AM", Booked: true}}, nil)
		w := serve(r, http.MethodGet, "/v1/appointments/slots?date=2026-10-20", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("terminal appointment", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().TransitionAppointment(gomock.Any(), "A1", "Confirmed").Return(usecase.MutationResult[entities.Appointment]{},
			&usecase.MutationError{Kind: usecase.MutationErrorValidation, Err: usecase.ErrTerminalStage})
		w := serve(r, http.MethodPatch, "/v1/appointments/A1/status", `{"status":"Confirmed"}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestPriceInquiryHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(t *testing.T) (*gin.Engine, *mocks.MockIPriceInquiryUseCase) {
		ctrl := gomock.NewController(t)
		uc := mocks.NewMockIPriceInquiryUseCase(ctrl)
		h := NewPriceInquiryHandler(uc)
		r := gin.New()
		r.GET("/v1/price-inquiries", h.List)
		r.POST("/v1/price-inquiries", h.Create)
		r.DELETE("/v1/price-inquiries/:id", h.Delete)
		return r, uc
	}

	t.Run("list adds derived fields", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().ListPriceInquiries(gomock.Any()).Return([]entities.PriceInquiry{{ID: "P1", PriceOffered: 1200, PriceStated: 1000}}, nil)
		w := serve(r, http.MethodGet, "/v1/price-inquiries", "")
		var body []map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if w.Code != http.StatusOK || len(body) != 1 || body[0]["difference"] != 200.0 {
			t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("create", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().CreatePriceInquiry(gomock.Any(), gomock.Any()).Return(entities.PriceInquiry{ID: "P2"}, nil)
		w := serve(r, http.MethodPost, "/v1/price-inquiries", `{"name":"Ana","phone":"555","service":"Brakes","priceOffered":300}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
	})

	t.Run("delete remote failure", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().DeletePriceInquiry(gomock.Any(), "P1").Return(&usecase.MutationError{Kind: usecase.MutationErrorRemote, Message: "Failed to update status", Err: errors.New("down")})
		w := serve(r, http.MethodDelete, "/v1/price-inquiries/P1", "")
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})

	t.Run("delete", func(t *testing.T) {
		r, uc := newRouter(t)
		uc.EXPECT().DeletePriceInquiry(gomock.Any(), "P1").Return(nil)
		w := serve(r, http.MethodDelete, "/v1/price-inquiries/P1", "")
		if w.Code != http.StatusNoContent {
			t.Fatalf("expected 204, got %d", w.Code)
		}
	})
}

type stubRecent []entities.Notification

func (s stubRecent) Recent(limit int) []entities.Notification {
	if limit > 0 && limit < len(s) {
		return s[:limit]
	}
	return s
}

func TestNotificationHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := NewNotificationHandler(stubRecent{{Title: "Status updated"}, {Title: "Failed to update status"}})
	r := gin.New()
	r.GET("/v1/notifications", h.List)

	w := serve(r, http.MethodGet, "/v1/notifications?limit=1", "")
	var body []map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if w.Code != http.StatusOK || len(body) != 1 || body[0]["title"] != "Status updated" {
		t.Fatalf("unexpected response %d: %s", w.Code, w.Body.String())
	}
}
