package routes

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"garage_crm/internal/adapter/http/handlers"
	"garage_crm/internal/adapter/http/handlers/mocks"
	"garage_crm/internal/infrastructure/notify"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func TestAddRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	set := handlerSet{
		jobs:          handlers.NewJobHandler(mocks.NewMockIJobUseCase(ctrl), mocks.NewMockIPaymentUseCase(ctrl)),
		customers:     handlers.NewCustomerHandler(mocks.NewMockICustomerUseCase(ctrl)),
		appointments:  handlers.NewAppointmentHandler(mocks.NewMockIAppointmentUseCase(ctrl)),
		priceInquiry:  handlers.NewPriceInquiryHandler(mocks.NewMockIPriceInquiryUseCase(ctrl)),
		notifications: handlers.NewNotificationHandler(notify.NewLogNotifier(5)),
	}
	r := gin.New()
	addRoutes(r.Group("/v1"), set)

	t.Run("ping", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/ping", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})

	t.Run("registered endpoints", func(t *testing.T) {
		registered := map[string]bool{}
		for _, ri := range r.Routes() {
			registered[ri.Method+" "+ri.Path] = true
		}
		for _, want := range []string{
			"GET /v1/stages",
			"GET /v1/dashboard",
			"GET /v1/notifications",
			"GET /v1/jobs",
			"GET /v1/jobs/board",
			"PATCH /v1/jobs/:id/stage",
			"GET /v1/jobs/:id/completion",
			"POST /v1/jobs/:id/complete",
			"POST /v1/jobs/:id/payments",
			"GET /v1/jobs/:id/payments",
			"GET /v1/customers",
			"GET /v1/customers/funnel",
			"GET /v1/customers/:id",
			"POST /v1/customers",
			"PATCH /v1/customers/:id/status",
			"GET /v1/appointments",
			"GET /v1/appointments/slots",
			"POST /v1/appointments",
			"PATCH /v1/appointments/:id/status",
			"GET /v1/price-inquiries",
			"POST /v1/price-inquiries",
			"DELETE /v1/price-inquiries/:id",
		} {
			if !registered[want] {
				t.Fatalf("route %s not registered", want)
			}
		}
	})
}
