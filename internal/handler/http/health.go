package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/sse"
	listviewService "github.com/cmlabs-hris/employee-directory/internal/service/listview"
)

// StorageCheck pings the durable backend. Nil means the backend has nothing to ping.
type StorageCheck func(ctx context.Context) error

type HealthHandler interface {
	Ready(w http.ResponseWriter, r *http.Request)
}

type ReadinessResponse struct {
	Status        string `json:"status"`
	StorageDriver string `json:"storage_driver"`
	OpenViews     int    `json:"open_views"`
	Streams       int    `json:"streams"`
}

type healthHandlerImpl struct {
	driver  string
	check   StorageCheck
	manager *listviewService.Manager
	hub     *sse.Hub
	timeout time.Duration
}

func NewHealthHandler(driver string, check StorageCheck, manager *listviewService.Manager, hub *sse.Hub) HealthHandler {
	return &healthHandlerImpl{
		driver:  driver,
		check:   check,
		manager: manager,
		hub:     hub,
		timeout: 2 * time.Second,
	}
}

// Ready implements HealthHandler. It answers 503 while the storage backend is unreachable.
func (h *healthHandlerImpl) Ready(w http.ResponseWriter, r *http.Request) {
	if h.check != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
		defer cancel()

		if err := h.check(ctx); err != nil {
			slog.Warn("Readiness check failed", "storage_driver", h.driver, "error", err)
			response.ServiceUnavailable(w, "Storage backend unavailable")
			return
		}
	}

	response.Success(w, ReadinessResponse{
		Status:        "ok",
		StorageDriver: h.driver,
		OpenViews:     h.manager.Count(),
		Streams:       h.hub.TotalSubscribers(),
	})
}
