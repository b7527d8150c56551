package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/employee-directory/internal/domain/listview"
	"github.com/cmlabs-hris/employee-directory/internal/handler/http/response"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/export"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/i18n"
	"github.com/cmlabs-hris/employee-directory/internal/pkg/sse"
	listviewService "github.com/cmlabs-hris/employee-directory/internal/service/listview"
	"github.com/go-chi/chi/v5"
)

type ListViewHandler interface {
	Open(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Close(w http.ResponseWriter, r *http.Request)
	Search(w http.ResponseWriter, r *http.Request)
	SetPage(w http.ResponseWriter, r *http.Request)
	ToggleSelect(w http.ResponseWriter, r *http.Request)
	ToggleSelectAll(w http.ResponseWriter, r *http.Request)
	SetViewMode(w http.ResponseWriter, r *http.Request)
	SetViewport(w http.ResponseWriter, r *http.Request)
	RequestDelete(w http.ResponseWriter, r *http.Request)
	ConfirmDelete(w http.ResponseWriter, r *http.Request)
	CancelDelete(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
	Export(w http.ResponseWriter, r *http.Request)
}

type listViewHandlerImpl struct {
	manager   *listviewService.Manager
	hub       *sse.Hub
	i18n      *i18n.Service
	keepalive time.Duration
}

func NewListViewHandler(manager *listviewService.Manager, hub *sse.Hub, i18nService *i18n.Service) ListViewHandler {
	return &listViewHandlerImpl{
		manager:   manager,
		hub:       hub,
		i18n:      i18nService,
		keepalive: 30 * time.Second,
	}
}

// view resolves the {id} route param, answering the request itself when it cannot.
func (h *listViewHandlerImpl) view(w http.ResponseWriter, r *http.Request) (*listviewService.Controller, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		response.BadRequest(w, "View ID is required", nil)
		return nil, false
	}
	c, err := h.manager.Get(id)
	if err != nil {
		response.HandleError(w, err)
		return nil, false
	}
	return c, true
}

func decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return false
	}
	return true
}

// Open implements ListViewHandler
func (h *listViewHandlerImpl) Open(w http.ResponseWriter, r *http.Request) {
	c, id, err := h.manager.Open(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "List view opened", listview.ViewResponse{
		ID:       id,
		Snapshot: c.Snapshot(),
	})
}

// Get implements ListViewHandler
func (h *listViewHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}
	response.Success(w, c.Snapshot())
}

// Close implements ListViewHandler
func (h *listViewHandlerImpl) Close(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.Close(chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "List view closed", nil)
}

// Search implements ListViewHandler
func (h *listViewHandlerImpl) Search(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.SearchRequest
	if !decode(w, r, &req) {
		return
	}

	response.Success(w, c.Search(req.Query))
}

// SetPage implements ListViewHandler. Out-of-range pages are not an error; the response says
// whether the page changed.
func (h *listViewHandlerImpl) SetPage(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.PageRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	accepted := c.SetPage(*req.Page)
	response.Success(w, listview.PageResponse{
		Accepted: accepted,
		Snapshot: c.Snapshot(),
	})
}

// ToggleSelect implements ListViewHandler
func (h *listViewHandlerImpl) ToggleSelect(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.SelectRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, c.ToggleSelect(req.ID, req.Checked))
}

// ToggleSelectAll implements ListViewHandler
func (h *listViewHandlerImpl) ToggleSelectAll(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.SelectAllRequest
	if !decode(w, r, &req) {
		return
	}

	response.Success(w, c.ToggleSelectAll(req.Checked))
}

// SetViewMode implements ListViewHandler
func (h *listViewHandlerImpl) SetViewMode(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.ViewModeRequest
	if !decode(w, r, &req) {
		return
	}

	snap, err := c.SetViewMode(r.Context(), listview.ViewMode(req.Mode))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, snap)
}

// SetViewport implements ListViewHandler
func (h *listViewHandlerImpl) SetViewport(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.ViewportRequest
	if !decode(w, r, &req) {
		return
	}

	snap, err := c.SetCompact(r.Context(), req.IsCompact())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, snap)
}

// RequestDelete implements ListViewHandler. The response carries the confirmation prompt in the
// current language.
func (h *listViewHandlerImpl) RequestDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	var req listview.DeleteRequest
	if !decode(w, r, &req) {
		return
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	pending, err := c.RequestDelete(req.ID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	prompt := h.i18n.TranslateWith("delete.confirm", map[string]interface{}{"Name": pending.FullName()})
	response.SuccessWithMessage(w, prompt, c.Snapshot())
}

// ConfirmDelete implements ListViewHandler
func (h *listViewHandlerImpl) ConfirmDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	if err := c.ConfirmDelete(r.Context()); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, h.i18n.Translate("delete.success"), c.Snapshot())
}

// CancelDelete implements ListViewHandler
func (h *listViewHandlerImpl) CancelDelete(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}
	response.Success(w, c.CancelDelete())
}

// Stream pushes the view's snapshots and language changes as server-sent events until the
// client disconnects or the view is closed.
func (h *listViewHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	// Check if streaming is supported
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(c.ID())
	defer cleanup()
	slog.Debug("SSE stream opened", "view_id", c.ID(), "streams", h.hub.SubscriberCount(c.ID()))

	// Current state first, so the client never waits for the next change
	writeEvent(w, sse.EventSnapshot, c.Snapshot())
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				// The view was closed before or while subscribing
				writeEvent(w, sse.EventClosed, nil)
				flusher.Flush()
				return
			}
			writeEvent(w, event.Event, event.Data)
			flusher.Flush()
			if event.Event == sse.EventClosed {
				return
			}

		case <-keepalive.C:
			c.Touch()
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}

func writeEvent(w http.ResponseWriter, name string, data interface{}) {
	payload, err := json.Marshal(data)
	if err != nil {
		slog.Error("Failed to encode SSE event", "event", name, "error", err)
		return
	}
	fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, payload)
}

// Export writes every employee matching the view's query, not only the current page, as XLSX.
// ?lang= overrides the current language for headers.
func (h *listViewHandlerImpl) Export(w http.ResponseWriter, r *http.Request) {
	c, ok := h.view(w, r)
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.i18n.CurrentLanguage()
	}
	translate := func(key string) string { return h.i18n.TranslateIn(lang, key, nil) }

	w.Header().Set("Content-Type", export.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="employees.xlsx"`)
	if err := export.WriteEmployees(w, c.Filtered(), translate); err != nil {
		slog.Error("Failed to export employees", "view_id", c.ID(), "error", err)
		w.Header().Del("Content-Disposition")
		response.InternalServerError(w, "Failed to export employees")
	}
}
