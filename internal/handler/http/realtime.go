package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/domain/auth"
	"github.com/biopulse/attendance-backend-go/internal/handler/http/response"
	"github.com/biopulse/attendance-backend-go/internal/pkg/jwt"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
)

type RealtimeHandler interface {
	// Token issues a short-lived token for Stream, which cannot send headers.
	Token(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type realtimeHandlerImpl struct {
	hub         *sse.Hub
	authService auth.AuthService
	jwtService  jwt.Service
	keepalive   time.Duration
}

func NewRealtimeHandler(hub *sse.Hub, authService auth.AuthService, jwtService jwt.Service) RealtimeHandler {
	return &realtimeHandlerImpl{
		hub:         hub,
		authService: authService,
		jwtService:  jwtService,
		keepalive:   30 * time.Second,
	}
}

func (h *realtimeHandlerImpl) Token(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.authService.IssueSSEToken(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// parseTables reads ?tables=a,b; empty means every table.
func parseTables(raw string) ([]string, error) {
	if raw == "" {
		return sse.Tables, nil
	}

	var tables []string
	for _, table := range strings.Split(raw, ",") {
		table = strings.TrimSpace(table)
		if table == "" {
			continue
		}
		if !slices.Contains(sse.Tables, table) {
			return nil, fmt.Errorf("unknown table %q", table)
		}
		if !slices.Contains(tables, table) {
			tables = append(tables, table)
		}
	}
	if len(tables) == 0 {
		return sse.Tables, nil
	}
	return tables, nil
}

// Stream handles the SSE connection carrying row changes
func (h *realtimeHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		response.Unauthorized(w, "Missing token")
		return
	}

	userID, err := h.jwtService.ValidateSSEToken(tokenStr)
	if err != nil {
		response.Unauthorized(w, "Invalid token")
		return
	}

	tables, err := parseTables(r.URL.Query().Get("tables"))
	if err != nil {
		response.BadRequest(w, err.Error(), nil)
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	events, cleanup := h.hub.Subscribe(tables...)
	defer cleanup()

	connected, _ := json.Marshal(map[string]any{"status": "connected", "user_id": userID, "tables": tables})
	fmt.Fprintf(w, "event: connected\ndata: %s\n\n", connected)
	flusher.Flush()

	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Table, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
