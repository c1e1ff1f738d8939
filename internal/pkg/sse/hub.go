package sse

import (
	"encoding/json"
	"sync"
	"time"
)

// Operation is the kind of row change an Event describes.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// Change feed topics, one per table.
const (
	TableEmployees          = "employees"
	TableAttendanceRecords  = "attendance_records"
	TableAttendanceSettings = "attendance_settings"
	TableCompanySettings    = "company_settings"
	TableEmployeeSchedules  = "employee_schedules"
)

// Tables lists every topic a subscriber may ask for.
var Tables = []string{
	TableEmployees,
	TableAttendanceRecords,
	TableAttendanceSettings,
	TableCompanySettings,
	TableEmployeeSchedules,
}

// Event is a row change pushed to subscribers. New and Old hold the row as JSON.
// Truncated events carry only the row keys; subscribers reload the row themselves.
type Event struct {
	Table           string          `json:"table"`
	Type            Operation       `json:"type"`
	New             json.RawMessage `json:"new,omitempty"`
	Old             json.RawMessage `json:"old,omitempty"`
	Truncated       bool            `json:"truncated,omitempty"`
	CommitTimestamp time.Time       `json:"commit_timestamp"`
}

// NewEvent builds an Event, encoding newRow and oldRow when non-nil.
func NewEvent(table string, op Operation, newRow, oldRow any) Event {
	event := Event{Table: table, Type: op, CommitTimestamp: time.Now().UTC()}
	if newRow != nil {
		event.New, _ = json.Marshal(newRow)
	}
	if oldRow != nil {
		event.Old, _ = json.Marshal(oldRow)
	}
	return event
}

// Publisher accepts change events. Implementations must not block.
type Publisher interface {
	Publish(event Event)
}

// Hub manages SSE subscribers and event broadcasting
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan Event]struct{}
}

// NewHub creates a new SSE Hub instance
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[chan Event]struct{}),
	}
}

// Subscribe registers one channel for all given tables and returns it with its cleanup function
func (h *Hub) Subscribe(tables ...string) (chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan Event, 32)

	for _, table := range tables {
		if h.subscribers[table] == nil {
			h.subscribers[table] = make(map[chan Event]struct{})
		}
		h.subscribers[table][ch] = struct{}{}
	}

	var once sync.Once
	cleanup := func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for _, table := range tables {
				delete(h.subscribers[table], ch)
				if len(h.subscribers[table]) == 0 {
					delete(h.subscribers, table)
				}
			}
			close(ch)
		})
	}

	return ch, cleanup
}

// Publish sends an event to every subscriber of its table
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if subs, ok := h.subscribers[event.Table]; ok {
		for ch := range subs {
			select {
			case ch <- event:
			default:
				// Slow subscriber; drop rather than block the writer.
			}
		}
	}
}

// SubscriberCount returns the number of active subscribers for a table
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers[table])
}

// NopPublisher discards events.
type NopPublisher struct{}

func (NopPublisher) Publish(Event) {}
