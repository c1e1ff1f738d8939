package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/biopulse/attendance-backend-go/internal/pkg/database"
	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
)

// ChangeChannel is the NOTIFY channel the schema triggers publish row changes on.
const ChangeChannel = "table_changes"

// ChangeListener forwards trigger notifications to a publisher.
type ChangeListener struct {
	db        *database.DB
	publisher sse.Publisher
	backoff   time.Duration
}

func NewChangeListener(db *database.DB, publisher sse.Publisher) *ChangeListener {
	return &ChangeListener{db: db, publisher: publisher, backoff: 2 * time.Second}
}

// Run listens until ctx is cancelled, reconnecting after connection failures.
func (l *ChangeListener) Run(ctx context.Context) {
	for {
		err := l.listen(ctx)
		if ctx.Err() != nil {
			return
		}
		slog.Warn("change listener disconnected, retrying", "error", err, "backoff", l.backoff)

		select {
		case <-ctx.Done():
			return
		case <-time.After(l.backoff):
		}
	}
}

func (l *ChangeListener) listen(ctx context.Context) error {
	conn, err := l.db.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	slog.Info("change listener started", "channel", ChangeChannel)

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		event, err := decodeChange(notification.Payload)
		if err != nil {
			slog.Error("invalid change notification", "error", err)
			continue
		}
		l.publisher.Publish(event)
	}
}

func decodeChange(payload string) (sse.Event, error) {
	var event sse.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return sse.Event{}, err
	}
	if event.Table == "" || event.Type == "" {
		return sse.Event{}, errors.New("change notification is missing table or type")
	}
	// json null decodes to the literal "null"; drop it so omitempty applies downstream.
	if string(event.New) == "null" {
		event.New = nil
	}
	if string(event.Old) == "null" {
		event.Old = nil
	}
	return event, nil
}
