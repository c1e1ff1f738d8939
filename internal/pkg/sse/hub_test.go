package sse

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHub_PublishReachesTableSubscribers(t *testing.T) {
	hub := NewHub()
	records, cleanupRecords := hub.Subscribe(TableAttendanceRecords)
	defer cleanupRecords()
	employees, cleanupEmployees := hub.Subscribe(TableEmployees)
	defer cleanupEmployees()

	hub.Publish(NewEvent(TableAttendanceRecords, OpInsert, map[string]string{"id": "r1"}, nil))

	select {
	case got := <-records:
		assert.Equal(t, OpInsert, got.Type)
		var row map[string]string
		require.NoError(t, json.Unmarshal(got.New, &row))
		assert.Equal(t, "r1", row["id"])
		assert.Nil(t, got.Old)
	default:
		t.Fatal("attendance subscriber received nothing")
	}

	select {
	case got := <-employees:
		t.Fatalf("employees subscriber got unexpected event %+v", got)
	default:
	}
}

func TestHub_MultiTableSubscription(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(TableEmployees, TableCompanySettings)

	hub.Publish(NewEvent(TableEmployees, OpUpdate, nil, nil))
	hub.Publish(NewEvent(TableCompanySettings, OpUpdate, nil, nil))

	assert.Len(t, ch, 2)
	assert.Equal(t, 1, hub.SubscriberCount(TableEmployees))

	cleanup()
	cleanup()

	assert.Equal(t, 0, hub.SubscriberCount(TableEmployees))
	assert.Equal(t, 0, hub.SubscriberCount(TableCompanySettings))
}

func TestHub_PublishDoesNotBlockOnFullSubscriber(t *testing.T) {
	hub := NewHub()
	ch, cleanup := hub.Subscribe(TableEmployees)
	defer cleanup()

	for i := 0; i < cap(ch)+10; i++ {
		hub.Publish(NewEvent(TableEmployees, OpInsert, nil, nil))
	}

	assert.Len(t, ch, cap(ch))
}
