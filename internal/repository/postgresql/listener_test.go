package postgresql

import (
	"testing"

	"github.com/biopulse/attendance-backend-go/internal/pkg/sse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeChange(t *testing.T) {
	payload := `{"table":"attendance_records","type":"UPDATE","new":{"id":"a1","status":"late"},"old":{"id":"a1","status":"late"},"commit_timestamp":"2025-04-10T09:20:00.123456+05:30"}`

	event, err := decodeChange(payload)
	require.NoError(t, err)
	assert.Equal(t, sse.TableAttendanceRecords, event.Table)
	assert.Equal(t, sse.OpUpdate, event.Type)
	assert.JSONEq(t, `{"id":"a1","status":"late"}`, string(event.New))
	assert.Equal(t, 2025, event.CommitTimestamp.Year())
}

func TestDecodeChange_NullRowsDropped(t *testing.T) {
	event, err := decodeChange(`{"table":"employees","type":"INSERT","new":{"id":"e1"},"old":null,"commit_timestamp":"2025-04-10T09:20:00Z"}`)
	require.NoError(t, err)
	assert.Nil(t, event.Old)
	assert.NotNil(t, event.New)
}

func TestDecodeChange_Truncated(t *testing.T) {
	payload := `{"table":"employee_schedules","type":"UPDATE","new":{"employee_id":"e1","updated_at":"2025-04-10T09:20:00Z"},"old":{"employee_id":"e1","updated_at":"2025-04-09T09:20:00Z"},"truncated":true,"commit_timestamp":"2025-04-10T09:20:00Z"}`

	event, err := decodeChange(payload)
	require.NoError(t, err)
	assert.True(t, event.Truncated)
	assert.Equal(t, sse.TableEmployeeSchedules, event.Table)
	assert.JSONEq(t, `{"employee_id":"e1","updated_at":"2025-04-10T09:20:00Z"}`, string(event.New))
}

func TestDecodeChange_Invalid(t *testing.T) {
	_, err := decodeChange(`not json`)
	assert.Error(t, err)

	_, err = decodeChange(`{"new":{}}`)
	assert.Error(t, err)
}
