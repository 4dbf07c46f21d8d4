package feed

import "github.com/RichmondRamil/task-management/internal/dto"

type EventType string

const (
	EventInsert EventType = "INSERT"
	EventUpdate EventType = "UPDATE"
	EventDelete EventType = "DELETE"
)

// Event is a row-level change notification for the tasks table. The
// correlation ID identifies the mutation that produced the event so a
// client that issued the mutation can suppress its own echo.
type Event struct {
	Type          EventType    `json:"type"`
	CorrelationID string       `json:"correlation_id,omitempty"`
	Task          dto.TaskView `json:"task"`
}
