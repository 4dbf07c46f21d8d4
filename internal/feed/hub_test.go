package feed

import (
	"fmt"
	"testing"

	"github.com/RichmondRamil/task-management/internal/dto"
	"github.com/stretchr/testify/require"
)

func TestHub_DeliversInPublishOrder(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, events := hub.Subscribe()

	for i := 1; i <= 5; i++ {
		hub.Publish(Event{
			Type: EventInsert,
			Task: dto.TaskView{ID: uint64(i), Title: fmt.Sprintf("task %d", i)},
		})
	}

	for i := 1; i <= 5; i++ {
		event := <-events
		require.EqualValues(t, i, event.Task.ID)
	}
}

func TestHub_FansOutToAllSubscribers(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, first := hub.Subscribe()
	_, second := hub.Subscribe()
	require.Equal(t, 2, hub.SubscriberCount())

	hub.Publish(Event{Type: EventUpdate, Task: dto.TaskView{ID: 1}})

	require.EqualValues(t, 1, (<-first).Task.ID)
	require.EqualValues(t, 1, (<-second).Task.ID)
}

func TestHub_DropsSlowSubscriber(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	_, slow := hub.Subscribe()

	// Overflow the slow subscriber's buffer without draining it.
	for i := 0; i <= subscriberBuffer; i++ {
		hub.Publish(Event{Type: EventInsert, Task: dto.TaskView{ID: uint64(i)}})
	}

	require.Zero(t, hub.SubscriberCount())

	// The slow channel is closed after its buffered events.
	drained := 0
	for range slow {
		drained++
	}
	require.Equal(t, subscriberBuffer, drained)

	// A fresh subscriber is unaffected by the earlier drop.
	_, healthy := hub.Subscribe()
	hub.Publish(Event{Type: EventDelete, Task: dto.TaskView{ID: 99}})
	require.EqualValues(t, 99, (<-healthy).Task.ID)
}

func TestHub_UnsubscribeClosesChannel(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	id, events := hub.Subscribe()
	hub.Unsubscribe(id)

	_, open := <-events
	require.False(t, open)
	require.Zero(t, hub.SubscriberCount())
}

func TestHub_PublishAfterCloseIsNoop(t *testing.T) {
	hub := NewHub()
	_, events := hub.Subscribe()

	hub.Close()
	hub.Publish(Event{Type: EventInsert, Task: dto.TaskView{ID: 1}})

	_, open := <-events
	require.False(t, open)
}
