package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	FeedEventsPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_feed_events_published_total",
			Help: "Total change feed events published, by event type",
		},
		[]string{"type"},
	)
	FeedSubscribersDropped = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "task_feed_subscribers_dropped_total",
			Help: "Total feed subscribers dropped for falling behind",
		},
	)
	TaskMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "task_mutations_total",
			Help: "Total task create/update/delete operations",
		},
		[]string{"op"},
	)
	ProjectMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_mutations_total",
			Help: "Total project create/update/delete operations",
		},
		[]string{"op"},
	)
)

func init() {
	prometheus.MustRegister(FeedEventsPublished)
	prometheus.MustRegister(FeedSubscribersDropped)
	prometheus.MustRegister(TaskMutations)
	prometheus.MustRegister(ProjectMutations)
}
