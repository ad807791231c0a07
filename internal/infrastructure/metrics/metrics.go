package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	UserRegistered  = "user_registered_total"
	LoginSucceeded  = "login_succeeded_total"
	LoginFailed     = "login_failed_total"
	Logout          = "logout_total"
	FileUploaded    = "file_uploaded_total"
	FileDownloaded  = "file_downloaded_total"
	AccessDenied    = "access_denied_total"
	ActivityDropped = "activity_dropped_total"
	AppRequests     = "app_requests_total"
)

func NewCounter() *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drivemelocal",
			Name:      "general_counters",
		},
		[]string{"result"})
}

// NewUnregisteredCounter is not registered globally, so it can be built any number of times.
func NewUnregisteredCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "drivemelocal",
			Name:      "general_counters",
		},
		[]string{"result"})
}
