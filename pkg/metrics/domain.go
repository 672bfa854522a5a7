package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Upload results recorded by media_uploads_total.
const (
	UploadAccepted = "accepted"
	UploadRejected = "rejected"
	UploadFailed   = "failed"
)

// DomainMetrics counts portal events. A nil receiver is a no-op so services
// can be built without a registry in tests.
type DomainMetrics struct {
	complaintsCreated *prometheus.CounterVec
	statusChanges     *prometheus.CounterVec
	alertsCreated     prometheus.Counter
	uploads           *prometheus.CounterVec
}

// NewDomainMetrics registers the domain counters on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	m := &DomainMetrics{
		complaintsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaints_created_total",
			Help: "Complaints submitted by category.",
		}, []string{"category"}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "complaint_status_changes_total",
			Help: "Admin status updates by target status.",
		}, []string{"status"}),
		alertsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "alerts_created_total",
			Help: "Alerts broadcast by admins.",
		}),
		uploads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "media_uploads_total",
			Help: "Image uploads by result.",
		}, []string{"result"}),
	}
	reg.MustRegister(m.complaintsCreated, m.statusChanges, m.alertsCreated, m.uploads)
	return m
}

func (m *DomainMetrics) ComplaintCreated(category string) {
	if m == nil || m.complaintsCreated == nil {
		return
	}
	m.complaintsCreated.WithLabelValues(normalizeLabel(category)).Inc()
}

func (m *DomainMetrics) StatusChanged(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *DomainMetrics) AlertCreated() {
	if m == nil || m.alertsCreated == nil {
		return
	}
	m.alertsCreated.Inc()
}

func (m *DomainMetrics) Upload(result string) {
	if m == nil || m.uploads == nil {
		return
	}
	m.uploads.WithLabelValues(normalizeLabel(result)).Inc()
}
