package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImageUploadsTotal counts image uploads by outcome.
	ImageUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_image_uploads_total",
		Help: "Total number of image uploads by outcome",
	}, []string{"outcome"})

	// TransformationsTotal counts post transformations by kind.
	TransformationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_transformations_total",
		Help: "Total number of post transformations by kind",
	}, []string{"kind"})

	// CDNRequestDuration records latency of calls to the image CDN.
	CDNRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "photoshare_cdn_request_duration_seconds",
		Help:    "Image CDN request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})

	// CDNErrorsTotal counts failed CDN calls by operation.
	CDNErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "photoshare_cdn_errors_total",
		Help: "Total number of failed image CDN calls by operation",
	}, []string{"operation"})

	// MailFailuresTotal counts confirmation emails that could not be sent.
	MailFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "photoshare_mail_failures_total",
		Help: "Total number of confirmation emails that could not be sent",
	})
)
