package image

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	reprInline  = "inline"
	reprSpilled = "spilled"
)

type metrics struct {
	appends  *prometheus.CounterVec
	used     prometheus.Gauge
	capacity prometheus.Gauge
	syncs    prometheus.Counter
}

func newMetrics(r prometheus.Registerer) *metrics {
	return &metrics{
		appends: promauto.With(r).NewCounterVec(prometheus.CounterOpts{
			Name: "relkit_image_appends_total",
			Help: "Total number of strings appended, by representation.",
		}, []string{"repr"}),
		used: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Name: "relkit_image_used_bytes",
			Help: "Bytes of the image segment consumed by the allocator.",
		}),
		capacity: promauto.With(r).NewGauge(prometheus.GaugeOpts{
			Name: "relkit_image_capacity_bytes",
			Help: "Usable bytes of the image segment.",
		}),
		syncs: promauto.With(r).NewCounter(prometheus.CounterOpts{
			Name: "relkit_image_syncs_total",
			Help: "Total number of syncs to disk.",
		}),
	}
}
