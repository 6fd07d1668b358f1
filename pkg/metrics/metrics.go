package metrics

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type manager struct {
	namespace string
	system    string
	registry  *prometheus.Registry
}

var defaultManager = &manager{
	namespace: "default",
	system:    "default",
	registry:  prometheus.NewRegistry(),
}

func RegisterGoMetrics(r prometheus.Registerer) {
	r.Register(collectors.NewGoCollector())
}

func SetupMetricsManager(ns, system string, registry *prometheus.Registry) {
	defaultManager = &manager{
		namespace: ns,
		system:    system,
		registry:  registry,
	}
	RegisterGoMetrics(registry)
}

func MustGetDefaultManager() (string, string, prometheus.Registerer) {
	return defaultManager.namespace, defaultManager.system, defaultManager.registry
}

// zeroLabels pre-touches the vec so the series exists before the first event.
func zeroLabels(labels []string) []string {
	return make([]string, len(labels))
}

func NewCounterVec(name string, labels []string) *prometheus.CounterVec {
	ns, system, registerer := MustGetDefaultManager()

	vec := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: FmtFixer(ns),
			Subsystem: FmtFixer(system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s count of /%s/%s", name, ns, system),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Add(0)

	registerer.Register(vec)
	return vec
}

func NewHistogramVec(name string, labels []string) *prometheus.HistogramVec {
	ns, system, registerer := MustGetDefaultManager()

	vec := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: FmtFixer(ns),
			Subsystem: FmtFixer(system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s duration of /%s/%s", name, ns, system),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Observe(0)

	registerer.Register(vec)
	return vec
}

func NewGaugeVec(name string, labels []string) *prometheus.GaugeVec {
	ns, system, registerer := MustGetDefaultManager()

	vec := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: FmtFixer(ns),
			Subsystem: FmtFixer(system),
			Name:      FmtFixer(name),
			Help:      fmt.Sprintf("%s gauge of /%s/%s", name, ns, system),
		},
		labels,
	)
	vec.WithLabelValues(zeroLabels(labels)...).Add(0)

	registerer.Register(vec)
	return vec
}

func DefaultExportHandler() gin.HandlerFunc {
	h := promhttp.InstrumentMetricHandler(
		defaultManager.registry, promhttp.HandlerFor(defaultManager.registry, promhttp.HandlerOpts{}),
	)
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}

var labelReplacer = strings.NewReplacer(".", "_", "-", "_")

func FmtFixer(in string) string {
	return labelReplacer.Replace(in)
}
