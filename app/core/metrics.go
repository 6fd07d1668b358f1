package core

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jokari-ai/knowledge-hub/pkg/metrics"
)

type Metrics struct {
	apiResponseTime   *prometheus.HistogramVec
	apiErrorCounter   *prometheus.CounterVec
	ingestStageTime   *prometheus.HistogramVec
	ingestError       *prometheus.CounterVec
	documentsIngested *prometheus.CounterVec
	recordsExtracted  *prometheus.CounterVec
}

func NewMetrics(ns, system string) *Metrics {
	// setup metric
	metrics.SetupMetricsManager(ns, system, prometheus.DefaultRegisterer.(*prometheus.Registry))

	m := &Metrics{
		apiResponseTime:   metrics.NewHistogramVec("api_response_time", []string{"api"}),
		apiErrorCounter:   metrics.NewCounterVec("api_error", []string{"method", "api", "status"}),
		ingestStageTime:   metrics.NewHistogramVec("ingest_stage_time", []string{"stage"}),
		ingestError:       metrics.NewCounterVec("ingest_error", []string{"stage"}),
		documentsIngested: metrics.NewCounterVec("documents_ingested", []string{"status"}),
		recordsExtracted:  metrics.NewCounterVec("records_extracted", []string{"schema_type"}),
	}

	return m
}

func (m *Metrics) ApiErrorInc(method, api string, status int) {
	m.apiErrorCounter.WithLabelValues(method, api, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ApiResponseTimer(api string) *prometheus.Timer {
	return prometheus.NewTimer(m.apiResponseTime.WithLabelValues(api))
}

func (m *Metrics) IngestStageTimer(stage string) *prometheus.Timer {
	return prometheus.NewTimer(m.ingestStageTime.WithLabelValues(stage))
}

func (m *Metrics) IngestErrorInc(stage string) {
	m.ingestError.WithLabelValues(stage).Inc()
}

func (m *Metrics) DocumentIngestedInc(status string) {
	m.documentsIngested.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordExtractedInc(schemaType string) {
	m.recordsExtracted.WithLabelValues(schemaType).Inc()
}
