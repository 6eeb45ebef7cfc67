// Package metrics 业务指标，由服务层更新，通过 /metrics 暴露
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 结果标签
const (
	ResultSuccess      = "success"
	ResultLimitReached = "limit_reached"
	ResultRejected     = "rejected"
	ResultNotFound     = "not_found"
	ResultError        = "error"
	ResultCached       = "cached"
)

var (
	// UploadsTotal 上传的文件数
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_ai_uploads_total",
			Help: "Number of uploaded files by result",
		},
		[]string{"result"},
	)

	// UploadBytes 上传文件大小分布
	UploadBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "edu_ai_upload_bytes",
			Help:    "Size of uploaded files in bytes",
			Buckets: prometheus.ExponentialBuckets(64*1024, 4, 8),
		},
	)

	// DeletionsTotal 删除请求数
	DeletionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_ai_deletions_total",
			Help: "Number of file deletions by result",
		},
		[]string{"result"},
	)

	// GenerationsTotal 生成请求数
	GenerationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "edu_ai_generations_total",
			Help: "Number of generation requests by kind and result",
		},
		[]string{"kind", "result"},
	)

	// GenerationDuration 模型调用耗时
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "edu_ai_generation_duration_seconds",
			Help:    "Latency of remote model calls in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 40, 80},
		},
		[]string{"kind"},
	)
)
