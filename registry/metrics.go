package registry

import "github.com/realmgov/registry/metrics"

var (
	metricOpCount    = metrics.LazyLoadCounterVec("registry_op_total", []string{"op", "outcome"})
	metricOpDuration = metrics.LazyLoadHistogramVec("registry_op_duration_ms", []string{"op"}, metrics.BucketHTTPReqs)
	metricCommitTime = metrics.LazyLoadHistogram("registry_commit_duration_ms", metrics.Bucket10s)
	metricWeights    = metrics.LazyLoadCounter("registry_weights_published_total")
)
