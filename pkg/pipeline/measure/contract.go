package measure

import "time"

type Measure interface {
	AddMetric(name string) Metric
	GetMetric(name string) Metric
	AllMetrics() map[string]Metric
}

type Metric interface {
	AddDuration(elapsed time.Duration)
	AVGDuration() time.Duration
	TotalDuration() time.Duration
	Count() int64
	SetEndDuration(endDuration time.Duration)
	GetEndDuration() time.Duration
}
