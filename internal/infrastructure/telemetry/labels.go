package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// maxLabelValueLength bounds label values to keep profile cardinality low.
const maxLabelValueLength = 64

// highCardinalityLabels are never attached to profiles.
var highCardinalityLabels = map[string]bool{
	"session_id": true,
	"user_id":    true,
	"order_id":   true,
	"request_id": true,
}

// WithProfilingLabels runs fn with pprof labels so profiles can be sliced by them.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k == "" || v == "" || highCardinalityLabels[k] {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}
