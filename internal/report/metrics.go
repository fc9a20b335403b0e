package report

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder counts exports in a private prometheus registry.
// Every counter is derived from a single Result.
type Recorder struct {
	registry    *prometheus.Registry
	exports     *prometheus.CounterVec
	failures    *prometheus.CounterVec
	objects     prometheus.Counter
	annotations prometheus.Counter
	detached    prometheus.Counter
	ignored     prometheus.Counter
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpxanno_exports_total",
			Help: "Annotation exports completed, by target kind",
		}, []string{"target"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "cpxanno_export_failures_total",
			Help: "Annotation exports that returned an error, by target kind",
		}, []string{"target"}),
		objects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpxanno_objects_written_total",
			Help: "Annotation <object> blocks written",
		}),
		annotations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpxanno_annotations_written_total",
			Help: "Annotation <anno> entries written",
		}),
		detached: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpxanno_annotations_detached_total",
			Help: "Annotations skipped because their object is not in the model",
		}),
		ignored: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cpxanno_scopes_ignored_total",
			Help: "Non-empty scopes skipped because they have no annotation object type",
		}),
	}
	r.registry.MustRegister(r.exports, r.failures, r.objects, r.annotations, r.detached, r.ignored)
	return r
}

// Registry exposes the recorder's registry for HTTP handlers
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Record updates all counters from one result
func (r *Recorder) Record(res *Result) {
	if res.Err != nil {
		r.failures.WithLabelValues(res.Kind).Inc()
		return
	}
	r.exports.WithLabelValues(res.Kind).Inc()
	r.objects.Add(float64(res.Stats.Objects))
	r.annotations.Add(float64(res.Stats.Annotations))
	r.detached.Add(float64(res.Stats.Detached))
	r.ignored.Add(float64(res.Stats.IgnoredScopes))
}
