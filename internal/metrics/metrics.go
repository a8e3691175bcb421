// Package metrics exposes Prometheus counters for the recycle bin.
package metrics

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "gallerybin"

// Purge reasons.
const (
	ReasonPermanent = "permanent"
	ReasonExpired   = "expired"
	ReasonEmpty     = "empty"
)

// Bin holds the recycle-bin metrics. A nil *Bin is valid and records nothing.
type Bin struct {
	softDeletes     prometheus.Counter
	restores        prometheus.Counter
	purges          *prometheus.CounterVec
	removalFailures prometheus.Counter
	consentRequests prometheus.Counter
	binSize         prometheus.Gauge
}

// New creates the metrics and registers them on reg. Collectors that are
// already registered are reused.
func New(reg prometheus.Registerer) (*Bin, error) {
	b := &Bin{
		softDeletes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bin", Name: "soft_deletes_total",
			Help: "Items moved into the recycle bin.",
		}),
		restores: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bin", Name: "restores_total",
			Help: "Items restored from the recycle bin.",
		}),
		purges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bin", Name: "purges_total",
			Help: "Bin records removed for good, by reason.",
		}, []string{"reason"}),
		removalFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bin", Name: "removal_failures_total",
			Help: "Underlying file removals that failed or were left pending consent.",
		}),
		consentRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Subsystem: "bin", Name: "consent_requests_total",
			Help: "Permanent deletions that needed user consent.",
		}),
		binSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Subsystem: "bin", Name: "items",
			Help: "Records currently in the recycle bin.",
		}),
	}

	var err error
	b.softDeletes, err = register(reg, b.softDeletes)
	if err != nil {
		return nil, err
	}
	b.restores, err = register(reg, b.restores)
	if err != nil {
		return nil, err
	}
	b.purges, err = register(reg, b.purges)
	if err != nil {
		return nil, err
	}
	b.removalFailures, err = register(reg, b.removalFailures)
	if err != nil {
		return nil, err
	}
	b.consentRequests, err = register(reg, b.consentRequests)
	if err != nil {
		return nil, err
	}
	b.binSize, err = register(reg, b.binSize)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		var zero C
		return zero, fmt.Errorf("register metric: %w", err)
	}
	return c, nil
}

func (b *Bin) SoftDeleted() {
	if b != nil {
		b.softDeletes.Inc()
	}
}

func (b *Bin) Restored() {
	if b != nil {
		b.restores.Inc()
	}
}

func (b *Bin) Purged(reason string, n int) {
	if b != nil && n > 0 {
		b.purges.WithLabelValues(reason).Add(float64(n))
	}
}

func (b *Bin) RemovalFailed() {
	if b != nil {
		b.removalFailures.Inc()
	}
}

func (b *Bin) ConsentRequested() {
	if b != nil {
		b.consentRequests.Inc()
	}
}

func (b *Bin) SetSize(n int) {
	if b != nil {
		b.binSize.Set(float64(n))
	}
}

// Sample is one gathered counter or gauge value.
type Sample struct {
	Name   string
	Labels string
	Value  float64
}

// Gather collects counter and gauge samples from g, sorted by name.
func Gather(g prometheus.Gatherer) ([]Sample, error) {
	families, err := g.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var out []Sample
	for _, f := range families {
		for _, m := range f.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}

			var labels []string
			for _, lp := range m.GetLabel() {
				labels = append(labels, lp.GetName()+"="+lp.GetValue())
			}
			out = append(out, Sample{Name: f.GetName(), Labels: strings.Join(labels, ","), Value: v})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Labels < out[j].Labels
	})
	return out, nil
}
