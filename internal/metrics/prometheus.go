package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metric names understood by Prom. The channel reports through the
// Provider interface using these keys.
const (
	Published     = "messages_published_total"
	Delivered     = "messages_delivered_total"
	Filtered      = "messages_filtered_total"
	Lagged        = "messages_lagged_total"
	SendsRejected = "sends_rejected_total"
	Subscriptions = "subscriptions_active"
	SendWaitMs    = "send_wait_ms"
)

type Prom struct {
	reg *prometheus.Registry

	PublishedC     prometheus.Counter
	DeliveredC     prometheus.Counter
	FilteredC      prometheus.Counter
	LaggedC        prometheus.Counter
	SendsRejectedC prometheus.Counter
	SubscriptionsG prometheus.Gauge
	SendWait       prometheus.Summary
}

func NewProm() *Prom {
	reg := prometheus.NewRegistry()
	p := &Prom{
		reg:            reg,
		PublishedC:     prometheus.NewCounter(prometheus.CounterOpts{Name: Published, Help: "Messages accepted by the publisher"}),
		DeliveredC:     prometheus.NewCounter(prometheus.CounterOpts{Name: Delivered, Help: "Payloads yielded to subscribers"}),
		FilteredC:      prometheus.NewCounter(prometheus.CounterOpts{Name: Filtered, Help: "Messages discarded by topic filters"}),
		LaggedC:        prometheus.NewCounter(prometheus.CounterOpts{Name: Lagged, Help: "Messages skipped by lagging subscriptions"}),
		SendsRejectedC: prometheus.NewCounter(prometheus.CounterOpts{Name: SendsRejected, Help: "Sends rejected because no reader remained"}),
		SubscriptionsG: prometheus.NewGauge(prometheus.GaugeOpts{Name: Subscriptions, Help: "Live topic subscriptions"}),
		SendWait:       prometheus.NewSummary(prometheus.SummaryOpts{Name: SendWaitMs, Help: "Time spent in Send, backpressure included, in ms"}),
	}
	reg.MustRegister(p.PublishedC, p.DeliveredC, p.FilteredC, p.LaggedC, p.SendsRejectedC, p.SubscriptionsG, p.SendWait)
	return p
}

func (p *Prom) Handler() http.Handler { return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{}) }

// Implement Provider
func (p *Prom) SetGauge(name string, value float64) {
	switch name {
	case Subscriptions:
		p.SubscriptionsG.Set(value)
	}
}

func (p *Prom) IncCounter(name string, delta float64) {
	var c prometheus.Counter
	switch name {
	case Published:
		c = p.PublishedC
	case Delivered:
		c = p.DeliveredC
	case Filtered:
		c = p.FilteredC
	case Lagged:
		c = p.LaggedC
	case SendsRejected:
		c = p.SendsRejectedC
	default:
		return
	}
	c.Add(delta)
}

func (p *Prom) Observe(name string, value float64) {
	switch name {
	case SendWaitMs:
		p.SendWait.Observe(value)
	}
}
