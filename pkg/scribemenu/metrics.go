package scribemenu

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry  *prometheus.Registry
	Documents *prometheus.CounterVec
	Installs  prometheus.Counter
	Rebuilds  prometheus.Counter
	Errors    *prometheus.CounterVec
}

// metricsCollector reports the live window and document counts.
type metricsCollector struct {
	*Scribemenu
	gauge *prometheus.Desc
}

type stats struct {
	Windows   int
	Shortcuts int
	Recent    int
	Active    bool
}

func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.gauge
}

func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	var now *stats
	if err := c.do(func() { now = c.stats() }); err != nil {
		return
	}

	active := 0.0
	if now.Active {
		active = 1
	}

	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(now.Windows), "windows")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(now.Shortcuts), "shortcut_maps")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(now.Recent), "recent_documents")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, active, "active_window")
	ch <- prometheus.MustNewConstMetric(c.gauge, prometheus.GaugeValue, float64(len(c.work)), "chan_work")
}

// stats must run on the control loop.
func (u *Scribemenu) stats() *stats {
	_, active := u.menus.ActiveWindow()

	return &stats{
		Windows:   len(u.menus.Windows()),
		Shortcuts: len(u.shortcuts),
		Recent:    len(u.recentList()),
		Active:    active,
	}
}

func (u *Scribemenu) setupMetrics() {
	reg := prometheus.NewRegistry()
	reg.MustRegister(&metricsCollector{
		Scribemenu: u,
		gauge:      prometheus.NewDesc("scribemenu_gauges", "Scribemenu window and document gauges", []string{"name"}, nil),
	})

	factory := promauto.With(reg)
	u.metrics = &metrics{
		registry: reg,
		Documents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribemenu_recent_documents_total",
			Help: "Recent document list changes by operation",
		}, []string{"op"}),
		Installs: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribemenu_menu_installs_total",
			Help: "The number of times a window menu became the application menu",
		}),
		Rebuilds: factory.NewCounter(prometheus.CounterOpts{
			Name: "scribemenu_menu_rebuilds_total",
			Help: "The number of times every window menu was rebuilt",
		}),
		Errors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scribemenu_errors_total",
			Help: "Failed operations by operation",
		}, []string{"op"}),
	}
}

func (u *Scribemenu) metricsHandler() http.Handler {
	return promhttp.HandlerFor(u.metrics.registry, promhttp.HandlerOpts{ErrorLog: u.Logger.Error})
}

func (u *Scribemenu) countDocument(op string) {
	if u.metrics != nil {
		u.metrics.Documents.WithLabelValues(op).Inc()
	}
}

func (u *Scribemenu) countInstall() {
	if u.metrics != nil {
		u.metrics.Installs.Inc()
	}
}

func (u *Scribemenu) countRebuild() {
	if u.metrics != nil {
		u.metrics.Rebuilds.Inc()
	}
}

func (u *Scribemenu) countError(op string) {
	if u.metrics != nil {
		u.metrics.Errors.WithLabelValues(op).Inc()
	}
}
