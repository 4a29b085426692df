package stock

import "github.com/prometheus/client_golang/prometheus"

// Metrics covers the query paths. A nil *Metrics records nothing.
type Metrics struct {
	Searches prometheus.Counter
	Matched  prometheus.Histogram
	Lookups  *prometheus.CounterVec
	Records  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Searches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stock_searches_total",
			Help: "Stock searches served",
		}),
		Matched: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stock_search_matched_records",
			Help:    "Records matched per search before pagination",
			Buckets: []float64{0, 1, 5, 10, 20, 50, 100, 250, 500, 1000},
		}),
		Lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stock_lookups_total",
				Help: "Stock detail lookups by result",
			},
			[]string{"result"},
		),
		Records: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "stock_store_records",
			Help: "Records held in the stock store",
		}),
	}

	reg.MustRegister(m.Searches, m.Matched, m.Lookups, m.Records)
	return m
}

func (m *Metrics) observeSearch(matched int) {
	if m == nil {
		return
	}
	m.Searches.Inc()
	m.Matched.Observe(float64(matched))
}

func (m *Metrics) observeLookup(found bool) {
	if m == nil {
		return
	}
	result := "found"
	if !found {
		result = "not_found"
	}
	m.Lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) setRecords(n int) {
	if m == nil {
		return
	}
	m.Records.Set(float64(n))
}
