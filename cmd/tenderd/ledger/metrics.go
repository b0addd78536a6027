package ledger

import (
	"context"

	"github.com/textileio/tender-core/cmd/tenderd/metrics"
	"go.opentelemetry.io/otel/metric"
)

func (l *Ledger) initMetrics() {
	l.bindMetrics(metrics.Meter)
}

func (l *Ledger) bindMetrics(meter metric.MeterMust) {
	l.metricCommits = meter.NewInt64Counter(metrics.Prefix + ".commits_total")
	l.metricReveals = meter.NewInt64Counter(metrics.Prefix + ".reveals_total")
	l.metricRevealPhase = meter.NewInt64Counter(metrics.Prefix + ".reveal_phase_total")
	l.metricWinners = meter.NewInt64Counter(metrics.Prefix + ".winners_total")
	l.metricPhase = meter.NewInt64GaugeObserver(metrics.Prefix+".phase", l.phaseCb)
	l.metricBids = meter.NewInt64GaugeObserver(metrics.Prefix+".bids", l.bidsCb)
}

func (l *Ledger) phaseCb(_ context.Context, r metric.Int64ObserverResult) {
	l.lk.Lock()
	defer l.lk.Unlock()
	r.Observe(int64(l.info.Phase))
}

func (l *Ledger) bidsCb(_ context.Context, r metric.Int64ObserverResult) {
	l.lk.Lock()
	defer l.lk.Unlock()
	r.Observe(int64(len(l.order)))
}
