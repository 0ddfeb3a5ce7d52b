// Copyright (C) 2019-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

const reasonLabel = "reason"

// Metrics instruments block and transaction processing. Emission and
// scraping are the host's concern; the core only counts.
type Metrics struct {
	BlocksAccepted prometheus.Counter
	BlocksRejected *prometheus.CounterVec
	TxsAccepted    prometheus.Counter
	TxsRejected    prometheus.Counter

	Height             prometheus.Gauge
	EligibleValidators prometheus.Gauge

	BlockVerify prometheus.Histogram
}

func New(namespace string, registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		BlocksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blks_accepted",
			Help:      "Number of blocks accepted",
		}),
		BlocksRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "blks_rejected",
			Help:      "Number of blocks rejected, by reason",
		}, []string{reasonLabel}),
		TxsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_accepted",
			Help:      "Number of transactions included in accepted blocks",
		}),
		TxsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "txs_rejected",
			Help:      "Number of transactions rejected at submission",
		}),
		Height: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "height",
			Help:      "Height of the last accepted block",
		}),
		EligibleValidators: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "eligible_validators",
			Help:      "Size of the validator set at the current height",
		}),
		BlockVerify: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "blk_verify_seconds",
			Help:      "Time spent verifying candidate blocks",
		}),
	}

	return m, errors.Join(
		registerer.Register(m.BlocksAccepted),
		registerer.Register(m.BlocksRejected),
		registerer.Register(m.TxsAccepted),
		registerer.Register(m.TxsRejected),
		registerer.Register(m.Height),
		registerer.Register(m.EligibleValidators),
		registerer.Register(m.BlockVerify),
	)
}

// MarkRejected records a block rejection under a stable reason label. The
// caller maps errors to labels to keep cardinality bounded.
func (m *Metrics) MarkRejected(reason string) {
	m.BlocksRejected.With(prometheus.Labels{reasonLabel: reason}).Inc()
}
