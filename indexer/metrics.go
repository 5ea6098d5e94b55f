// Copyright 2025 Blink Labs Software
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package indexer

import "github.com/prometheus/client_golang/prometheus"

type indexerMetrics struct {
	checkpointsProcessed prometheus.Counter
	checkpointsFailed    prometheus.Counter
	valuesExtracted      prometheus.Counter
	rowsAffected         prometheus.Counter
	watermark            prometheus.Gauge
	remoteTip            prometheus.Gauge
}

func newIndexerMetrics(promRegistry prometheus.Registerer) *indexerMetrics {
	m := &indexerMetrics{
		checkpointsProcessed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_checkpoints_processed_total",
			Help: "Total checkpoints fully processed and committed",
		}),
		checkpointsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_checkpoints_failed_total",
			Help: "Total checkpoints whose processing failed and was dead-lettered",
		}),
		valuesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_values_extracted_total",
			Help: "Total typed change records extracted from checkpoints",
		}),
		rowsAffected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "indexer_store_rows_affected_total",
			Help: "Total store rows affected by commits",
		}),
		watermark: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indexer_watermark_checkpoint",
			Help: "Highest checkpoint sequence number fully processed",
		}),
		remoteTip: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "indexer_remote_tip_checkpoint",
			Help: "Latest checkpoint sequence number reported by the ledger node",
		}),
	}
	if promRegistry != nil {
		promRegistry.MustRegister(
			m.checkpointsProcessed,
			m.checkpointsFailed,
			m.valuesExtracted,
			m.rowsAffected,
			m.watermark,
			m.remoteTip,
		)
	}
	return m
}
