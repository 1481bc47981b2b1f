// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-nsm.
//
// go-nsm is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.

package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsEnabled(t *testing.T) {
	// Metrics should be enabled by default
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled by default")
	}

	Disable()
	if IsEnabled() {
		t.Error("Expected metrics to be disabled after Disable()")
	}

	Enable()
	if !IsEnabled() {
		t.Error("Expected metrics to be enabled after Enable()")
	}
}

func TestRecordExchange(t *testing.T) {
	Enable()
	ExchangesTotal.Reset()
	ExchangeDuration.Reset()

	RecordExchange("DescribeNSM", StatusSuccess, 0.002)

	count := testutil.CollectAndCount(ExchangesTotal)
	if count != 1 {
		t.Errorf("Expected 1 exchange recorded, got %d", count)
	}

	histCount := testutil.CollectAndCount(ExchangeDuration)
	if histCount != 1 {
		t.Errorf("Expected 1 histogram sample, got %d", histCount)
	}

	RecordExchange("GetRandom", StatusError, 0.001)

	count = testutil.CollectAndCount(ExchangesTotal)
	if count != 2 {
		t.Errorf("Expected 2 exchanges recorded, got %d", count)
	}
}

func TestRecordExchangeDisabled(t *testing.T) {
	ExchangesTotal.Reset()
	Disable()
	defer Enable()

	RecordExchange("DescribeNSM", StatusSuccess, 0.002)

	count := testutil.CollectAndCount(ExchangesTotal)
	if count != 0 {
		t.Errorf("Expected no exchanges recorded while disabled, got %d", count)
	}
}

func TestRecordDeviceOpen(t *testing.T) {
	Enable()
	DeviceOpensTotal.Reset()

	RecordDeviceOpen(StatusSuccess)
	RecordDeviceOpen(StatusError)

	count := testutil.CollectAndCount(DeviceOpensTotal)
	if count != 2 {
		t.Errorf("Expected 2 device open statuses recorded, got %d", count)
	}
}
