// Copyright 2026 The Linkgrammar-Core Authors.
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

package lgmetrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestNewRegistersDistinctCounters(t *testing.T) {
	r := New()
	reg := prometheus.NewRegistry()
	r.MustRegister(reg)

	r.SlabAllocations.Inc()
	r.TraconHits.Inc()
	r.TraconHits.Inc()

	require.Equal(t, 1.0, counterValue(t, r.SlabAllocations))
	require.Equal(t, 2.0, counterValue(t, r.TraconHits))
	require.Equal(t, 0.0, counterValue(t, r.TraconMisses))
}
