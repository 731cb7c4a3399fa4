package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveOperation(t *testing.T) {
	m := New()

	m.ObserveOperation("add_item", ResultOK)
	m.ObserveOperation("add_item", ResultOK)
	m.ObserveOperation("add_item", ResultInvalid)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_item", ResultOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Operations.WithLabelValues("add_item", ResultInvalid)))
}

func TestSetRecords(t *testing.T) {
	m := New()

	m.SetRecords(7)

	assert.Equal(t, 7.0, testutil.ToFloat64(m.Records))
}

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("/pricelist.v1.PriceListService/AddItem", "OK")

	assert.Equal(t, 1, testutil.CollectAndCount(m.GRPCRequests))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveOperation("add_item", ResultOK)
		m.SetRecords(1)
		m.ObserveRequest("x", "OK")
	})
}
