package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestObserveRun(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveRun("1", 18.5, 50, time.Second, nil)
	m.ObserveRun("1", 0, 3, time.Second, errors.New("超时"))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RunsTotal.WithLabelValues("failure")))
	assert.Equal(t, 53.0, testutil.ToFloat64(m.GenerationsTotal))
	assert.Equal(t, 18.5, testutil.ToFloat64(m.BestFitness.WithLabelValues("1")))
}

func TestNewWithSeparateRegistries(t *testing.T) {
	// 每个注册表各自注册，不会因重复注册而 panic
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
