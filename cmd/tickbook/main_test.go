package main

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"tickbook/domain/orderbook"
	"tickbook/infra/config"
	"tickbook/infra/metrics"
	"tickbook/jobs/simulator"
	"tickbook/service"
)

func TestTouchedTickers(t *testing.T) {
	reports := []simulator.Report{
		{Round: 0, Touched: []string{"TSLA", "AAPL"}},
		{Round: 1, Touched: []string{"AAPL", "MSFT"}},
	}
	assert.Equal(t, []string{"AAPL", "MSFT", "TSLA"}, touchedTickers(reports))
	assert.Empty(t, touchedTickers(nil))
}

func TestRunDemoDefault(t *testing.T) {
	t.Setenv("TICKBOOK_CONFIG", "")
	cfg, err := config.Load()
	assert.NoError(t, err)

	engine := service.NewEngine(zerolog.Nop(), metrics.New(prometheus.NewRegistry()))
	runDemo(engine, cfg.Demo, zerolog.Nop())

	d := engine.Depth("AAPL")
	assert.Equal(t, []orderbook.RestingOrder{{Price: 100, Qty: 5}}, d.Bids)
	assert.Equal(t, []orderbook.RestingOrder{{Price: 101, Qty: 5}}, d.Asks)
}
