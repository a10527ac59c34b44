package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "netforge"

// Metrics holds all NetForge registry metric instruments.
type Metrics struct {
	Operations     metric.Int64Counter
	AccountsLive   metric.Int64UpDownCounter
	TenantsLive    metric.Int64UpDownCounter
	ComponentsLive metric.Int64UpDownCounter
}

// NewMetrics creates all metric instruments.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	m := &Metrics{}
	var err error

	m.Operations, err = meter.Int64Counter("netforge.registry.operations",
		metric.WithDescription("Number of registry operations by name and outcome"))
	if err != nil {
		return nil, err
	}

	m.AccountsLive, err = meter.Int64UpDownCounter("netforge.registry.accounts",
		metric.WithDescription("Number of live accounts"))
	if err != nil {
		return nil, err
	}

	m.TenantsLive, err = meter.Int64UpDownCounter("netforge.registry.tenants",
		metric.WithDescription("Number of live tenants"))
	if err != nil {
		return nil, err
	}

	m.ComponentsLive, err = meter.Int64UpDownCounter("netforge.registry.components",
		metric.WithDescription("Number of registered components"))
	if err != nil {
		return nil, err
	}

	return m, nil
}
