package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
)

var (
	metricsMu  sync.Mutex
	collectors = make(map[string]*fiberprometheus.FiberPrometheus)
)

// InitMetrics returns the request metrics collector for serviceName. Collectors register with the
// default prometheus registry once per process and are shared by every app built afterwards.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	metricsMu.Lock()
	defer metricsMu.Unlock()
	if p, ok := collectors[serviceName]; ok {
		return p
	}
	p := fiberprometheus.New(serviceName)
	collectors[serviceName] = p
	return p
}

// MetricsMiddleware records request count, latency and in-flight gauges.
func MetricsMiddleware(p *fiberprometheus.FiberPrometheus) fiber.Handler {
	return p.Middleware
}
