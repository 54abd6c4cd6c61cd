package metrics

import (
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	mu         sync.Mutex
	collectors []prometheus.Collector
	once       sync.Once
)

// register queues collectors declared by per-concern files' init functions.
func register(cs ...prometheus.Collector) {
	mu.Lock()
	defer mu.Unlock()
	collectors = append(collectors, cs...)
}

// MustRegister installs every queued collector into the default registry.
// Idempotent; called once from main.
func MustRegister() {
	once.Do(func() {
		mu.Lock()
		defer mu.Unlock()
		prometheus.MustRegister(collectors...)
	})
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }
