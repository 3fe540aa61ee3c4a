// Package health aggregates readiness of the search backends.
package health

import (
	"context"
	"sort"
)

// Pinger is implemented by each backend dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status is the readiness report for one dependency.
type Status struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Service checks backend readiness.
type Service struct {
	deps map[string]Pinger
}

// New creates a health service over named dependencies.
func New(deps map[string]Pinger) *Service {
	return &Service{deps: deps}
}

// Check pings every dependency. The bool is true only when all are
// reachable.
func (s *Service) Check(ctx context.Context) ([]Status, bool) {
	statuses := make([]Status, 0, len(s.deps))
	healthy := true

	for name, dep := range s.deps {
		st := Status{Name: name, OK: true}
		if err := dep.Ping(ctx); err != nil {
			st.OK = false
			st.Error = err.Error()
			healthy = false
		}
		statuses = append(statuses, st)
	}

	sort.Slice(statuses, func(i, j int) bool { return statuses[i].Name < statuses[j].Name })
	return statuses, healthy
}
