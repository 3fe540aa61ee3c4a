package health

import (
	"context"
	"errors"
	"testing"
)

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestCheckAllHealthy(t *testing.T) {
	svc := New(map[string]Pinger{
		"redis":  fakePinger{},
		"sqlite": fakePinger{},
	})

	statuses, healthy := svc.Check(context.Background())
	if !healthy {
		t.Error("healthy = false, want true")
	}
	if len(statuses) != 2 {
		t.Fatalf("statuses = %d, want 2", len(statuses))
	}
	// Deterministic order by name.
	if statuses[0].Name != "redis" || statuses[1].Name != "sqlite" {
		t.Errorf("order = %s, %s", statuses[0].Name, statuses[1].Name)
	}
}

func TestCheckDegraded(t *testing.T) {
	svc := New(map[string]Pinger{
		"redis":  fakePinger{err: errors.New("connection refused")},
		"sqlite": fakePinger{},
	})

	statuses, healthy := svc.Check(context.Background())
	if healthy {
		t.Error("healthy = true, want false")
	}
	for _, st := range statuses {
		if st.Name == "redis" {
			if st.OK || st.Error == "" {
				t.Errorf("redis status = %+v, want failed with message", st)
			}
		}
		if st.Name == "sqlite" && !st.OK {
			t.Errorf("sqlite status = %+v, want ok", st)
		}
	}
}
