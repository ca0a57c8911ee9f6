package featureflags

import "testing"

func TestEnabled_BooleanValues(t *testing.T) {
	m := NewManager("a=on,b=off,c=true,d=false,e=1,f=0")

	if !m.Enabled("a", "u1") || !m.Enabled("c", "u1") || !m.Enabled("e", "") {
		t.Fatal("expected enabled boolean values to evaluate true")
	}
	if m.Enabled("b", "u1") || m.Enabled("d", "u1") || m.Enabled("f", "") {
		t.Fatal("expected disabled boolean values to evaluate false")
	}
	if m.Enabled("missing", "u1") {
		t.Fatal("unknown flags are off")
	}
}

func TestEnabled_PercentageValues(t *testing.T) {
	m := NewManager("always=100%,never=0%,canary=25%")

	if !m.Enabled("always", "") {
		t.Fatal("100% rollout should always be enabled")
	}
	if m.Enabled("never", "u1") {
		t.Fatal("0% rollout should always be disabled")
	}

	first := m.Enabled("canary", "student-42")
	for i := 0; i < 5; i++ {
		if got := m.Enabled("canary", "student-42"); got != first {
			t.Fatal("rollout evaluation must be deterministic per subject")
		}
	}

	if m.Enabled("canary", "") {
		t.Fatal("percentage rollout requires a subject")
	}
}

func TestNilManager(t *testing.T) {
	var m *Manager
	if m.Enabled(DemoFallback, "") {
		t.Fatal("nil manager must report every flag off")
	}
	if snap := m.Snapshot("u1"); len(snap) != 0 {
		t.Fatalf("expected empty snapshot, got %#v", snap)
	}
}

func TestSnapshot(t *testing.T) {
	m := NewManager(" bad ,demo_fallback=on, admin_screens = off ")

	snap := m.Snapshot("u1")
	if len(snap) != 2 {
		t.Fatalf("expected snapshot size 2, got %d", len(snap))
	}
	if !snap[DemoFallback] || snap[AdminScreens] {
		t.Fatalf("unexpected snapshot: %#v", snap)
	}
}
