package health

import "testing"

// --- Mocks ---

type mockEngine struct {
	ready   bool
	records int
	model   string
}

func (m *mockEngine) Ready() bool      { return m.ready }
func (m *mockEngine) RecordCount() int { return m.records }
func (m *mockEngine) Model() string    { return m.model }

func TestCheck_Healthy(t *testing.T) {
	svc := New(&mockEngine{ready: true, records: 42, model: "test-model"})

	report := svc.Check()
	if !report.Healthy {
		t.Error("expected healthy report")
	}
	if report.RecordsLoaded != 42 {
		t.Errorf("expected 42 records, got %d", report.RecordsLoaded)
	}
	if report.Model != "test-model" {
		t.Errorf("expected model test-model, got %q", report.Model)
	}
}

func TestCheck_Unhealthy(t *testing.T) {
	svc := New(&mockEngine{})

	report := svc.Check()
	if report.Healthy {
		t.Error("expected unhealthy report without a loaded bundle")
	}
	if report.RecordsLoaded != 0 {
		t.Errorf("expected 0 records, got %d", report.RecordsLoaded)
	}
}
