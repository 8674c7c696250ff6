package notifier

import (
	"context"
	"testing"
)

type recordingMessenger struct {
	reports []Report
	closed  bool
}

func (m *recordingMessenger) SendReport(ctx context.Context, report Report) {
	m.reports = append(m.reports, report)
}

func (m *recordingMessenger) Close() error {
	m.closed = true
	return nil
}

func TestMultiMessenger_FanOut(t *testing.T) {
	a := &recordingMessenger{}
	b := &recordingMessenger{}
	multi := NewMultiMessenger(a, b)

	report := Report{ChatID: 7, Title: "t", Chunks: []string{"one", "two"}}
	multi.SendReport(context.Background(), report)

	for i, m := range []*recordingMessenger{a, b} {
		if len(m.reports) != 1 {
			t.Fatalf("messenger %d got %d reports, want 1", i, len(m.reports))
		}
		if m.reports[0].ChatID != 7 || len(m.reports[0].Chunks) != 2 {
			t.Errorf("messenger %d got unexpected report: %+v", i, m.reports[0])
		}
	}
}

func TestMultiMessenger_DropsNil(t *testing.T) {
	a := &recordingMessenger{}
	multi := NewMultiMessenger(a, nil, nil)

	if multi.Count() != 1 {
		t.Errorf("Count() = %d, want 1", multi.Count())
	}

	multi.SendReport(context.Background(), Report{ChatID: 1})
	if len(a.reports) != 1 {
		t.Errorf("expected report delivered to non-nil messenger")
	}
}

func TestMultiMessenger_Close(t *testing.T) {
	a := &recordingMessenger{}
	b := &recordingMessenger{}
	multi := NewMultiMessenger(a, b)

	if err := multi.Close(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !a.closed || !b.closed {
		t.Error("expected all messengers closed")
	}
}
