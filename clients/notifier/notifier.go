package notifier

import "context"

// Report is a rendered analysis report, pre-split into transport-safe chunks.
type Report struct {
	// ChatID is the Telegram chat the report was requested from. Messengers
	// bound to a fixed channel (e.g. a Discord mirror) ignore it.
	ChatID int64

	// Title is a short label for messengers that render headers.
	Title string

	// Chunks are delivered one message each, in order.
	Chunks []string
}

// Messenger is the interface for delivering reports to a chat platform.
type Messenger interface {
	// SendReport delivers each chunk of the report as a separate message.
	SendReport(ctx context.Context, report Report)

	// Close cleans up any resources.
	Close() error
}

// MultiMessenger broadcasts reports to multiple messengers.
type MultiMessenger struct {
	messengers []Messenger
}

// NewMultiMessenger creates a MultiMessenger with the given messengers.
// Nil entries are dropped.
func NewMultiMessenger(messengers ...Messenger) *MultiMessenger {
	var active []Messenger
	for _, m := range messengers {
		if m != nil {
			active = append(active, m)
		}
	}
	return &MultiMessenger{messengers: active}
}

// SendReport sends the report to all registered messengers.
func (m *MultiMessenger) SendReport(ctx context.Context, report Report) {
	for _, msgr := range m.messengers {
		msgr.SendReport(ctx, report)
	}
}

// Close closes all registered messengers.
func (m *MultiMessenger) Close() error {
	var lastErr error
	for _, msgr := range m.messengers {
		if err := msgr.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Count returns the number of active messengers.
func (m *MultiMessenger) Count() int {
	return len(m.messengers)
}
