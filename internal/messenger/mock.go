package messenger

import (
	"context"
	"log"
)

// MockMessenger implements the Messenger interface by logging messages to
// stdout. Used when no platform webhook is configured.
type MockMessenger struct{}

func NewMockMessenger() *MockMessenger {
	return &MockMessenger{}
}

func (m *MockMessenger) Send(ctx context.Context, recipient, text string) error {
	log.Printf("📨 [MockMessenger] To %s: %s", recipient, text)
	return nil
}
