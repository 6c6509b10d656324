package mocks

import (
	"context"

	"tablediff/core/dispatch"

	"github.com/stretchr/testify/mock"
)

// Sink is a mock implementation of dispatch.Sink
type Sink struct {
	mock.Mock
}

func (m *Sink) Send(ctx context.Context, p dispatch.Payload) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *Sink) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
