package packagemanager

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockTool struct {
	mock.Mock
}

func (m *MockTool) Run(ctx context.Context, dir string, args ...string) (string, error) {
	callArgs := m.Called(ctx, dir, args)
	return callArgs.String(0), callArgs.Error(1)
}
