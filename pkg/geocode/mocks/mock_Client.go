// Package mocks provides test doubles for the geocode client.
package mocks

import (
	"context"

	geocode "github.com/sells-group/pilgrimage-cli/pkg/geocode"
	mock "github.com/stretchr/testify/mock"
)

// MockClient is a mock type for the Client interface.
type MockClient struct {
	mock.Mock
}

// Geocode provides a mock function with given fields: ctx, work, region
func (_m *MockClient) Geocode(ctx context.Context, work string, region string) geocode.Result {
	ret := _m.Called(ctx, work, region)

	if len(ret) == 0 {
		panic("no return value specified for Geocode")
	}

	var r0 geocode.Result
	if rf, ok := ret.Get(0).(func(context.Context, string, string) geocode.Result); ok {
		r0 = rf(ctx, work, region)
	} else {
		r0 = ret.Get(0).(geocode.Result)
	}

	return r0
}

// NewMockClient creates a new instance of MockClient.
func NewMockClient(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockClient {
	mock := &MockClient{}
	mock.Test(t)

	t.Cleanup(func() { mock.AssertExpectations(t) })

	return mock
}
