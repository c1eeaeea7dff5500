//go:build unit

package service

import (
	"context"
	"time"

	"github.com/ijalalfrz/flight-itinerary-search/internal/app/dto"
	"github.com/ijalalfrz/flight-itinerary-search/internal/pkg/catalog"
	"github.com/stretchr/testify/mock"
)

type MockItineraryCacher struct {
	mock.Mock
}

func NewMockItineraryCacher(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockItineraryCacher {
	m := &MockItineraryCacher{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *MockItineraryCacher) GetLockKey(c *catalog.Catalog) string {
	return m.Called(c).String(0)
}

func (m *MockItineraryCacher) GetCacheKey(c *catalog.Catalog) string {
	return m.Called(c).String(0)
}

func (m *MockItineraryCacher) AcquireLock(ctx context.Context, key string, timeout time.Duration) (bool, error) {
	args := m.Called(ctx, key, timeout)
	return args.Bool(0), args.Error(1)
}

func (m *MockItineraryCacher) ReleaseLock(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockItineraryCacher) GetItineraries(ctx context.Context, key string) ([]dto.Itinerary, error) {
	args := m.Called(ctx, key)

	items, _ := args.Get(0).([]dto.Itinerary)

	return items, args.Error(1)
}

func (m *MockItineraryCacher) SetItineraries(ctx context.Context,
	key string,
	items []dto.Itinerary,
	expiration time.Duration,
) error {
	return m.Called(ctx, key, items, expiration).Error(0)
}
