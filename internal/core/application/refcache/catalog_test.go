package refcache_test

import (
	"context"
	"testing"
	"time"

	"orderwizard/internal/core/application/refcache"
	"orderwizard/internal/core/domain/model/catalog"
	"orderwizard/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type priceListMock struct {
	mock.Mock
}

func (m *priceListMock) GetCategories(ctx context.Context, activeOnly bool) ([]catalog.Category, error) {
	args := m.Called(ctx, activeOnly)
	return args.Get(0).([]catalog.Category), args.Error(1)
}

func (m *priceListMock) GetItemsByCategory(ctx context.Context, id kernel.UUID) ([]catalog.PriceListItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).([]catalog.PriceListItem), args.Error(1)
}

func (m *priceListMock) GetItem(ctx context.Context, id kernel.UUID) (catalog.PriceListItem, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(catalog.PriceListItem), args.Error(1)
}

type refDataMock struct {
	mock.Mock
}

func (m *refDataMock) Materials(ctx context.Context, code string) ([]catalog.Material, error) {
	args := m.Called(ctx, code)
	return args.Get(0).([]catalog.Material), args.Error(1)
}

func (m *refDataMock) Colors(ctx context.Context) ([]catalog.Color, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Color), args.Error(1)
}

func TestCatalog_CachesPerDomain(t *testing.T) {
	clock := newTestClock()
	pl := &priceListMock{}
	rd := &refDataMock{}
	cat := refcache.NewCatalog(pl, rd, refcache.DefaultTTLs(), clock)

	categoryID := kernel.NewUUID()
	pl.On("GetCategories", mock.Anything, true).
		Return([]catalog.Category{{ID: categoryID, Code: "CLOTHING", Name: "Одяг", Active: true}}, nil).Once()
	pl.On("GetItemsByCategory", mock.Anything, categoryID).
		Return([]catalog.PriceListItem{{ID: kernel.NewUUID(), CategoryID: categoryID, Name: "Пальто"}}, nil).Twice()
	rd.On("Colors", mock.Anything).Return([]catalog.Color{{Code: "BLACK", Name: "Чорний"}}, nil).Once()
	rd.On("Materials", mock.Anything, "CLOTHING").Return([]catalog.Material{{Code: "WOOL", Name: "Вовна"}}, nil).Once()

	for range 3 {
		cats, err := cat.GetCategories(t.Context(), true)
		require.NoError(t, err)
		assert.Len(t, cats, 1)

		_, err = cat.GetItemsByCategory(t.Context(), categoryID)
		require.NoError(t, err)
		_, err = cat.Colors(t.Context())
		require.NoError(t, err)
		_, err = cat.Materials(t.Context(), "CLOTHING")
		require.NoError(t, err)
	}

	clock.Advance(6 * time.Minute)
	_, err := cat.GetItemsByCategory(t.Context(), categoryID)
	require.NoError(t, err)
	_, err = cat.GetCategories(t.Context(), true)
	require.NoError(t, err)

	pl.AssertExpectations(t)
	rd.AssertExpectations(t)
}

func TestCatalog_InvalidateAllForcesRefetch(t *testing.T) {
	pl := &priceListMock{}
	rd := &refDataMock{}
	cat := refcache.NewCatalog(pl, rd, refcache.DefaultTTLs(), newTestClock())

	rd.On("Colors", mock.Anything).Return([]catalog.Color{{Code: "RED"}}, nil).Twice()

	_, err := cat.Colors(t.Context())
	require.NoError(t, err)
	cat.InvalidateAll()
	_, err = cat.Colors(t.Context())
	require.NoError(t, err)

	rd.AssertNumberOfCalls(t, "Colors", 2)
}
