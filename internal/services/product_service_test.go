package services

import (
	"context"
	"errors"
	"testing"

	"github.com/hypernova-labs/catalog-service/internal/database"
	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	products  []models.Product
	listCalls int
	listErr   error
	insertErr error
	// afterList corre después de leer las filas y antes de retornarlas
	afterList func()
}

func (s *fakeStore) List(context.Context) ([]models.Product, error) {
	s.listCalls++
	if s.listErr != nil {
		return nil, s.listErr
	}
	products := append([]models.Product(nil), s.products...)
	if s.afterList != nil {
		hook := s.afterList
		s.afterList = nil
		hook()
	}
	return products, nil
}

func (s *fakeStore) Insert(_ context.Context, p models.Product) (int64, error) {
	if s.insertErr != nil {
		return 0, s.insertErr
	}
	p.ID = int64(len(s.products) + 1)
	s.products = append(s.products, p)
	return p.ID, nil
}

// fakeCache guarda listas por versión, como el caché de Redis
type fakeCache struct {
	version     int64
	lists       map[int64][]models.Product
	getErr      error
	versionErr  error
	invalidated int
}

func (c *fakeCache) Version(context.Context) (int64, error) {
	if c.versionErr != nil {
		return 0, c.versionErr
	}
	return c.version, nil
}

func (c *fakeCache) GetProducts(_ context.Context, version int64) ([]models.Product, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	products, ok := c.lists[version]
	if !ok {
		return nil, database.ErrCacheMiss
	}
	return products, nil
}

func (c *fakeCache) SetProducts(_ context.Context, version int64, products []models.Product) error {
	if c.lists == nil {
		c.lists = map[int64][]models.Product{}
	}
	if _, ok := c.lists[version]; !ok {
		c.lists[version] = products
	}
	return nil
}

func (c *fakeCache) Invalidate(context.Context) error {
	c.version++
	c.invalidated++
	return nil
}

type fakeEvents struct {
	published     []models.Product
	correlationID string
	err           error
}

func (e *fakeEvents) PublishProductAdded(_ context.Context, correlationID string, p models.Product) error {
	e.correlationID = correlationID
	if e.err != nil {
		return e.err
	}
	e.published = append(e.published, p)
	return nil
}

var fixturePrice = models.Amount{Currency: models.USD, Value: dec("20.00")}

func TestProductService_AddThenList(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	svc := NewProductService(store, fixturePrice, newTestLogger())

	added, err := svc.Add(ctx, product("Widget", "9.99"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), added.ID)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, "9.99 USD", products[0].UnitPrice.String())
}

func TestProductService_StoreErrorsPropagate(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("connection refused")
	svc := NewProductService(&fakeStore{listErr: boom, insertErr: boom}, fixturePrice, newTestLogger())

	_, err := svc.List(ctx)
	assert.ErrorIs(t, err, boom)

	_, err = svc.Add(ctx, product("Widget", "1"))
	assert.ErrorIs(t, err, boom)
}

func TestProductService_CacheReadThroughAndInvalidation(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []models.Product{product("Gadget", "5.00")}}
	cache := &fakeCache{}
	svc := NewProductService(store, fixturePrice, newTestLogger(), WithCache(cache))

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.listCalls, "second list should be served from cache")

	_, err = svc.Add(ctx, product("Widget", "9.99"))
	require.NoError(t, err)
	assert.Equal(t, 1, cache.invalidated)

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, store.listCalls)
	assert.Len(t, products, 2)
}

func TestProductService_AddDuringListDoesNotLeaveStaleCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{}
	cache := &fakeCache{}
	svc := NewProductService(store, fixturePrice, newTestLogger(), WithCache(cache))

	store.afterList = func() {
		_, err := svc.Add(ctx, product("Widget", "9.99"))
		require.NoError(t, err)
	}

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, products, "first list read the store before the insert")

	products, err = svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "Widget", products[0].Name)
	assert.Equal(t, 2, store.listCalls)
}

func TestProductService_CacheVersionFailureSkipsCache(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []models.Product{product("Gadget", "5.00")}}
	cache := &fakeCache{versionErr: errors.New("redis down")}
	svc := NewProductService(store, fixturePrice, newTestLogger(), WithCache(cache))

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Empty(t, cache.lists)
}

func TestProductService_CacheFailureFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	store := &fakeStore{products: []models.Product{product("Gadget", "5.00")}}
	svc := NewProductService(store, fixturePrice, newTestLogger(), WithCache(&fakeCache{getErr: errors.New("redis down")}))

	products, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 1)
	assert.Equal(t, 1, store.listCalls)
}

func TestProductService_PublishesProductAdded(t *testing.T) {
	ctx := WithRequestID(context.Background(), "req-1")
	events := &fakeEvents{}
	svc := NewProductService(&fakeStore{}, fixturePrice, newTestLogger(), WithEvents(events))

	_, err := svc.Add(ctx, product("Widget", "9.99"))
	require.NoError(t, err)
	require.Len(t, events.published, 1)
	assert.Equal(t, int64(1), events.published[0].ID)
	assert.Equal(t, "req-1", events.correlationID)
}

func TestProductService_PublishFailureDoesNotFailAdd(t *testing.T) {
	svc := NewProductService(&fakeStore{}, fixturePrice, newTestLogger(), WithEvents(&fakeEvents{err: errors.New("channel closed")}))

	_, err := svc.Add(context.Background(), product("Widget", "9.99"))
	assert.NoError(t, err)
}

func TestProductService_FixtureProduct(t *testing.T) {
	store := &fakeStore{}
	svc := NewProductService(store, fixturePrice, newTestLogger())

	p := svc.FixtureProduct("Anything")
	assert.Equal(t, int64(0), p.ID)
	assert.True(t, p.IsTransient())
	assert.Equal(t, "Anything", p.Name)
	assert.Equal(t, "20.00 USD", p.UnitPrice.String())
	assert.Zero(t, store.listCalls)
}

func TestRequestIDFromContext(t *testing.T) {
	assert.Equal(t, "", RequestIDFromContext(context.Background()))
	assert.Equal(t, "abc", RequestIDFromContext(WithRequestID(context.Background(), "abc")))
}
