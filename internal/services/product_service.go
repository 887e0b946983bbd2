package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/hypernova-labs/catalog-service/internal/database"
	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ProductStore es el acceso a la tabla de productos
type ProductStore interface {
	List(ctx context.Context) ([]models.Product, error)
	Insert(ctx context.Context, product models.Product) (int64, error)
}

// ProductCache guarda la lista de productos entre peticiones. Cada lista se
// guarda bajo una versión; Invalidate avanza la versión.
type ProductCache interface {
	Version(ctx context.Context) (int64, error)
	GetProducts(ctx context.Context, version int64) ([]models.Product, error)
	SetProducts(ctx context.Context, version int64, products []models.Product) error
	Invalidate(ctx context.Context) error
}

// ProductEvents publica los cambios del catálogo
type ProductEvents interface {
	PublishProductAdded(ctx context.Context, correlationID string, product models.Product) error
}

// ProductService maneja la lógica de negocio para Product
type ProductService struct {
	store   ProductStore
	cache   ProductCache
	events  ProductEvents
	fixture models.Amount
	logger  *logrus.Logger
}

// ProductServiceOption configura dependencias opcionales del servicio
type ProductServiceOption func(*ProductService)

// WithCache activa el caché de la lista de productos
func WithCache(cache ProductCache) ProductServiceOption {
	return func(s *ProductService) { s.cache = cache }
}

// WithEvents activa la publicación de eventos
func WithEvents(events ProductEvents) ProductServiceOption {
	return func(s *ProductService) { s.events = events }
}

// NewProductService crea una nueva instancia del servicio. fixturePrice es el
// precio de los productos sintéticos de FixtureProduct.
func NewProductService(store ProductStore, fixturePrice models.Amount, logger *logrus.Logger, opts ...ProductServiceOption) *ProductService {
	s := &ProductService{
		store:   store,
		fixture: fixturePrice,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List obtiene todos los productos guardados. La versión del caché se lee
// antes de consultar el store, así una lista leída antes de un Add nunca se
// guarda bajo la versión posterior al Add.
func (s *ProductService) List(ctx context.Context) ([]models.Product, error) {
	version, cached := int64(0), false
	if s.cache != nil {
		v, err := s.cache.Version(ctx)
		if err != nil {
			s.logger.WithError(err).Warn("Product cache version read failed")
		} else {
			version, cached = v, true
		}
	}

	if cached {
		products, err := s.cache.GetProducts(ctx, version)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, database.ErrCacheMiss) {
			s.logger.WithError(err).Warn("Product cache read failed")
		}
	}

	products, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing products: %w", err)
	}

	if cached {
		if err := s.cache.SetProducts(ctx, version, products); err != nil {
			s.logger.WithError(err).Warn("Product cache write failed")
		}
	}

	return products, nil
}

// Add guarda un producto. No valida nombre ni precio.
func (s *ProductService) Add(ctx context.Context, product models.Product) (models.Product, error) {
	id, err := s.store.Insert(ctx, product)
	if err != nil {
		return models.Product{}, fmt.Errorf("error adding product: %w", err)
	}
	product.ID = id

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx); err != nil {
			s.logger.WithError(err).Warn("Product cache invalidation failed")
		}
	}

	if s.events != nil {
		if err := s.events.PublishProductAdded(ctx, RequestIDFromContext(ctx), product); err != nil {
			s.logger.WithError(err).WithField("product_id", product.ID).Warn("ProductAdded not published")
		}
	}

	s.logger.WithFields(logrus.Fields{
		"product_id": product.ID,
		"name":       product.Name,
		"unit_price": product.UnitPrice.String(),
	}).Info("Product added successfully")

	return product, nil
}

// FixtureProduct construye un producto sintético con el nombre dado y el
// precio fijo configurado. No consulta el store.
func (s *ProductService) FixtureProduct(name string) models.Product {
	return models.Product{
		ID:        0,
		Name:      name,
		UnitPrice: s.fixture,
	}
}
