package database

import (
	"context"
	"fmt"

	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/sirupsen/logrus"
)

// ProductRepository maneja las operaciones de base de datos para Product
type ProductRepository struct {
	db     *DB
	logger *logrus.Logger
}

// NewProductRepository crea una nueva instancia del repositorio
func NewProductRepository(db *DB, logger *logrus.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

// List obtiene todos los productos en el orden natural de la tabla
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	query := `
		SELECT id, name, unit_price, currency
		FROM product
	`

	rows, err := r.db.QueryWithTimeout(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying products: %w", err)
	}
	defer rows.Close()

	products := []models.Product{}
	for rows.Next() {
		var product models.Product
		err := rows.Scan(
			&product.ID, &product.Name,
			&product.UnitPrice.Value, &product.UnitPrice.Currency.Symbol,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning product: %w", err)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// Insert guarda un producto y retorna el ID asignado. El ID del producto
// recibido se ignora.
func (r *ProductRepository) Insert(ctx context.Context, product models.Product) (int64, error) {
	query := `
		INSERT INTO product (name, unit_price, currency)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowWithTimeout(ctx, query, []interface{}{&id},
		product.Name, product.UnitPrice.Value, product.UnitPrice.Currency.Symbol,
	)
	if err != nil {
		return 0, fmt.Errorf("error inserting product: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"product_id": id,
		"name":       product.Name,
	}).Debug("Product row inserted")

	return id, nil
}
