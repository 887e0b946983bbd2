package services

import (
	"fmt"

	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// DefaultFlatTaxRate es la tasa del impuesto plano (20%)
var DefaultFlatTaxRate = decimal.RequireFromString("0.2")

// TaxPolicy calcula el impuesto de un producto a partir de su precio base
type TaxPolicy interface {
	Compute(product models.Product, basePrice models.Amount) models.Amount
}

// FlatTaxPolicy aplica la misma tasa a cualquier producto
type FlatTaxPolicy struct {
	Rate decimal.Decimal
}

// NewFlatTaxPolicy crea la política de impuesto plano del 20%
func NewFlatTaxPolicy() FlatTaxPolicy {
	return FlatTaxPolicy{Rate: DefaultFlatTaxRate}
}

// Compute implementa TaxPolicy
func (p FlatTaxPolicy) Compute(_ models.Product, basePrice models.Amount) models.Amount {
	return models.Scale(p.Rate, basePrice)
}

// PricingService compone precio base, impuesto, total y descuento
type PricingService struct {
	taxPolicy TaxPolicy
	logger    *logrus.Logger
}

// NewPricingService crea una nueva instancia del servicio
func NewPricingService(taxPolicy TaxPolicy, logger *logrus.Logger) *PricingService {
	return &PricingService{
		taxPolicy: taxPolicy,
		logger:    logger,
	}
}

// BasePrice calcula el precio unitario por la cantidad. Cantidades cero o
// negativas no se rechazan.
func BasePrice(product models.Product, quantity int) models.Amount {
	return models.Scale(decimal.NewFromInt(int64(quantity)), product.UnitPrice)
}

// PriceSpecification calcula precio base e impuesto para una cantidad
func PriceSpecification(policy TaxPolicy, product models.Product, quantity int) models.PriceSpecification {
	basePrice := BasePrice(product, quantity)
	return models.PriceSpecification{
		BasePrice: basePrice,
		Tax:       policy.Compute(product, basePrice),
	}
}

// TotalPrice suma precio base e impuesto
func TotalPrice(policy TaxPolicy, product models.Product, quantity int) (models.TotalPrice, error) {
	spec := PriceSpecification(policy, product, quantity)
	total, err := models.Plus(spec.BasePrice, spec.Tax)
	if err != nil {
		return models.TotalPrice{}, fmt.Errorf("error adding tax to base price: %w", err)
	}
	return models.TotalPrice{Quantity: quantity, Total: total}, nil
}

// FinalPrice aplica discountPercent al total con impuesto
func FinalPrice(policy TaxPolicy, discountPercent decimal.Decimal, product models.Product, quantity int) (models.Amount, error) {
	total, err := TotalPrice(policy, product, quantity)
	if err != nil {
		return models.Amount{}, err
	}
	return models.ApplyDiscount(discountPercent, total.Total), nil
}

// Total calcula el total con la política del servicio
func (s *PricingService) Total(product models.Product, quantity int) (models.TotalPrice, error) {
	s.logQuantity(product, quantity)

	total, err := TotalPrice(s.taxPolicy, product, quantity)
	if err != nil {
		return models.TotalPrice{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"product":  product.Name,
		"quantity": quantity,
		"total":    total.Total.String(),
	}).Debug("Total price computed")

	return total, nil
}

// Final calcula el total con descuento con la política del servicio
func (s *PricingService) Final(product models.Product, quantity int, discountPercent decimal.Decimal) (models.Amount, error) {
	s.logQuantity(product, quantity)

	final, err := FinalPrice(s.taxPolicy, discountPercent, product, quantity)
	if err != nil {
		return models.Amount{}, err
	}

	s.logger.WithFields(logrus.Fields{
		"product":  product.Name,
		"quantity": quantity,
		"discount": discountPercent.String(),
		"final":    final.String(),
	}).Debug("Final price computed")

	return final, nil
}

func (s *PricingService) logQuantity(product models.Product, quantity int) {
	if quantity <= 0 {
		s.logger.WithFields(logrus.Fields{
			"product":  product.Name,
			"quantity": quantity,
		}).Debug("Non-positive quantity priced as-is")
	}
}
