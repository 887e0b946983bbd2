package models

// Product representa un producto del catálogo. ID cero indica un producto
// que aún no fue guardado.
type Product struct {
	ID        int64  `json:"id" db:"id"`
	Name      string `json:"name" db:"name"`
	UnitPrice Amount `json:"unitPrice"`
}

// IsTransient retorna true si el producto no tiene ID asignado por el store
func (p Product) IsTransient() bool {
	return p.ID == 0
}

// PriceSpecification representa el precio base y el impuesto de una cotización
type PriceSpecification struct {
	BasePrice Amount `json:"basePrice"`
	Tax       Amount `json:"tax"`
}

// TotalPrice representa el total de una cotización junto con la cantidad pedida
type TotalPrice struct {
	Quantity int    `json:"quantity"`
	Total    Amount `json:"total"`
}

// WithUnitPrice retorna una copia del producto con otro precio unitario
func (p Product) WithUnitPrice(price Amount) Product {
	p.UnitPrice = price
	return p
}
