package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hypernova-labs/catalog-service/internal/models"
	"github.com/hypernova-labs/catalog-service/internal/services"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

const (
	msgProductAdded       = "Product added"
	msgInvalidProductData = "Invalid product data"
	msgNotFound           = "Not Found"
)

// HealthChecker es cualquier dependencia que puede reportar su estado
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// API maneja todos los endpoints del catálogo
type API struct {
	productService *services.ProductService
	pricingService *services.PricingService
	checks         map[string]HealthChecker
	exposeErrors   bool
	logger         *logrus.Logger
}

// NewAPI crea una nueva instancia de la API. Con exposeErrors los 500
// incluyen el mensaje de error original.
func NewAPI(
	productService *services.ProductService,
	pricingService *services.PricingService,
	checks map[string]HealthChecker,
	exposeErrors bool,
	logger *logrus.Logger,
) *API {
	return &API{
		productService: productService,
		pricingService: pricingService,
		checks:         checks,
		exposeErrors:   exposeErrors,
		logger:         logger,
	}
}

// ListProducts muestra los productos guardados. Responde HTML salvo que el
// cliente pida JSON por Accept o con ?format=json.
func (api *API) ListProducts(c *gin.Context) {
	products, err := api.productService.List(c.Request.Context())
	if err != nil {
		api.internalError(c, err, "Error listing products")
		return
	}

	if c.Query("format") == "json" || c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		c.JSON(http.StatusOK, products)
		return
	}

	c.HTML(http.StatusOK, "products.html", gin.H{
		"Products": products,
	})
}

// GetProduct retorna un producto sintético con el nombre pedido
func (api *API) GetProduct(c *gin.Context) {
	c.JSON(http.StatusOK, api.productService.FixtureProduct(c.Param("name")))
}

// AddProduct guarda el producto recibido en el body. El body completo debe
// ser un único documento JSON; texto sobrante se rechaza.
func (api *API) AddProduct(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		api.logger.WithError(err).Warn("Error reading add product request")
		c.String(http.StatusBadRequest, msgInvalidProductData)
		return
	}

	var product models.Product
	if err := json.Unmarshal(body, &product); err != nil {
		api.logger.WithError(err).Warn("Error decoding add product request")
		c.String(http.StatusBadRequest, msgInvalidProductData)
		return
	}

	if _, err := api.productService.Add(c.Request.Context(), product); err != nil {
		api.internalError(c, err, "Error adding product")
		return
	}

	c.String(http.StatusOK, msgProductAdded)
}

// TotalPrice retorna el producto sintético con el total (base + impuesto)
// como precio unitario
func (api *API) TotalPrice(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		api.NotFound(c)
		return
	}

	product := api.productService.FixtureProduct(c.Param("name"))
	total, err := api.pricingService.Total(product, quantity)
	if err != nil {
		api.internalError(c, err, "Error computing total price")
		return
	}

	c.JSON(http.StatusOK, product.WithUnitPrice(total.Total))
}

// FinalPrice retorna el producto sintético con el total menos el descuento
// como precio unitario
func (api *API) FinalPrice(c *gin.Context) {
	quantity, err := strconv.Atoi(c.Param("quantity"))
	if err != nil {
		api.NotFound(c)
		return
	}
	discount, err := decimal.NewFromString(c.Param("discount"))
	if err != nil {
		api.NotFound(c)
		return
	}

	product := api.productService.FixtureProduct(c.Param("name"))
	final, err := api.pricingService.Final(product, quantity, discount)
	if err != nil {
		api.internalError(c, err, "Error computing final price")
		return
	}

	c.JSON(http.StatusOK, product.WithUnitPrice(final))
}

// Health reporta el estado del servicio y sus dependencias
func (api *API) Health(c *gin.Context) {
	status := http.StatusOK
	deps := gin.H{}
	for name, check := range api.checks {
		if err := check.HealthCheck(c.Request.Context()); err != nil {
			api.logger.WithError(err).WithField("dependency", name).Warn("Health check failed")
			deps[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		deps[name] = "up"
	}

	state := "ok"
	if status != http.StatusOK {
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":       state,
		"timestamp":    time.Now().UTC(),
		"service":      "catalog-service",
		"dependencies": deps,
	})
}

// NotFound responde 404 para rutas que no existen
func (api *API) NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, msgNotFound)
}

// internalError registra el error y responde 500
func (api *API) internalError(c *gin.Context, err error, message string) {
	api.logger.WithError(err).WithField("path", c.Request.URL.Path).Error(message)
	if api.exposeErrors {
		message = err.Error()
	}
	c.JSON(http.StatusInternalServerError, models.NewInternalError(message))
}
