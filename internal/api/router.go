package api

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

//go:embed templates/*.html
var templatesFS embed.FS

// NewRouter configura el router principal
func NewRouter(apiHandler *API, logger *logrus.Logger) *gin.Engine {
	router := gin.New()

	// Middleware global
	router.Use(RequestID())
	router.Use(RequestLogger(logger))
	router.Use(gin.Recovery())

	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	router.GET("/health", apiHandler.Health)

	// Vistas HTML
	router.GET("/", apiHandler.ListProducts)
	router.GET("/hello/:name", apiHandler.ListProducts)
	router.GET("/products", apiHandler.ListProducts)

	// Productos y precios
	router.GET("/product/:name", apiHandler.GetProduct)
	router.GET("/totalprice/:name/:quantity", apiHandler.TotalPrice)
	router.GET("/finalprice/:name/:quantity/:discount", apiHandler.FinalPrice)
	router.POST("/addProduct", apiHandler.AddProduct)

	router.NoRoute(apiHandler.NotFound)

	return router
}
