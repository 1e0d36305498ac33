package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "repdf/docs" // registers the swagger spec
	"repdf/internal/handler"
	"repdf/internal/middleware"
)

// Options holds router-level settings.
type Options struct {
	AllowedOrigins []string
	// MaxBodyBytes caps request bodies; multipart overhead is on top of the upload limit.
	MaxBodyBytes   int64
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	conversionH *handler.ConversionHandler,
	analysisH *handler.AnalysisHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	uploads := v1.Group("")
	uploads.Use(middleware.MaxBodySize(opts.MaxBodyBytes))
	uploads.POST("/analyze", analysisH.Analyze)
	uploads.POST("/process/pptx", conversionH.Submit)

	v1.GET("/process/status/:id", conversionH.Status)
	v1.GET("/download/:id", conversionH.Download)

	return r
}
