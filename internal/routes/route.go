package routes

import (
	"net/http"
	"time"

	"bookrepository/internal/handler"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func SetupRoutes(service handler.BookService, health http.Handler) *gin.Engine {
	bookHandler := handler.NewBookHandler(service)

	router := gin.New()

	router.Use(handler.RequestIDMiddleware())
	router.Use(ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
		TimeFormat: time.RFC3339,
		UTC:        true,
		SkipPaths:  []string{"/live", "/ready", "/metrics"},
		Context: func(c *gin.Context) []zapcore.Field {
			return []zapcore.Field{zap.String("request_id", handler.RequestID(c))}
		},
	}))
	router.Use(ginzap.RecoveryWithZap(zap.L(), true))
	router.Use(handler.MetricsMiddleware())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	if health != nil {
		router.GET("/live", gin.WrapH(health))
		router.GET("/ready", gin.WrapH(health))
	}

	books := router.Group("/books/repository")
	{
		books.GET("", bookHandler.ListBooks)
		books.POST("", bookHandler.CreateBook)
		books.PUT("", bookHandler.UpdateBook)
		books.PATCH("", bookHandler.UpsertBook)
		books.DELETE("", bookHandler.DeleteAllBooks)

		books.GET("/stream", bookHandler.StreamBooks)
		books.GET("/count", bookHandler.CountBooks)
		books.GET("/search", bookHandler.SearchBook)
		books.GET("/search2", bookHandler.SearchBookNamed)
		books.GET("/search/:author", bookHandler.FindByAuthor)

		books.GET("/:id", bookHandler.GetBookById)
		books.DELETE("/:id", bookHandler.DeleteBook)
	}

	return router
}
