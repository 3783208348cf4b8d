package http

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"docqa/internal/domain"
	"docqa/internal/logger"
	"docqa/internal/transport/http/handler"
	"docqa/internal/transport/http/response"
)

// RequestIDHeader carries the trace id of a request.
const RequestIDHeader = "X-Request-ID"

// Deps are the collaborators the routes need.
type Deps struct {
	Answerer  handler.Answerer
	Base      domain.RagConfig
	UploadDir string
	Override  domain.Completer // replaces the default model when set
	Gatherer  prometheus.Gatherer
	Log       *zap.Logger
}

func NewRouter(d Deps) *gin.Engine {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	router := gin.New()
	router.Use(traceID(), requestLogger(d.Log), gin.CustomRecovery(func(c *gin.Context, recovered any) {
		response.Error(c, http.StatusInternalServerError, fmt.Sprintf("Internal server error: %v", recovered))
	}))

	healthHandler := handler.NewHealthHandler()
	askHandler := handler.NewAskHandler(d.Answerer, d.Base, d.UploadDir, d.Override)
	uploadHandler := handler.NewUploadHandler(d.UploadDir, d.Log)

	router.GET("/health", healthHandler.Check)
	router.POST("/ask", askHandler.Ask)
	router.POST("/upload", uploadHandler.Upload)
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}
	return router
}

// NewServer wraps router in an http.Server listening on port.
func NewServer(router http.Handler, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// traceID tags the request context with the incoming request id or a new one.
func traceID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = logger.NewTraceID()
		}
		c.Request = c.Request.WithContext(logger.WithTraceID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.FromContext(c.Request.Context(), log).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
