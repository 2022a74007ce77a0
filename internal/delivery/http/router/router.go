package router

import (
	"log/slog"

	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/handlers"
	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/middleware"
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies collects what the HTTP surface needs.
type Dependencies struct {
	Logger            *slog.Logger
	Deals             usecase.DealUsecase
	PaystackSecretKey string
	AllowedOrigins    []string
	// Gatherer backs /metrics; nil leaves the endpoint out.
	Gatherer prometheus.Gatherer
}

func New(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.CORS(deps.AllowedOrigins),
	)

	health := handlers.NewHealthHandler()
	r.GET("/health", health.Health)
	r.GET("/api/test", health.Ping)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	deals := handlers.NewDealHandler(deps.Deals)
	webhook := handlers.NewWebhookHandler(deps.Deals, deps.PaystackSecretKey)

	api := r.Group("/api")
	{
		api.GET("/fees/preview", deals.PreviewFees)

		d := api.Group("/deals")
		d.POST("/create", deals.CreateDeal)
		d.POST("/verify-payment", deals.VerifyPayment)
		d.POST("/paystack/webhook", webhook.Paystack)
		d.GET("", deals.ListDeals)
		d.GET("/summary", deals.GetSummary)
		d.GET("/:id", deals.GetDeal)
		d.POST("/:id/confirm", deals.ConfirmReceipt)
		d.POST("/:id/cancel", deals.CancelDeal)
		d.POST("/:id/dispute", deals.OpenDispute)
		d.POST("/:id/resolve-refund", deals.ResolveDisputeRefund)
		d.POST("/:id/resolve-release", deals.ResolveDisputeRelease)
	}

	return r
}
