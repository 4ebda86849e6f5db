package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/hudumahub/huduma/internal/cache"
	"github.com/hudumahub/huduma/internal/config"
	entitlementdomain "github.com/hudumahub/huduma/internal/entitlement/domain"
	paymentdomain "github.com/hudumahub/huduma/internal/payment/domain"
	"github.com/hudumahub/huduma/internal/ratelimit"
	subscriptiondomain "github.com/hudumahub/huduma/internal/subscription/domain"
	unlockdomain "github.com/hudumahub/huduma/internal/unlock/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	db              *gorm.DB
	log             *zap.Logger
	genID           *snowflake.Node
	entitlementSvc  entitlementdomain.Service
	subscriptionSvc subscriptiondomain.Service
	unlockSvc       unlockdomain.Service
	paymentSvc      paymentdomain.Service
	accessCache     cache.AccessCache
	paymentLimiter  *ratelimit.PaymentLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	DB              *gorm.DB
	Log             *zap.Logger
	GenID           *snowflake.Node
	EntitlementSvc  entitlementdomain.Service
	SubscriptionSvc subscriptiondomain.Service
	UnlockSvc       unlockdomain.Service
	PaymentSvc      paymentdomain.Service
	AccessCache     cache.AccessCache
	PaymentLimiter  *ratelimit.PaymentLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		db:              p.DB,
		log:             p.Log.Named("http.server"),
		genID:           p.GenID,
		entitlementSvc:  p.EntitlementSvc,
		subscriptionSvc: p.SubscriptionSvc,
		unlockSvc:       p.UnlockSvc,
		paymentSvc:      p.PaymentSvc,
		accessCache:     p.AccessCache,
		paymentLimiter:  p.PaymentLimiter,
	}

	s.registerAPIRoutes()

	return s
}

func (s *Server) registerAPIRoutes() {
	v1 := s.engine.Group("/v1")
	v1.Use(s.ClientContext())

	v1.GET("/access", s.GetAccess)
	v1.GET("/access/providers/:id", s.GetProviderAccess)
	v1.POST("/views/providers/:id", s.RecordProviderView)

	v1.GET("/unlocks/providers/:id", s.GetUnlock)

	v1.POST("/payments", s.StartPayment)
	v1.GET("/payments/:id", s.GetPayment)
	v1.POST("/payments/:id/settle", s.SettlePayment)

	v1.DELETE("/subscription", s.CancelSubscription)
}
