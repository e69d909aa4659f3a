package http

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"

	"github.com/craftline/storefront/internal/config"
	"github.com/craftline/storefront/internal/http/metric"
	"github.com/craftline/storefront/internal/http/middleware"
	"github.com/craftline/storefront/internal/http/swagger"
	"github.com/craftline/storefront/internal/service"
	"github.com/craftline/storefront/pkg/validator"
)

var tracer = otel.Tracer("internal/http")

// Service represents the HTTP service.
type Service struct {
	cfg       config.HTTP
	logger    *slog.Logger
	metrics   *metric.Metrics
	validator validator.Validator

	catalogSvc service.CatalogService
	promoSvc   service.PromotionService
	paymentSvc service.PaymentService
}

type CleanupFunc func(ctx context.Context) error

func New(
	cfg config.HTTP,
	log *slog.Logger,
	validator validator.Validator,
	catalogSvc service.CatalogService,
	promoSvc service.PromotionService,
	paymentSvc service.PaymentService,
) *Service {
	return &Service{
		cfg:        cfg,
		logger:     log.With(slog.String("service", "http")),
		metrics:    metric.New(),
		validator:  validator,
		catalogSvc: catalogSvc,
		promoSvc:   promoSvc,
		paymentSvc: paymentSvc,
	}
}

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	r := chi.NewRouter()
	s.RegisterMiddlewares(r)

	if s.cfg.Swagger {
		swagger.Register(r)
	}

	s.RegisterHandlers(r)

	return s.RunWithServer(ctx, r)
}

func (s *Service) RunWithServer(ctx context.Context, handler http.Handler) (CleanupFunc, error) {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 16, // 64 KB
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()

	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}, nil
}

func (s *Service) RegisterMiddlewares(r chi.Router) {
	r.Use(
		middleware.Recoverer(s.logger),
		middleware.Trace(tracer),
		middleware.Metrics(s.metrics),
		middleware.CorrelationID(),
		middleware.Cors(),
		middleware.Logging(s.logger),
	)
}

func (s *Service) RegisterHandlers(r chi.Router) {
	res := &responder{logger: s.logger}
	catalog := newCatalogHandler(s.catalogSvc, s.validator, res)
	promo := newPromoHandler(s.promoSvc, s.validator, res)
	payment := newPaymentHandler(s.paymentSvc, s.validator, res)

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", catalog.browse)
			r.Get("/search", catalog.search)
			r.Get("/top-selling", catalog.topSellingProducts)
			r.Get("/top-selling-categories", catalog.topSellingCategories)
			r.Get("/deals", promo.listActiveDeals)
			r.Get("/{productID}", catalog.getProduct)
			r.Post("/{productID}/deal", promo.activateDeal)
			r.Post("/{productID}/coupon", promo.applyCoupon)
		})
		r.Route("/payment", func(r chi.Router) {
			r.Post("/initiate", payment.initiate)
			r.Post("/callback", payment.callback)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		w.Write([]byte("ok"))
	})

	r.Handle(middleware.MetricsPath, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
		ErrorLog: log.Default(),
	}))
}
