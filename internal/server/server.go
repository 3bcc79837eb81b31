package server

import (
	"context"
	"log/slog"
	"net/http"

	"courier-backend/internal/config"
	"courier-backend/internal/handler"
	authmw "courier-backend/internal/middleware"
	"courier-backend/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type Services struct {
	Parcel  service.ParcelService
	Payment service.PaymentService
	Rider   service.RiderService
	User    service.UserService
}

type Server struct {
	echo           *echo.Echo
	identity       *authmw.IdentityGate
	parcelHandler  *handler.ParcelHandler
	paymentHandler *handler.PaymentHandler
	riderHandler   *handler.RiderHandler
	userHandler    *handler.UserHandler
}

func NewServer(cfg config.HTTPServer, logger *slog.Logger, identity *authmw.IdentityGate, services Services) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewRequestValidator()
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(middleware.RequestLoggerWithConfig(requestLoggerConfig(logger)))
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	s := &Server{
		echo:           e,
		identity:       identity,
		parcelHandler:  handler.NewParcelHandler(services.Parcel),
		paymentHandler: handler.NewPaymentHandler(services.Payment),
		riderHandler:   handler.NewRiderHandler(services.Rider),
		userHandler:    handler.NewUserHandler(services.User),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "server is running")
	})

	auth := s.identity.Middleware()

	// -------- parcels --------
	s.echo.POST("/parcels", s.parcelHandler.CreateParcel)
	s.echo.GET("/parcels", s.parcelHandler.ListParcels)
	s.echo.GET("/parcels/:id", s.parcelHandler.GetParcel)
	s.echo.PATCH("/parcels/:id", s.parcelHandler.UpdateParcel)
	s.echo.DELETE("/parcels/:id", s.parcelHandler.DeleteParcel)

	// -------- payments --------
	s.echo.POST("/create-payment-intent", s.paymentHandler.CreatePaymentIntent)
	s.echo.POST("/payments", s.paymentHandler.RecordPayment)
	s.echo.GET("/payments", s.paymentHandler.ListPayments, auth)

	// -------- riders --------
	s.echo.POST("/riders", s.riderHandler.RegisterRider)
	s.echo.GET("/riders", s.riderHandler.ListRiders, auth)
	s.echo.PATCH("/riders/:id", s.riderHandler.ApproveRider, auth)
	s.echo.DELETE("/riders/:id", s.riderHandler.RejectRider, auth)

	// -------- users --------
	s.echo.POST("/users", s.userHandler.RegisterUser)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}

func requestLoggerConfig(logger *slog.Logger) middleware.RequestLoggerConfig {
	return middleware.RequestLoggerConfig{
		LogMethod:   true,
		LogURI:      true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		HandleError: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote_ip", v.RemoteIP),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}
}
