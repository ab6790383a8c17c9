package httpapp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"rental_showcase/internal/config"
	appmiddleware "rental_showcase/internal/middleware"
	httprouters "rental_showcase/internal/transport/http"

	_ "rental_showcase/docs"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const defaultMaxUploadSize = 10 << 20

type Server struct {
	log             *slog.Logger
	e               *echo.Echo
	routers         *httprouters.Routers
	address         string
	shutdownTimeout time.Duration
	maxUploadSize   int64
}

func New(log *slog.Logger, httpCfg config.HTTPConfig, sessCfg config.SessionConfig, maxUploadSize int64, routers *httprouters.Routers) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Validator = httprouters.NewValidator()

	if maxUploadSize <= 0 {
		maxUploadSize = defaultMaxUploadSize
	}

	store := sessions.NewCookieStore([]byte(sessCfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   sessCfg.MaxAge,
		Secure:   sessCfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))

	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     httpCfg.AllowOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{echo.HeaderContentType, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))
	e.Use(middleware.Recover())
	e.Use(appmiddleware.PrometheusMetrics)

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:      true,
		LogMethod:   true,
		LogStatus:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			log.Info("request",
				slog.String("method", v.Method),
				slog.String("URI", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("remote ip", v.RemoteIP),
			)

			return nil
		},
	}))

	return &Server{
		log:             log,
		e:               e,
		routers:         routers,
		address:         httpCfg.Address(),
		shutdownTimeout: httpCfg.ShutdownTimeout,
		maxUploadSize:   maxUploadSize,
	}
}

// Echo нужен тестам, которые ходят в сервер через httptest
func (s *Server) Echo() *echo.Echo {
	return s.e
}

func (s *Server) MustRun() {
	const op = "http.Server.MustRun"

	s.log.Info(op, slog.String("address", s.address))

	if err := s.Start(); err != nil {
		panic(err)
	}
}

func (s *Server) Start() error {
	const op = "http.Server.Start"

	if err := s.e.Start(s.address); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server stopped: %w", op, err)
	}

	return nil
}

func (s *Server) Stop() error {
	const op = "http.Server.Stop"

	timeout := s.shutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	optCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("stopping http server", slog.String("op", op))

	if err := s.e.Shutdown(optCtx); err != nil {
		return fmt.Errorf("%s could not shutdown server gracefuly: %w", op, err)
	}

	return nil
}

func (s *Server) BuildRouters() {
	r := s.routers

	s.e.GET("/health", r.Health)
	s.e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	s.e.GET("/swagger/*", echoSwagger.WrapHandler)

	// объекты читаются и анонимно: ACL проверяет сервис
	s.e.GET("/objects/:id", r.ServeObject, r.Authenticate)

	api := s.e.Group("/api/v1", r.Authenticate)
	{
		api.GET("/placeholder/:width/:height", r.Placeholder)

		// подпись в ссылке заменяет аутентификацию
		api.PUT("/blob/:id", r.ReceiveObject, middleware.BodyLimit(fmt.Sprintf("%dB", s.maxUploadSize)))

		auth := api.Group("/auth")
		{
			auth.POST("/login", r.Login)
			auth.POST("/refresh", r.Refresh)
			auth.POST("/logout", r.Logout, r.RequireAuth)
			auth.GET("/user", r.CurrentUser, r.RequireAuth)
			auth.POST("/password", r.ChangePassword, r.RequireAuth)
		}

		objects := api.Group("/objects", r.RequireAuth)
		{
			objects.POST("/upload", r.RequestUpload)
			objects.POST("/complete", r.CompleteUploads)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", r.ListProperties)
			properties.GET("/:id", r.GetProperty)
			properties.POST("/:id/views", r.RecordView)
			properties.POST("", r.CreateProperty, r.RequireAdmin)
			properties.PATCH("/:id", r.UpdateProperty, r.RequireAdmin)
			properties.DELETE("/:id", r.DeleteProperty, r.RequireAdmin)

			properties.GET("/:id/units", r.ListUnits)
			properties.GET("/:id/units/:unit_id", r.GetUnit)
			properties.POST("/:id/units", r.CreateUnit, r.RequireAdmin)
			properties.PATCH("/:id/units/:unit_id", r.UpdateUnit, r.RequireAdmin)
			properties.DELETE("/:id/units/:unit_id", r.DeleteUnit, r.RequireAdmin)
		}

		s.imageRoutes(api, "/properties/:id/images")
		s.imageRoutes(api, "/properties/:id/units/:unit_id/images")
		s.imageRoutes(api, "/hero/images")

		compare := api.Group("/compare")
		{
			compare.GET("", r.GetComparison)
			compare.DELETE("", r.ClearComparison)
			compare.POST("/:id", r.AddToComparison)
			compare.DELETE("/:id", r.RemoveFromComparison)
		}

		api.GET("/analytics/views", r.ViewStats, r.RequireAdmin)
	}
}

// imageRoutes регистрирует одинаковый набор операций для любой коллекции изображений
func (s *Server) imageRoutes(g *echo.Group, prefix string) {
	r := s.routers

	g.GET(prefix, r.ListImages)
	g.PUT(prefix, r.ReplaceImages, r.RequireAdmin)
	g.POST(prefix, r.AppendImages, r.RequireAdmin)
	g.DELETE(prefix, r.DeleteAllImages, r.RequireAdmin)
	g.PATCH(prefix+"/reorder", r.ReorderImages, r.RequireAdmin)
	g.DELETE(prefix+"/:image_id", r.DeleteImage, r.RequireAdmin)
	g.PATCH(prefix+"/:image_id/primary", r.SetPrimaryImage, r.RequireAdmin)
}
