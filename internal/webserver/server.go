package webserver

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo-contrib/echoprometheus"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	elog "github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/adsarees/storefront/internal/app"
	"github.com/adsarees/storefront/internal/auth"
	"github.com/adsarees/storefront/pkg/metrics"
)

const (
	ApiPrefix   = "/api"
	AdminPrefix = "/api/admin"
	appCtxKey   = "appctx"
	// ClaimsKey holds the *auth.Claims of an authenticated admin request
	ClaimsKey = "admin_claims"
)

var server *WebServer

type WebServer struct {
	root  *echo.Echo
	api   *echo.Group
	admin *echo.Group
	addr  string
}

// Init builds the global server around appCtx, route registration functions
// must run after it
func Init(appCtx app.AppContext) {
	server = NewWebServer(appCtx)
}

func NewWebServer(appCtx app.AppContext) *WebServer {
	cfg := appCtx.Config()
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = new(jsonSerializer)
	e.Validator = &structValidator{validate: validator.New()}
	e.HTTPErrorHandler = errorHandler
	if cfg.System.Debug {
		e.Logger.SetLevel(elog.DEBUG)
	} else {
		e.Logger.SetLevel(elog.WARN)
	}

	// request metrics live in their own registry so tests can build servers repeatedly
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			zap.L().Error("webserver: handler panic",
				zap.String("path", c.Path()), zap.Error(err), zap.ByteString("stack", stack))
			return err
		},
	}))
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Web.CorsOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "storefront",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))
	e.Use(requestLogger)
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(appCtxKey, appCtx)
			return next(c)
		}
	})

	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{reg, metrics.Registry},
	}))
	e.Static("/uploads", cfg.GetUploadDir())

	secret := cfg.Web.Secret
	api := e.Group(ApiPrefix)
	admin := e.Group(AdminPrefix, echojwt.WithConfig(echojwt.Config{
		ContextKey: ClaimsKey,
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			return auth.ParseToken(secret, token)
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(http.StatusUnauthorized, map[string]interface{}{
				"error":   "UNAUTHORIZED",
				"message": "Authentication required",
			})
		},
	}))

	return &WebServer{
		root:  e,
		api:   api,
		admin: admin,
		addr:  fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port),
	}
}

func requestLogger(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if strings.HasPrefix(c.Path(), "/uploads") || c.Path() == "/metrics" {
			return err
		}
		zap.L().Debug("webserver: request",
			zap.String("id", c.Response().Header().Get(echo.HeaderXRequestID)),
			zap.String("method", c.Request().Method),
			zap.String("path", c.Request().URL.Path),
			zap.Int("status", c.Response().Status),
			zap.Duration("elapsed", time.Since(start)))
		return err
	}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	msg := http.StatusText(code)
	if he, ok := err.(*echo.HTTPError); ok {
		code = he.Code
		msg = fmt.Sprint(he.Message)
	} else {
		zap.L().Error("webserver: unhandled error", zap.String("path", c.Path()), zap.Error(err))
	}
	_ = c.JSON(code, map[string]interface{}{
		"error":   strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_")),
		"message": msg,
	})
}

// Handler exposes the router, mostly for tests
func Handler() http.Handler {
	return server.root
}

// GetAppContext returns the application bound to the request
func GetAppContext(c echo.Context) app.AppContext {
	return c.Get(appCtxKey).(app.AppContext)
}

// GetClaims returns the token claims of an admin request, nil on public routes
func GetClaims(c echo.Context) *auth.Claims {
	claims, _ := c.Get(ClaimsKey).(*auth.Claims)
	return claims
}

// Listen serves until ctx is cancelled, then shuts down gracefully
func Listen(ctx context.Context) error {
	addr := server.addr
	errc := make(chan error, 1)
	go func() {
		zap.L().Info("webserver: listening", zap.String("addr", addr))
		errc <- server.root.Start(addr)
	}()
	select {
	case err := <-errc:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.root.Shutdown(shutdownCtx)
	}
}

// PublicGET registers a shopper route under /api
func PublicGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.GET(path, h, m...)
}

func PublicPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.api.POST(path, h, m...)
}

// ApiGET registers an authenticated back office route under /api/admin
func ApiGET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.GET(path, h, m...)
}

func ApiPOST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.POST(path, h, m...)
}

func ApiPUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.PUT(path, h, m...)
}

func ApiDELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) {
	server.admin.DELETE(path, h, m...)
}

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type jsonSerializer struct{}

func (jsonSerializer) Serialize(c echo.Context, i interface{}, indent string) error {
	enc := json.NewEncoder(c.Response())
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc.Encode(i)
}

func (jsonSerializer) Deserialize(c echo.Context, i interface{}) error {
	err := json.NewDecoder(c.Request().Body).Decode(i)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	return nil
}
