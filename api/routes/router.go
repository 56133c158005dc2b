package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/campuseats/campuseats-backend/api/controllers"
	"github.com/campuseats/campuseats-backend/api/middleware"
	"github.com/campuseats/campuseats-backend/internal/auth"
	"github.com/campuseats/campuseats-backend/internal/cart"
	checkoutsvc "github.com/campuseats/campuseats-backend/internal/checkout"
	"github.com/campuseats/campuseats-backend/internal/dishes"
	"github.com/campuseats/campuseats-backend/internal/favorites"
	"github.com/campuseats/campuseats-backend/internal/locations"
	"github.com/campuseats/campuseats-backend/internal/orders"
	"github.com/campuseats/campuseats-backend/pkg/auth/session"
	"github.com/campuseats/campuseats-backend/pkg/config"
	"github.com/campuseats/campuseats-backend/pkg/logger"
	"github.com/campuseats/campuseats-backend/pkg/metrics"
	"github.com/campuseats/campuseats-backend/pkg/redis"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

type pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the router needs. The cmd/api binary builds this
// once at startup.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       pinger
	Redis    *redis.Client
	Sessions sessionManager
	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry

	AuthService      auth.Service
	RegisterService  auth.RegisterService
	DishesService    dishes.Service
	CartService      cart.Service
	CheckoutService  checkoutsvc.Service
	OrdersService    orders.Service
	FavoritesService favorites.Service
	LocationsService locations.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, deps.Redis, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.AuthLogin(deps.AuthService, logg))
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.AuthRegister(deps.RegisterService, deps.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(deps.Sessions, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(deps.Sessions, cfg.JWT, logg))
	})

	// Catalog and campuses are public so the client can render the menu
	// before login.
	r.Route("/api/dishes", func(r chi.Router) {
		r.Get("/", controllers.DishesList(deps.DishesService, logg))
		r.Get("/{dishId}", controllers.DishGet(deps.DishesService, logg))
	})
	r.Route("/api/locations", func(r chi.Router) {
		r.Get("/universities", controllers.UniversitiesList(deps.LocationsService, logg))
		r.Get("/rooms", controllers.RoomsList(deps.LocationsService, logg))
	})

	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.CartService, logg))
			r.Delete("/", controllers.CartClear(deps.CartService, logg))
			r.Post("/dishes", controllers.CartAddDish(deps.CartService, logg))
			r.Put("/dishes/{dishId}", controllers.CartUpdateQuantity(deps.CartService, logg))
			r.Delete("/dishes/{dishId}", controllers.CartRemoveDish(deps.CartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(deps.CheckoutService, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.OrdersService, logg))
			r.Get("/{orderId}", controllers.OrderGet(deps.OrdersService, logg))
			r.Post("/{orderId}/cancel", controllers.OrderCancel(deps.OrdersService, logg))
		})

		r.Route("/favorites", func(r chi.Router) {
			r.Get("/", controllers.FavoritesListDishes(deps.FavoritesService, logg))
			r.Post("/", controllers.FavoriteAdd(deps.FavoritesService, logg))
			r.Get("/{dishId}", controllers.FavoriteCheck(deps.FavoritesService, logg))
			r.Delete("/{dishId}", controllers.FavoriteRemove(deps.FavoritesService, logg))
		})
	})

	return r
}
