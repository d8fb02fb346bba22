package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/common/auth"
	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/config"
	"restaurant-system/internal/microservices/cart"
	"restaurant-system/internal/microservices/inventory"
	"restaurant-system/internal/microservices/menu"
	"restaurant-system/internal/microservices/notificator"
	"restaurant-system/internal/microservices/notificator/hub"
	"restaurant-system/internal/microservices/order"
	"restaurant-system/internal/microservices/recipe"
	"restaurant-system/internal/microservices/tracker"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Deps struct {
	Config      *config.Config
	DB          *pgxpool.Pool
	Health      []Pinger
	Notificator *notificator.Notificator
}

// NewRouter builds the HTTP surface. Everything under /api/v1 goes through
// the access policy; /healthz does not.
func NewRouter(d Deps) http.Handler {
	cfg := d.Config.HTTP
	lg := logger.New("api")

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.RequestLogger(lg))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", auth.HeaderAPIKey, httpx.HeaderSessionID},
		ExposedHeaders:   []string{httpx.HeaderSessionID, "Location"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(httpx.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

	r.Get("/healthz", healthz(d.Health))

	recipeH, recipes := recipe.Start(d.DB)
	menuH, foods := menu.Start(d.DB)
	inventoryH := inventory.Start(d.DB, d.Notificator.Bus, recipes)
	cartH := cart.Start(d.DB, foods)
	orderH := order.Start(d.DB, d.Notificator.Bus)
	trackerH := tracker.Start(d.DB)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(auth.Middleware(auth.DefaultPolicy, auth.Keys(d.Config.Auth.APIKeys)))

		// Websocket connections outlive the request timeout.
		r.Get("/ws", hub.Handler(d.Notificator.Hub))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(cfg.RequestTimeout))
			menuH.Routes(r)
			cartH.Routes(r)
			orderH.Routes(r, trackerH.Routes)
			inventoryH.Routes(r)
			recipeH.Routes(r)
		})
	})
	return r
}

func healthz(deps []Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for i, p := range deps {
			if err := p.Ping(ctx); err != nil {
				httpx.WriteProblem(w, http.StatusServiceUnavailable, "unhealthy", "dependency "+strconv.Itoa(i)+": "+err.Error())
				return
			}
		}
		httpx.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
