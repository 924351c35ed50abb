package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Routes is everything the API serves. Nil handlers are not mounted.
type Routes struct {
	Orders       *OrdersHandler
	Menu         *MenuHandler
	Publications *PublicationsHandler
	// Feed serves the websocket live feed on /ws.
	Feed  http.Handler
	Admin func(http.Handler) http.Handler
}

func NewRouter(rt Routes) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger, middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	// websocket lives longer than any request timeout
	if rt.Feed != nil {
		r.Handle("/ws", rt.Feed)
	}

	admin := rt.Admin
	if admin == nil {
		admin = func(next http.Handler) http.Handler { return next }
	}
	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(15 * time.Second))
		if rt.Menu != nil {
			rt.Menu.Register(r, admin)
		}
		if rt.Publications != nil {
			rt.Publications.Register(r, admin)
		}
		if rt.Orders != nil {
			rt.Orders.Register(r, admin)
		}
	})
	return r
}
