package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/riteshrajpandit/shikhar-shoe/internal/catalog"
	"github.com/riteshrajpandit/shikhar-shoe/internal/checkout"
)

// CheckoutService is the checkout surface the handlers drive.
type CheckoutService interface {
	Quote(c checkout.Cart) (checkout.Quote, error)
	PlaceOrder(ctx context.Context, c checkout.Cart, req checkout.PlaceOrderRequest) (checkout.Order, error)
}

// Recorder receives request and cart measurements. Nil disables them.
type Recorder interface {
	HTTPRecorder
	CartMutation(op string, changed bool)
}

type Deps struct {
	Logger   *zap.Logger
	Catalog  catalog.Repository
	Sessions SessionResolver
	Checkout CheckoutService
	Metrics  Recorder

	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler

	Cookie           CookieOptions
	CORSAllowOrigins []string
	MaxBodyBytes     int64
}

type Handler struct {
	catalog  catalog.Repository
	checkout CheckoutService
	metrics  Recorder
	maxBody  int64
}

func NewHandler(d Deps) *Handler {
	return &Handler{
		catalog:  d.Catalog,
		checkout: d.Checkout,
		metrics:  d.Metrics,
		maxBody:  d.MaxBodyBytes,
	}
}

func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Cookie.Name == "" {
		d.Cookie.Name = "storefront_session"
	}
	if d.Cookie.MaxAge == 0 {
		d.Cookie.MaxAge = 24 * time.Hour
	}
	h := NewHandler(d)

	var httpRec HTTPRecorder
	if d.Metrics != nil {
		httpRec = d.Metrics
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(CorrelationID)
	r.Use(AccessLog(d.Logger, httpRec))
	r.Use(Recover(d.Logger))
	r.Use(CORS(d.CORSAllowOrigins))

	r.Get("/health", h.Health)
	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Get("/featured", h.FeaturedProducts)
			r.Get("/new", h.NewProducts)
			r.Get("/{productId}", h.GetProduct)
		})

		r.Group(func(r chi.Router) {
			r.Use(Session(d.Sessions, d.Cookie))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", h.GetCart)
				r.Delete("/", h.ClearCart)
				r.Post("/items", h.AddItem)
				r.Put("/items", h.UpdateItem)
				r.Delete("/items", h.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", h.GetCheckout)
				r.Post("/steps/{step}", h.ValidateStep)
				r.Post("/orders", h.PlaceOrder)
			})
		})
	})

	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "storefront"})
}

func (h *Handler) cartMutation(op string, changed bool) {
	if h.metrics != nil {
		h.metrics.CartMutation(op, changed)
	}
}
