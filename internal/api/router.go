package api

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/residesk/amenity-booking-backend/internal/auth"
	"github.com/residesk/amenity-booking-backend/internal/delivery"
	deliveryHttp "github.com/residesk/amenity-booking-backend/internal/delivery/http"
	"github.com/residesk/amenity-booking-backend/internal/payment"
	paymentHttp "github.com/residesk/amenity-booking-backend/internal/payment/http"
	"github.com/residesk/amenity-booking-backend/internal/photo"
	photoHttp "github.com/residesk/amenity-booking-backend/internal/photo/http"
	"github.com/residesk/amenity-booking-backend/internal/pkg/metrics"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
	reservationHttp "github.com/residesk/amenity-booking-backend/internal/reservation/http"
	"github.com/residesk/amenity-booking-backend/internal/resource"
	resourceHttp "github.com/residesk/amenity-booking-backend/internal/resource/http"
	"github.com/residesk/amenity-booking-backend/internal/user"
	userHttp "github.com/residesk/amenity-booking-backend/internal/user/http"
)

// Config groups everything the router needs.
type Config struct {
	IsProduction bool
	ProdOrigins  string

	UserService        user.Service
	ResourceService    resource.Service
	ReservationService reservation.Service
	PaymentService     *payment.Service
	DeliveryService    delivery.Service
	PhotoService       photo.Service

	// PaymentCallbackToken authenticates the gateway's settlement callbacks.
	PaymentCallbackToken string

	JWTManager *auth.JWTManager
	Metrics    *metrics.Metrics
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(cfg Config) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	// Configure CORS (Cross-Origin Resource Sharing).
	corsConfig := cors.DefaultConfig()
	if cfg.IsProduction {
		corsConfig.AllowOrigins = strings.Split(cfg.ProdOrigins, ",")
	} else {
		corsConfig.AllowOrigins = []string{
			"http://localhost:8081", // Swagger
		}
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(corsConfig))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(cfg.JWTManager)
	// Role middlewares re-check the database, so revoked roles lose
	// access before their tokens expire.
	sysAdminMiddleware := RequireSysAdmin(cfg.UserService)
	operatorMiddleware := RequireOperator(cfg.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(cfg.UserService, cfg.JWTManager)
	resourceHandler := resourceHttp.NewHandler(cfg.ResourceService)
	reservationHandler := reservationHttp.NewHandler(cfg.ReservationService)
	paymentHandler := paymentHttp.NewHandler(cfg.PaymentService)
	deliveryHandler := deliveryHttp.NewHandler(cfg.DeliveryService)
	photoHandler := photoHttp.NewHandler(cfg.PhotoService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		resourceHttp.RegisterRoutes(v1, resourceHandler, authMiddleware, operatorMiddleware)
		reservationHttp.RegisterRoutes(v1, reservationHandler, authMiddleware)
		paymentHttp.RegisterRoutes(v1, paymentHandler, paymentHttp.RequireGatewayToken(cfg.PaymentCallbackToken))
		deliveryHttp.RegisterRoutes(v1, deliveryHandler, authMiddleware, operatorMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware, operatorMiddleware)
	}

	return r
}
