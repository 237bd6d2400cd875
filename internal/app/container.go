package app

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/residesk/amenity-booking-backend/internal/api"
	"github.com/residesk/amenity-booking-backend/internal/auth"
	"github.com/residesk/amenity-booking-backend/internal/config"
	"github.com/residesk/amenity-booking-backend/internal/db"
	"github.com/residesk/amenity-booking-backend/internal/delivery"
	"github.com/residesk/amenity-booking-backend/internal/payment"
	"github.com/residesk/amenity-booking-backend/internal/photo"
	"github.com/residesk/amenity-booking-backend/internal/pkg/metrics"
	"github.com/residesk/amenity-booking-backend/internal/pkg/storage"
	"github.com/residesk/amenity-booking-backend/internal/reservation"
	"github.com/residesk/amenity-booking-backend/internal/resource"
	"github.com/residesk/amenity-booking-backend/internal/user"
)

// Container holds the initialized components that are needed externally.
type Container struct {
	Router     *gin.Engine
	JWTManager *auth.JWTManager
	Expirer    *reservation.Expirer
}

// NewContainer initializes all modules and returns the container.
func NewContainer(cfg *config.Config, pool *pgxpool.Pool) (*Container, error) {
	// Init Components
	passwordHasher := auth.NewBcryptPasswordHasherWithCost(cfg.BcryptCost)
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTokenTTL)
	txManager := db.NewTxManager(pool)
	m := metrics.New("amenity_booking")

	store, err := storage.NewLocalStorage(cfg.StoragePath)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	// User Module
	userRepo := user.NewPgxRepository(pool)
	userService := user.NewService(userRepo, passwordHasher)

	// Resource Module
	resourceRepo := resource.NewPgxRepository(pool)
	resourceService := resource.NewService(resourceRepo)

	// Payment Module
	gateway := payment.NewHTTPGateway(cfg.PaymentGatewayURL, 10*time.Second)
	paymentService := payment.NewService(gateway)

	// Reservation Module
	engine := reservation.NewEngine(cfg.Location(), cfg.MonthlyQuota, cfg.QuotaExemptPrivileged)
	reservationRepo := reservation.NewPgxRepository(pool)
	reservationService := reservation.NewService(
		reservationRepo, resourceService, txManager, engine, paymentService, m, cfg.Location(),
	)
	paymentService.Bind(reservationService)

	// Delivery Module
	deliveryRepo := delivery.NewPgxRepository(pool)
	deliveryService := delivery.NewService(deliveryRepo, reservationService, paymentService)

	// Photo Module
	photoRepo := photo.NewPgxRepository(pool)
	photoService := photo.NewService(photoRepo, resourceService, store)

	// Router
	router := api.NewRouter(api.Config{
		IsProduction:         cfg.IsProduction,
		ProdOrigins:          cfg.ProdOrigins,
		UserService:          userService,
		ResourceService:      resourceService,
		ReservationService:   reservationService,
		PaymentService:       paymentService,
		DeliveryService:      deliveryService,
		PhotoService:         photoService,
		PaymentCallbackToken: cfg.PaymentCallbackToken,
		JWTManager:           jwtManager,
		Metrics:              m,
	})

	return &Container{
		Router:     router,
		JWTManager: jwtManager,
		Expirer:    reservation.NewExpirer(reservationService, cfg.PendingTTL, cfg.ExpirerInterval),
	}, nil
}
