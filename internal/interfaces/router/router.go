package router

import (
	"time"

	dealsvc "dealdesk-backend/internal/application/deals"
	lendersvc "dealdesk-backend/internal/application/lenders"
	mktsvc "dealdesk-backend/internal/application/marketdata"
	propsvc "dealdesk-backend/internal/application/properties"
	rehabsvc "dealdesk-backend/internal/application/rehab"
	"dealdesk-backend/internal/config"
	"dealdesk-backend/internal/domain"
	"dealdesk-backend/internal/infrastructure/database"
	"dealdesk-backend/internal/infrastructure/geocode"
	"dealdesk-backend/internal/infrastructure/provider"
	evalhandler "dealdesk-backend/internal/interfaces/handlers/evaluations"
	healthhandler "dealdesk-backend/internal/interfaces/handlers/health"
	lenderhandler "dealdesk-backend/internal/interfaces/handlers/lenders"
	mkthandler "dealdesk-backend/internal/interfaces/handlers/marketdata"
	prophandler "dealdesk-backend/internal/interfaces/handlers/properties"
	rehabhandler "dealdesk-backend/internal/interfaces/handlers/rehab"
	"dealdesk-backend/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const geocodeTTL = 90 * 24 * time.Hour

type gormDBPinger struct {
	db *gorm.DB
}

func (g *gormDBPinger) Ping() error {
	if g == nil || g.db == nil {
		return nil
	}
	sqlDB, err := g.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Ping()
}

// CreateApp builds the Fiber app with all global middleware and route
// registration. DB and Redis are optional in tests; routes needing them are
// only mounted when they exist.
func CreateApp(cfg *config.Config) (*fiber.App, *gorm.DB, *redis.Client, error) {
	if err := domain.ValidateTypeTable(); err != nil {
		return nil, nil, nil, err
	}

	app := fiber.New(fiber.Config{
		DisableStartupMessage:   true,
		ErrorHandler:            middleware.ErrorHandler,
		EnableTrustedProxyCheck: true,
	})

	app.Use(middleware.CORS(middleware.CORSConfig{
		AllowedSuffix: cfg.FrontendURLEndsWith,
		DevPassword:   cfg.DevPassword,
	}))

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, err
		}
		rdb = redis.NewClient(opt)
		app.Use(middleware.HealthMarker(rdb))
	}

	app.Use(middleware.Tracing())
	app.Use(middleware.RouteLogger())

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, nil, nil, err
		}
	}

	healthHandlers := &healthhandler.Handlers{
		Rdb:            rdb,
		DB:             &gormDBPinger{db: db},
		HealthAdminKey: cfg.HealthAdminKey,
	}
	app.Get("/health/json", healthHandlers.JSON)
	app.Get("/health/reset", healthHandlers.Reset)

	if db != nil {
		settings, err := dealsvc.SettingsFromConfig(cfg.Deal)
		if err != nil {
			return nil, nil, nil, err
		}

		marketService := &mktsvc.Service{
			DB: db,
			Provider: provider.NewClient(provider.Config{
				BaseURL: cfg.ProviderBaseURL,
				APIKey:  cfg.ProviderAPIKey,
			}),
			TTL: time.Duration(cfg.CacheTTLDays) * 24 * time.Hour,
		}
		dealService := &dealsvc.Service{DB: db, Market: marketService, Settings: settings}
		geocoder := &geocode.CachingGeocoder{
			DB:       db,
			Upstream: geocode.NewClient(geocode.Config{BaseURL: cfg.GeocoderBaseURL}),
			TTL:      geocodeTTL,
		}
		propertyService := &propsvc.Service{DB: db, Geocoder: geocoder, Deals: dealService}
		rehabService := &rehabsvc.Service{DB: db}
		lenderService := &lendersvc.Service{DB: db}

		propertyHandlers := &prophandler.Handlers{Service: propertyService}
		propertyGroup := app.Group("/api/v1/properties")
		propertyGroup.Post("/create-property", propertyHandlers.CreateProperty)
		propertyGroup.Get("/get-all-properties", propertyHandlers.GetAllProperties)
		propertyGroup.Get("/get-property/:property_id", propertyHandlers.GetProperty)
		propertyGroup.Patch("/update-property/:property_id", propertyHandlers.UpdateProperty)

		evaluationHandlers := &evalhandler.Handlers{Service: dealService}
		evaluationGroup := app.Group("/api/v1/evaluations")
		evaluationGroup.Post("/evaluate", evaluationHandlers.Evaluate)
		evaluationGroup.Get("/get-evaluation/:evaluation_id", evaluationHandlers.GetEvaluation)
		evaluationGroup.Get("/get-property-evaluations/:property_id", evaluationHandlers.GetPropertyEvaluations)

		rehabHandlers := &rehabhandler.Handlers{Service: rehabService}
		rehabGroup := app.Group("/api/v1/rehab-estimates")
		rehabGroup.Post("/create-estimate", rehabHandlers.CreateEstimate)
		rehabGroup.Get("/get-estimate/:property_id", rehabHandlers.GetEstimate)
		rehabGroup.Put("/replace-items/:estimate_id", rehabHandlers.ReplaceLineItems)

		lenderHandlers := &lenderhandler.Handlers{Service: lenderService}
		lenderGroup := app.Group("/api/v1/lenders")
		lenderGroup.Post("/create-lender", lenderHandlers.CreateLender)
		lenderGroup.Get("/get-all-lenders", lenderHandlers.GetAllLenders)
		lenderGroup.Get("/get-lender/:lender_id", lenderHandlers.GetLender)

		marketHandlers := &mkthandler.Handlers{Service: marketService}
		marketGroup := app.Group("/api/v1/market-data")
		marketGroup.Get("/get-listings", marketHandlers.GetListings)
		marketGroup.Post("/refresh", marketHandlers.Refresh)
		marketGroup.Get("/is-fresh", marketHandlers.IsFresh)
	}

	return app, db, rdb, nil
}
