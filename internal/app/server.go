// internal/app/server.go
package app

import (
	"context"
	"fmt"

	"shiftcare-service/internal/config"
	"shiftcare-service/internal/db"
	authHandler "shiftcare-service/internal/handlers/auth"
	billingHandler "shiftcare-service/internal/handlers/billing"
	contactHandler "shiftcare-service/internal/handlers/contact"
	scheduleHandler "shiftcare-service/internal/handlers/schedule"
	settingsHandler "shiftcare-service/internal/handlers/settings"
	workforceHandler "shiftcare-service/internal/handlers/workforce"
	"shiftcare-service/internal/middleware"
	"shiftcare-service/internal/pkg/jwt"
	"shiftcare-service/internal/pkg/session"
	"shiftcare-service/internal/repository/postgres"
	authService "shiftcare-service/internal/service/auth"
	billingService "shiftcare-service/internal/service/billing"
	"shiftcare-service/internal/service/email"
	"shiftcare-service/internal/service/engine"
	"shiftcare-service/internal/service/payment"
	scheduleService "shiftcare-service/internal/service/schedule"
	settingsService "shiftcare-service/internal/service/settings"
	workforceService "shiftcare-service/internal/service/workforce"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger

	pool        *pgxpool.Pool
	redisClient *redis.Client
}

func NewServer() *Server {
	cfg := config.Load()
	return &Server{cfg: cfg, engine: gin.New()}
}

func (s *Server) Start() error {
	ctx := context.Background()

	// ----- Logger -----
	logger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	s.logger = logger

	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(ctx, s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	s.pool = pool

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	s.redisClient = redisClient
	logger.Info("connected to redis", zap.String("addr", s.cfg.RedisAddr))

	// ----- JWT Manager -----
	jwtManager, err := jwt.LoadAndBuild(s.cfg.JWT)
	if err != nil {
		return fmt.Errorf("failed to load JWT manager: %w", err)
	}

	// ----- Session Manager & Rate Limiter -----
	sessionManager := session.NewManager(redisClient, logger)
	rateLimiter := session.NewRateLimiter(redisClient)

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	subscriptionRepo := postgres.NewSubscriptionRepository(pool)
	customPlanRepo := postgres.NewCustomPlanRepository(pool)
	scheduleRequestRepo := postgres.NewScheduleRequestRepository(pool)
	employeeRepo := postgres.NewEmployeeRepository(pool)
	shiftRepo := postgres.NewShiftRepository(pool)
	holidayRepo := postgres.NewHolidayRepository(pool)
	scheduleRepo := postgres.NewScheduleRepository(pool)
	settingsRepo := postgres.NewSettingsRepository(pool)

	// ----- Payment Provider -----
	stripeProvider := payment.NewStripeProvider(s.cfg.StripeKey, s.cfg.WebServerURL, s.cfg.PlanPriceIDs)

	// ----- Services -----
	billingSvc := billingService.NewBillingService(
		accountRepo,
		subscriptionRepo,
		customPlanRepo,
		scheduleRequestRepo,
		employeeRepo,
		shiftRepo,
		stripeProvider,
		dbWrapper,
		logger,
	)
	authSvc := authService.NewAuthService(
		accountRepo,
		billingSvc,
		jwtManager,
		sessionManager,
		rateLimiter,
		emailSender,
		s.cfg.WebServerURL,
		logger,
	)
	workforceSvc := workforceService.NewWorkforceService(
		employeeRepo,
		shiftRepo,
		holidayRepo,
		billingSvc,
		logger,
	)
	settingsSvc := settingsService.NewSettingsService(settingsRepo, logger)
	solver := engine.NewHTTPEngine(s.cfg.EngineURL, s.cfg.EngineWait)
	scheduleSvc := scheduleService.NewScheduleService(
		scheduleRepo,
		billingSvc,
		workforceSvc,
		settingsSvc,
		accountEmails{repo: accountRepo},
		solver,
		emailSender,
		logger,
	)

	// ----- Handlers -----
	handlers := &Handlers{
		AuthHandler:      authHandler.NewAuthHandler(authSvc),
		BillingHandler:   billingHandler.NewBillingHandler(billingSvc),
		WorkforceHandler: workforceHandler.NewWorkforceHandler(workforceSvc),
		ScheduleHandler:  scheduleHandler.NewScheduleHandler(scheduleSvc),
		SettingsHandler:  settingsHandler.NewSettingsHandler(settingsSvc),
		ContactHandler:   contactHandler.NewContactHandler(emailSender, rateLimiter, s.cfg.SupportEmail, logger),
		AuthMiddleware:   middleware.NewAuthMiddleware(jwtManager.Verifier, sessionManager, logger),
	}

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(s.cfg.WebServerURL),
	)

	// ----- Router -----
	SetupRouter(s.engine, logger, handlers)

	logger.Info("server starting", zap.String("addr", s.cfg.HTTPAddr))
	return s.engine.Run(s.cfg.HTTPAddr)
}

// Shutdown releases the server's external connections.
func (s *Server) Shutdown() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.redisClient != nil {
		if err := s.redisClient.Close(); err != nil && s.logger != nil {
			s.logger.Warn("failed to close redis client", zap.Error(err))
		}
	}
	if s.logger != nil {
		s.logger.Sync()
	}
}

// accountEmails resolves notification addresses for the schedule service.
type accountEmails struct {
	repo *postgres.AccountRepository
}

func (a accountEmails) Email(ctx context.Context, accountID int64) (string, error) {
	acc, err := a.repo.FindByID(ctx, accountID)
	if err != nil {
		return "", err
	}
	return acc.Email, nil
}
