package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/you/aarogyam/domain"
	"github.com/you/aarogyam/internal/config"
	httpx "github.com/you/aarogyam/internal/http"
	"github.com/you/aarogyam/internal/http/handlers"
	"github.com/you/aarogyam/internal/http/middleware"
	"github.com/you/aarogyam/internal/infrastructure/auth"
	"github.com/you/aarogyam/internal/infrastructure/logging"
	"github.com/you/aarogyam/internal/infrastructure/notifications"
	"github.com/you/aarogyam/internal/infrastructure/otp"
	"github.com/you/aarogyam/internal/infrastructure/repositories"
	"github.com/you/aarogyam/internal/infrastructure/storage"
	"github.com/you/aarogyam/internal/services"
)

// Container holds all dependencies
type Container struct {
	// Config
	Config *config.Config
	Log    *zap.Logger

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client
	Casbin      *auth.CasbinService

	// Repositories
	IdentityRepo    domain.IdentityRepository
	AppointmentRepo domain.AppointmentRepository
	ReportRepo      domain.ReportRepository
	ContactRepo     domain.ContactRepository
	OTPThrottle     domain.OTPThrottle

	// Services
	Registry        domain.IdentityRegistry
	PasswordSvc     domain.PasswordService
	TokenSvc        domain.TokenService
	NotificationSvc domain.NotificationService
	OTPProvider     domain.OTPProvider
	Signer          domain.AttachmentSigner
	Audit           domain.AuditLogger
	OTPSvc          domain.OTPService
	AuthSvc         domain.AuthService
	AdminSvc        domain.AdminService
	AppointmentSvc  domain.AppointmentService
	ReportSvc       domain.ReportService
	ContactSvc      domain.ContactService
	PolicySvc       domain.PolicyService

	Router *gin.Engine
}

// NewContainer creates and initializes all dependencies. db must already be
// migrated; rdb may be nil, which disables the OTP resend throttle.
func NewContainer(ctx context.Context, cfg *config.Config, log *zap.Logger, db *gorm.DB, rdb *redis.Client) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	c := &Container{Config: cfg, Log: log, DB: db, RedisClient: rdb}

	c.initRepositories()
	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}
	c.initServices()
	c.initRouter()

	return c, nil
}

func (c *Container) initRepositories() {
	c.IdentityRepo = repositories.NewIdentityRepository(c.DB)
	c.AppointmentRepo = repositories.NewAppointmentRepository(c.DB)
	c.ReportRepo = repositories.NewReportRepository(c.DB)
	c.ContactRepo = repositories.NewContactRepository(c.DB)
	if c.RedisClient != nil {
		c.OTPThrottle = repositories.NewOTPThrottleRepository(c.RedisClient)
	}
}

func (c *Container) initInfrastructure(ctx context.Context) error {
	cfg := c.Config

	cas, err := auth.NewCasbinService(c.DB, cfg.CasbinModelPath)
	if err != nil {
		return fmt.Errorf("casbin: %w", err)
	}
	seeded, err := cas.SeedDefaults()
	if err != nil {
		return fmt.Errorf("casbin seed: %w", err)
	}
	if seeded > 0 {
		c.Log.Info("casbin: seeded default policies", zap.Int("count", seeded))
	}
	c.Casbin = cas

	c.PasswordSvc = auth.NewPasswordService(cfg.BcryptCost)
	c.TokenSvc = auth.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	c.Audit = logging.NewAuditLogger(c.Log)

	sms := notifications.NewTwilioService(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioFrom, c.Log)
	email := notifications.NewSendGridService(cfg.SendGridKey, cfg.SendGridFrom, cfg.SendGridFromName, c.Log)
	c.NotificationSvc = notifications.NewNotifier(sms, email)

	c.OTPProvider = otp.NewProvider(cfg.TwilioSID, cfg.TwilioToken, cfg.TwilioVerifySID, cfg.OTP_Length)
	c.Log.Info("otp provider selected", zap.String("provider", c.OTPProvider.Name()))

	if cfg.S3Bucket != "" {
		presigner, err := storage.NewS3Presigner(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3PresignTTL)
		if err != nil {
			return err
		}
		c.Signer = presigner
	}
	return nil
}

func (c *Container) initServices() {
	cfg := c.Config

	c.Registry = services.NewIdentityRegistry(c.IdentityRepo, domain.NewPhoneNormalizer(cfg.CountryCode))

	c.OTPSvc = services.NewOTPService(
		c.Registry,
		c.OTPProvider,
		c.OTPThrottle,
		c.NotificationSvc,
		c.Audit,
		c.Log.Named("otp"),
		services.OTPConfig{TTL: cfg.OTP_TTL, ResendWindow: cfg.OTP_ResendWindow},
	)

	c.AuthSvc = services.NewAuthService(c.Registry, c.PasswordSvc, c.TokenSvc, c.OTPSvc, c.Audit, cfg.BootstrapToken)
	c.AdminSvc = services.NewAdminService(c.Registry, c.AuthSvc, c.Audit)
	c.AppointmentSvc = services.NewAppointmentService(c.AppointmentRepo, domain.NewPhoneNormalizer(cfg.CountryCode), c.NotificationSvc, c.Log.Named("appointments"))
	c.ReportSvc = services.NewReportService(c.ReportRepo, c.Registry, c.Signer)
	c.ContactSvc = services.NewContactService(c.ContactRepo, c.NotificationSvc, c.Log.Named("contact"))
	c.PolicySvc = services.NewPolicyService(c.Casbin.E)
}

func (c *Container) initRouter() {
	cfg := c.Config

	h := httpx.Handlers{
		Auth:         handlers.NewAuthHandlers(c.AuthSvc, c.OTPSvc, c.TokenSvc, !cfg.IsProduction()),
		Admin:        handlers.NewAdminHandlers(c.AdminSvc),
		Appointments: handlers.NewAppointmentHandlers(c.AppointmentSvc),
		Reports:      handlers.NewReportHandlers(c.ReportSvc),
		Contact:      handlers.NewContactHandlers(c.ContactSvc),
		Policies:     handlers.NewPolicyHandlers(c.PolicySvc),
	}
	mw := httpx.Middleware{
		Log:          c.Log.Named("http"),
		ExposeErrors: cfg.Env == config.EnvDevelopment,
		Request:      middleware.RequestContext(cfg.RequestTimeout),
		JWT:          middleware.NewAuthMW(c.TokenSvc),
		Casbin:       middleware.NewCasbinMW(c.Casbin.E, c.Registry, c.Audit, c.Log.Named("authz")),
	}
	c.Router = httpx.BuildRouter(h, mw)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}

	return nil
}
