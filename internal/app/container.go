package app

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/Triostacksoftware/authkit/domain"
	"github.com/Triostacksoftware/authkit/internal/config"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/auth"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/database"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/locks"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/notifications"
	"github.com/Triostacksoftware/authkit/internal/infrastructure/repositories"
	"github.com/Triostacksoftware/authkit/internal/services"
)

// Container holds all dependencies, constructed once at startup and closed
// at shutdown.
type Container struct {
	// Config
	Config *config.Config

	// Infrastructure
	DB          *gorm.DB
	RedisClient *redis.Client

	// Repositories
	UserRepo domain.UserRepository

	// Services
	PasswordSvc domain.PasswordService
	TokenSvc    domain.TokenService
	Dispatcher  domain.NotificationDispatcher
	OTPGen      domain.OTPGenerator
	Locker      domain.OperationLocker
	AuthSvc     domain.AuthService
	Sweeper     *services.PendingSweeper
}

// NewContainer creates and initializes all dependencies
func NewContainer(cfg *config.Config) (*Container, error) {
	container := &Container{Config: cfg}

	if err := container.initDatabase(); err != nil {
		return nil, err
	}
	if err := container.initRedis(); err != nil {
		return nil, err
	}

	container.initRepositories()
	container.initServices()

	return container, nil
}

func (c *Container) initDatabase() error {
	db, err := database.Open(c.Config.DSN)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return err
	}
	c.DB = db
	return nil
}

func (c *Container) initRedis() error {
	rdb := database.NewRedis(c.Config.RedisAddr, c.Config.RedisPassword, c.Config.RedisDB)
	if err := rdb.Ping(context.Background()); err != nil {
		return err
	}
	c.RedisClient = rdb.Client
	return nil
}

func (c *Container) initRepositories() {
	c.UserRepo = repositories.NewUserRepository(c.DB)
}

func (c *Container) initServices() {
	c.PasswordSvc = auth.NewPasswordService()
	c.TokenSvc = auth.NewJWTService(
		c.Config.JWTSecret,
		c.Config.JWTIssuer,
		c.Config.SessionTTL,
	)
	c.Dispatcher = c.buildDispatcher()
	c.OTPGen = services.NewOTPGenerator(c.Config.OTPLength, c.Config.OTPTTL)
	c.Locker = locks.NewEmailLock(c.RedisClient, c.Config.LockTTL)

	c.AuthSvc = services.NewAuthService(
		c.UserRepo,
		c.PasswordSvc,
		c.TokenSvc,
		c.Dispatcher,
		c.OTPGen,
		c.Locker,
		c.Config.DispatchTimeout,
	)
	c.Sweeper = services.NewPendingSweeper(c.UserRepo, c.Config.SweepInterval)
}

func (c *Container) buildDispatcher() domain.NotificationDispatcher {
	if strings.EqualFold(c.Config.NotifierChannel, "sms") {
		return notifications.NewTwilioService(
			c.Config.TwilioSID,
			c.Config.TwilioToken,
			c.Config.TwilioFrom,
		)
	}
	return notifications.NewSMTPService(
		c.Config.SMTPHost,
		c.Config.SMTPPort,
		c.Config.SMTPUsername,
		c.Config.SMTPPassword,
		c.Config.SMTPFrom,
	)
}

// Close closes all connections
func (c *Container) Close() error {
	if c.RedisClient != nil {
		c.RedisClient.Close()
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
