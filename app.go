package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go-rbac-api/bootstrap"
	"go-rbac-api/common"
	"go-rbac-api/config"
	"go-rbac-api/database"
	"go-rbac-api/domain"
	"go-rbac-api/middleware"
	authAPI "go-rbac-api/modules/auth/delivery/api"
	authUC "go-rbac-api/modules/auth/usecase"
	authzUC "go-rbac-api/modules/authz/usecase"
	permissionAPI "go-rbac-api/modules/permission/delivery/api"
	permissionRepo "go-rbac-api/modules/permission/repository"
	permissionUC "go-rbac-api/modules/permission/usecase"
	roleAPI "go-rbac-api/modules/role/delivery/api"
	roleRepo "go-rbac-api/modules/role/repository"
	roleUC "go-rbac-api/modules/role/usecase"
	userAPI "go-rbac-api/modules/user/delivery/api"
	userRepo "go-rbac-api/modules/user/repository"
	userUC "go-rbac-api/modules/user/usecase"
	"go-rbac-api/pkg/log"
	"go-rbac-api/pkg/metrics"
	"go-rbac-api/validator"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

type userStore interface {
	authUC.UserRepository
	userUC.UserRepository
}

type roleStore interface {
	roleUC.RoleRepository
	authzUC.RolePermissionStore
	ExistsByName(ctx context.Context, name string) (bool, error)
}

type permissionStore interface {
	permissionUC.PermissionRepository
	Create(ctx context.Context, permission *domain.Permission) error
}

// stores bundles the repositories of the configured provider.
type stores struct {
	users       userStore
	roles       roleStore
	permissions permissionStore
	close       func(ctx context.Context) error
}

func openStores(ctx context.Context, cfg config.DatabaseConfig, logger log.Logger) (*stores, error) {
	switch cfg.Provider() {
	case config.ProviderMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &stores{
			users:       userRepo.NewMemoryUserRepository(),
			roles:       roleRepo.NewMemoryRoleRepository(),
			permissions: permissionRepo.NewMemoryPermissionRepository(),
			close:       func(context.Context) error { return nil },
		}, nil

	case config.ProviderPostgres:
		db, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		logger.Info("Postgres connected and migrated successfully", log.String("host", cfg.Host()))
		return &stores{
			users:       userRepo.NewPgUserRepository(db),
			roles:       roleRepo.NewPgRoleRepository(db),
			permissions: permissionRepo.NewPgPermissionRepository(db),
			close:       func(context.Context) error { return sqlDB.Close() },
		}, nil

	case config.ProviderMongo:
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to mongo: %w", err)
		}
		if err = database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to create mongo indexes: %w", err)
		}
		logger.Info("MongoDB connected successfully", log.String("database", cfg.MongoDatabase()))
		return &stores{
			users:       userRepo.NewMongoUserRepository(db),
			roles:       roleRepo.NewMongoRoleRepository(db),
			permissions: permissionRepo.NewMongoPermissionRepository(db),
			close:       client.Disconnect,
		}, nil
	}

	return nil, fmt.Errorf("unsupported database provider %q", cfg.Provider())
}

// application is the fully wired HTTP service.
type application struct {
	cfg      config.Config
	logger   log.Logger
	stores   *stores
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	router   *gin.Engine
}

func newApplication(ctx context.Context, cfg config.Config, logger log.Logger) (*application, error) {
	hasher, err := common.NewHasher(cfg.App().PasswordHasher(), cfg.App().PasswordHashSecret())
	if err != nil {
		return nil, err
	}

	st, err := openStores(ctx, cfg.Database(), logger)
	if err != nil {
		return nil, err
	}

	seeder := bootstrap.NewRBACSeeder(
		st.permissions,
		st.roles,
		st.users,
		hasher,
		bootstrap.SystemAdminConfig{
			Email:    cfg.App().SystemAdminEmail(),
			Password: cfg.App().SystemAdminPassword(),
		},
		logger,
	)
	if err = seeder.Seed(ctx); err != nil {
		_ = st.close(context.Background())
		return nil, fmt.Errorf("failed to seed rbac catalog: %w", err)
	}

	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	app := &application{
		cfg:      cfg,
		logger:   logger,
		stores:   st,
		registry: registry,
		metrics:  m,
	}
	app.router = app.newRouter(hasher)
	return app, nil
}

func (a *application) newRouter(hasher common.Hasher) *gin.Engine {
	cfg := a.cfg
	v := validator.DefaultValidator()
	validator.RegisterValidatorWithGin()

	jwtProvider := common.NewJWTProvider(cfg.App())
	authorizer := authzUC.NewAuthorizer(a.stores.roles, a.logger)

	authUsecase := authUC.NewAuthUsecase(
		a.stores.users,
		a.stores.roles,
		authorizer,
		jwtProvider,
		hasher,
		v,
		a.metrics,
		a.logger,
		authUC.Options{SignupRolesEnabled: cfg.App().SignupRolesEnabled()},
	)
	userUsecase := userUC.NewUserUsecase(a.stores.users, a.logger)
	roleUsecase := roleUC.NewRoleUsecase(a.stores.roles, a.logger)
	permissionUsecase := permissionUC.NewPermissionUsecase(a.stores.permissions)

	// Initialize dependencies for middlewares
	middlewares := middleware.NewMiddlewares(middleware.Dependencies{
		Logger:      a.logger,
		Metrics:     a.metrics,
		JwtProvider: jwtProvider,
		UserRepo:    a.stores.users,
		Authorizer:  authorizer,
	})

	basePath := cfg.Server().BasePath()
	authHandler := authAPI.NewAuthHandler(authUsecase, middlewares, authAPI.CookieConfig{
		Name:   cfg.App().RefreshCookieName(),
		MaxAge: cfg.App().RefreshCookieMaxAge(),
		Path:   common.JoinURLPath(basePath, "auth"),
		Secure: cfg.App().RefreshCookieSecure(),
	})
	userHandler := userAPI.NewUserHandler(userUsecase, middlewares)
	roleHandler := roleAPI.NewRoleHandler(roleUsecase, middlewares)
	permissionHandler := permissionAPI.NewPermissionHandler(permissionUsecase, middlewares)

	// Create Gin server without default middleware
	r := gin.New()
	r.ContextWithFallback = true

	r.Use(middlewares.Recovery())
	r.Use(middlewares.RequestIDMiddleware())
	r.Use(middlewares.LoggingMiddleware("/health", cfg.Metrics().Path()))
	r.Use(middlewares.SecureHeaders(middleware.SecureConfig{
		AllowedHosts: cfg.Server().AllowedHosts(),
		IsProduction: cfg.App().IsProduction(),
	}))
	r.Use(middlewares.CORS(middleware.NewCORSConfig(cfg.Server().AllowedOrigins())))
	r.Use(middlewares.HTTPMetrics())

	// Register routes
	apiGroup := r.Group(basePath)
	authHandler.RegisterRoutes(apiGroup)
	userHandler.RegisterRoutes(apiGroup)
	roleHandler.RegisterRoutes(apiGroup)
	permissionHandler.RegisterRoutes(apiGroup)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().Unix()})
	})
	if cfg.Metrics().Enabled() {
		r.GET(cfg.Metrics().Path(), gin.WrapH(metrics.Handler(a.registry)))
	}

	r.NoRoute(func(c *gin.Context) {
		common.ResponseNotFound(c, "route not found")
	})

	return r
}

func (a *application) Close(ctx context.Context) error {
	return a.stores.close(ctx)
}
