package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/auth"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/config"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/database"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/metrics"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/roster"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/scheduler"
)

// New opens the database, makes sure an admin exists and builds a Handler
// backed by the persistent roster store
func New(cfg *config.Config, log *logrus.Logger) (*Handler, error) {
	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath)
	if err != nil {
		return nil, err
	}

	authn := auth.New(cfg.JWTSecret, cfg.APIMasterSecret)
	created, err := authn.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("ensure admin: %w", err)
	}
	if created {
		log.WithField("username", cfg.AdminUsername).Info("Created default admin")
	}

	store := roster.NewGormStore(db)
	return &Handler{
		DB:    db,
		Store: store,
		Scheduler: scheduler.NewScheduler(store,
			scheduler.WithLogger(log),
			scheduler.WithMetrics(metrics.NewPrometheus(nil, "")),
		),
		Auth:           authn,
		DefaultMaxLoad: cfg.DefaultMaxLoad,
		Log:            log,
	}, nil
}

// Engine builds a gin engine with logging, recovery and every route mounted
func (h *Handler) Engine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	h.RegisterRoutes(r)
	return r
}
