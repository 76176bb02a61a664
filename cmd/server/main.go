package main

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/config"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}

	log := logrus.StandardLogger()
	log.SetLevel(cfg.LogLevel)

	if cfg.GinMode == "" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(cfg.GinMode)
	}

	h, err := handlers.New(cfg, log)
	if err != nil {
		log.Fatalf("could not initialize: %v", err)
	}

	r := h.Engine()
	log.Infof("Server starting on port %s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("could not run server: %v", err)
	}
}
