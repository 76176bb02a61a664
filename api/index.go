package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/config"
	"github.com/Lazypopo/Shift-Schedule-Webapp/pkg/handlers"
)

var r *gin.Engine

func init() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("could not load config: %v", err)
	}
	log := logrus.StandardLogger()
	log.SetLevel(cfg.LogLevel)
	log.SetFormatter(&logrus.JSONFormatter{})

	h, err := handlers.New(cfg, log)
	if err != nil {
		log.Fatalf("could not initialize: %v", err)
	}

	gin.SetMode(gin.ReleaseMode)
	r = h.Engine()
}

// Handler is the entry point for Vercel Go Runtime
func Handler(w http.ResponseWriter, req *http.Request) {
	r.ServeHTTP(w, req)
}
