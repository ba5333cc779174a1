package handler

import (
	"littlelemon/config"
	"littlelemon/di"
	"littlelemon/shared/logger"
	"net/http"
	"os"
	"sync"
)

var (
	app  *di.Application
	once sync.Once
)

// Handler is the serverless entry point; the application is wired on the first request.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()
		logger.UseJSONOutput(cfg, os.Stdout)
		logger.SetLogLevel(cfg)

		app = di.InitializeService()
	})

	app.HTTP.ServeHTTP(w, r)
}
