package main

import (
	"flag"

	"go.uber.org/zap"

	"github.com/cppla/microforum/config"
	"github.com/cppla/microforum/routes"
	"github.com/cppla/microforum/utils"
)

func main() {
	configPath := flag.String("config", "config/config.json", "path to the JSON config file")
	envFile := flag.String("env", ".env", "path to an optional .env file")
	flag.Parse()

	cfg, err := config.Load(config.Options{JSONPath: *configPath, EnvFile: *envFile})
	if err != nil {
		panic(err)
	}

	// Initialize logger early
	logger, err := utils.InitLogger(cfg)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := config.OpenDatabase(cfg)
	if err != nil {
		logger.Fatal("database init failed", zap.String("driver", cfg.DBDriver), zap.Error(err))
	}

	r := routes.SetupRouter(routes.NewDeps(cfg, db, logger))

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
