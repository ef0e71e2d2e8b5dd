package main

import (
	"contact-importer/ccapi"
	"contact-importer/common"
	"contact-importer/config"
	"contact-importer/web"
)

func main() {
	logger := common.Logger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalw("failed to load config", "error", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatalw("invalid config", "error", err)
	}

	db, err := common.Init(cfg.DatabasePath)
	if err != nil {
		logger.Fatalw("failed to open database", "error", err)
	}
	if err := common.AutoMigrateJobs(db); err != nil {
		logger.Fatalw("failed to migrate job tables", "error", err)
	}

	// Ensure database connection is closed on exit
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warnw("failed to get sql.DB", "error", err)
	} else {
		defer sqlDB.Close()
	}

	api := ccapi.NewClient(cfg.APIBaseURL)
	router := web.NewRouter(cfg, api)

	logger.Infow("server starting", "port", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatalw("server exited", "error", err)
	}
}
