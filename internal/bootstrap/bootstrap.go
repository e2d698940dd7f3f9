// Copyright 2025 Draftpad Team
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bootstrap

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/draftpad/draftpad/internal/review/conf"
	"github.com/draftpad/draftpad/internal/review/model"
	"github.com/draftpad/draftpad/internal/review/notify"
	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/internal/review/router"
	"github.com/draftpad/draftpad/internal/review/service"
	"github.com/draftpad/draftpad/pkg/cache"
	"github.com/draftpad/draftpad/pkg/ctx"
	"github.com/draftpad/draftpad/pkg/database"
	"github.com/draftpad/draftpad/pkg/log"
)

type App struct {
	HttpApp *fiber.App
	AppCtx  *ctx.Context
	AppConf conf.AppConfig
}

// Bootstrap wires the application: config, logger, stores, services and the
// HTTP surface. The returned cleanup closes what was opened.
func Bootstrap(configFile string) (*App, func(), error) {
	appConf := conf.NewConf(configFile)

	if err := log.Init(&appConf.Log); err != nil {
		return nil, nil, fmt.Errorf("init logger: %w", err)
	}
	logger := log.GetLogger()

	redisClient, err := cache.NewRedis(appConf.Redis)
	if err != nil {
		return nil, nil, fmt.Errorf("init redis: %w", err)
	}

	db, err := database.NewDatabase(appConf.Database)
	if err != nil {
		return nil, nil, fmt.Errorf("init database: %w", err)
	}

	if err := db.AutoMigrate(
		&model.Invitation{},
		&model.Project{},
		&model.Prompt{},
		&model.Identity{},
	); err != nil {
		return nil, nil, fmt.Errorf("auto migrate: %w", err)
	}

	appCtx := ctx.NewContext(context.Background(), db, redisClient, logger)

	invRepo := repo.NewInvitationRepo(db)
	projectRepo := repo.NewProjectRepo(db)
	identityRepo := repo.NewIdentityRepo(db)
	contRepo := repo.NewContinuationRepo(redisClient)

	notifier := notify.NewWebhook(appConf.Notify)

	services := &router.Services{
		Acceptance:   service.NewAcceptanceService(invRepo, notifier, appConf.Flow, nil, logger),
		Guard:        service.NewGuardService(projectRepo, invRepo, appConf.Flow, nil, logger),
		Continuation: service.NewContinuationService(contRepo, appConf.Flow, logger),
		Invite:       service.NewInviteService(invRepo, identityRepo, appConf.Flow, nil, logger),
	}

	rt := router.NewRouter(&appConf.Http, appCtx, services)
	httpApp := rt.Router()

	cleanup := func() {
		if err := redisClient.Close(); err != nil {
			log.Errorf("close redis: %v", err)
		}
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}

	app := &App{
		HttpApp: httpApp,
		AppCtx:  appCtx,
		AppConf: appConf,
	}
	return app, cleanup, nil
}

// Run serves HTTP until an interrupt arrives, then drains connections
// within the configured shutdown window.
func (a *App) Run() error {
	addr := fmt.Sprintf("%s:%d", a.AppConf.Http.Host, a.AppConf.Http.Port)

	errCh := make(chan error, 1)
	go func() {
		if a.AppConf.Http.TLS.CertFile != "" && a.AppConf.Http.TLS.KeyFile != "" {
			errCh <- a.HttpApp.ListenTLS(addr, a.AppConf.Http.TLS.CertFile, a.AppConf.Http.TLS.KeyFile)
			return
		}
		errCh <- a.HttpApp.Listen(addr)
	}()
	log.Infof("http server listening on %s", addr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		log.Infof("received signal %s, shutting down", sig)
	}

	timeout := time.Duration(a.AppConf.Http.ShutdownTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if err := a.HttpApp.ShutdownWithTimeout(timeout); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("http server stopped")
	return nil
}
