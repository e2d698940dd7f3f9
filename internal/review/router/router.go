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

package router

import (
	"time"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/pprof"
	fiberrecover "github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/draftpad/draftpad/internal/review/service"
	"github.com/draftpad/draftpad/pkg/ctx"
	httpx "github.com/draftpad/draftpad/pkg/http"
	"github.com/draftpad/draftpad/pkg/http/middleware"
	"github.com/draftpad/draftpad/pkg/version"
)

// Services collects the review-surface services the handlers dispatch to.
type Services struct {
	Acceptance   *service.AcceptanceService
	Guard        *service.GuardService
	Continuation *service.ContinuationService
	Invite       *service.InviteService
}

type Router struct {
	Http     *httpx.Http
	Ctx      *ctx.Context
	Services *Services
}

func NewRouter(httpConf *httpx.Http, appCtx *ctx.Context, services *Services) *Router {
	return &Router{
		Http:     httpConf,
		Ctx:      appCtx,
		Services: services,
	}
}

func (rt *Router) Router() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Draftpad",
		DisableStartupMessage: true,
		ReadTimeout:           time.Duration(rt.Http.ReadTimeout) * time.Second,
		WriteTimeout:          time.Duration(rt.Http.WriteTimeout) * time.Second,
		IdleTimeout:           time.Duration(rt.Http.IdleTimeout) * time.Second,
	})

	app.Use(
		fiberrecover.New(),
		cors.New(),
		middleware.AccessLogMiddleware(rt.Http),
	)

	if rt.Http.PProf {
		app.Use(pprof.New(pprof.Config{Prefix: "/debug"}))
	}

	if rt.Http.ExposeMetrics {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/version", func(c *fiber.Ctx) error {
		return c.JSON(version.GetVersion())
	})

	api := app.Group(rt.Http.ContextPath)
	{
		rt.reviewRouter(api)
	}

	// must be registered after all routes
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).
			JSON(httpx.ResponseErr{ErrCode: fiber.StatusNotFound, ErrMsg: "request path not found", Path: c.Path()})
	})

	return app
}

func (rt *Router) reviewRouter(r fiber.Router) {
	auth := middleware.AuthorizationMiddleware(
		rt.Http.Auth.SecretKey, rt.Http.Auth.RedisKeyPrefix, rt.Ctx.GetRedis())

	review := r.Group("/review")
	{
		// pre-authentication surface
		review.Get("/invites/:token", rt.lookupInvite)
		review.Post("/continuation", rt.stashContinuation)

		// authenticated surface
		review.Post("/invites", auth, rt.issueInvite)
		review.Post("/invites/:token/accept", auth, rt.acceptInvite)
		review.Post("/invites/:token/complete", auth, rt.completeReview)
		review.Get("/pending", auth, rt.pendingInvites)
		review.Get("/gate", auth, rt.evaluateGate)
		review.Post("/continuation/claim", auth, rt.claimContinuation)
	}
}
