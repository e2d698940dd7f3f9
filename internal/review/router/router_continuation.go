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
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/draftpad/draftpad/internal/review/repo"
	"github.com/draftpad/draftpad/internal/review/service"
	httpx "github.com/draftpad/draftpad/pkg/http"
)

type stashContinuationReq struct {
	Target string `json:"target"`
	Token  string `json:"token"`
}

type claimContinuationReq struct {
	State string `json:"state"`
}

// stashContinuation persists the navigation intent before the invitee is
// handed off to authentication. Runs unauthenticated.
func (rt *Router) stashContinuation(c *fiber.Ctx) error {
	var req stashContinuationReq
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	state, err := rt.Services.Continuation.Stash(c.Context(), req.Target, req.Token)
	if err != nil {
		if errors.Is(err, service.ErrBadContinuation) {
			return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	return httpx.WithRepJSON(c, fiber.Map{"state": state})
}

// claimContinuation consumes the stored intent exactly once after the
// invitee is back from authentication.
func (rt *Router) claimContinuation(c *fiber.Ctx) error {
	var req claimContinuationReq
	if err := c.BodyParser(&req); err != nil || req.State == "" {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}

	res, err := rt.Services.Continuation.Claim(c.Context(), req.State)
	if err != nil {
		if errors.Is(err, repo.ErrContinuationNotFound) {
			return httpx.WithRepErrMsg(c, httpx.ContinuationNotFound.Code, httpx.ContinuationNotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	return httpx.WithRepJSON(c, res)
}
