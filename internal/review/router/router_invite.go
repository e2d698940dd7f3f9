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

	"github.com/draftpad/draftpad/internal/review/service"
	httpx "github.com/draftpad/draftpad/pkg/http"
	"github.com/draftpad/draftpad/pkg/http/jwt"
	"github.com/draftpad/draftpad/pkg/http/middleware"
)

func identityFromClaims(c *fiber.Ctx) (service.Identity, bool) {
	claims, ok := c.Locals(middleware.ClaimsKey).(*jwt.AuthClaims)
	if !ok || claims == nil {
		return service.Identity{}, false
	}
	return service.Identity{Id: claims.IdentityId, Email: claims.Email}, true
}

// lookupInvite resolves a token before authentication so the client can
// route the invitee into sign-in or sign-up.
func (rt *Router) lookupInvite(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
	}

	view, err := rt.Services.Invite.Lookup(c.Context(), token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidToken) {
			return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
		}
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	return httpx.WithRepJSON(c, view)
}

// acceptInvite runs the acceptance flow to its terminal state and reports
// the outcome along with the post-acceptance navigation target.
func (rt *Router) acceptInvite(c *fiber.Ctx) error {
	identity, ok := identityFromClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}
	token := c.Params("token")
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
	}

	res := rt.Services.Acceptance.Run(c.Context(), token, identity)
	if res.Err != nil {
		return rt.acceptError(c, res.Err)
	}

	return httpx.WithRepJSON(c, fiber.Map{
		"state":    res.State,
		"states":   res.States,
		"location": service.SuccessLocation(*res.Resource, token),
	})
}

func (rt *Router) acceptError(c *fiber.Ctx, err error) error {
	var mismatch *service.EmailMismatchError
	switch {
	case errors.As(err, &mismatch):
		return httpx.WithRepErrDetail(c, httpx.InviteEmailMismatch.Code, httpx.InviteEmailMismatch.Msg,
			fiber.Map{
				"invitedEmail":  mismatch.TargetEmail,
				"signedInEmail": mismatch.IdentityEmail,
			}, c.Path())
	case errors.Is(err, service.ErrInvalidToken):
		return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
	case errors.Is(err, service.ErrExpired):
		return httpx.WithRepErrMsg(c, httpx.InviteExpired.Code, httpx.InviteExpired.Msg, c.Path())
	case errors.Is(err, service.ErrAlreadyAccepted):
		return httpx.WithRepErrMsg(c, httpx.InviteAlreadyAccepted.Code, httpx.InviteAlreadyAccepted.Msg, c.Path())
	case errors.Is(err, service.ErrTimeout):
		return httpx.WithRepErrMsg(c, httpx.InviteAcceptTimeout.Code, httpx.InviteAcceptTimeout.Msg, c.Path())
	default:
		return httpx.WithRepErrMsg(c, httpx.InvitePersistFailed.Code, httpx.InvitePersistFailed.Msg, c.Path())
	}
}

func (rt *Router) issueInvite(c *fiber.Ctx) error {
	identity, ok := identityFromClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	var req service.IssueRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.WithRepErrMsg(c, httpx.RequestParameterParsingFailed.Code, httpx.RequestParameterParsingFailed.Msg, c.Path())
	}
	req.InvitedBy = identity.Id

	inv, err := rt.Services.Invite.Issue(c.Context(), req)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.BadRequest.Code, err.Error(), c.Path())
	}
	return httpx.WithRepJSON(c, inv)
}

func (rt *Router) pendingInvites(c *fiber.Ctx) error {
	identity, ok := identityFromClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	invs, err := rt.Services.Invite.Pending(c.Context(), identity.Email)
	if err != nil {
		return httpx.WithRepErrMsg(c, httpx.InternalError.Code, httpx.InternalError.Msg, c.Path())
	}
	return httpx.WithRepJSON(c, invs)
}

func (rt *Router) completeReview(c *fiber.Ctx) error {
	token := c.Params("token")
	if token == "" {
		return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
	}

	if err := rt.Services.Invite.CompleteReview(c.Context(), token); err != nil {
		return httpx.WithRepErrMsg(c, httpx.InviteNotFound.Code, httpx.InviteNotFound.Msg, c.Path())
	}
	return httpx.WithRepNotDetail(c)
}
