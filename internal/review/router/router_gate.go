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
	"github.com/gofiber/fiber/v2"

	httpx "github.com/draftpad/draftpad/pkg/http"
)

// evaluateGate decides whether the signed-in identity should be redirected
// off the owner workspace. The decision is advisory and fails open, so the
// handler never returns an error status for lookup problems.
func (rt *Router) evaluateGate(c *fiber.Ctx) error {
	identity, ok := identityFromClaims(c)
	if !ok {
		return httpx.WithRepErrMsg(c, httpx.Unauthorized.Code, httpx.Unauthorized.Msg, c.Path())
	}

	decision := rt.Services.Guard.Evaluate(c.Context(), identity)
	return httpx.WithRepJSON(c, decision)
}
