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

package middleware

import (
	"context"
	"errors"
	"strings"

	goJwt "github.com/golang-jwt/jwt/v5"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"

	"github.com/draftpad/draftpad/pkg/http"
	"github.com/draftpad/draftpad/pkg/http/jwt"
	"github.com/draftpad/draftpad/pkg/log"
)

// ClaimsKey is the fiber.Ctx locals key holding the parsed *jwt.AuthClaims.
const ClaimsKey = "claims"

// AuthorizationMiddleware validates the bearer token and, when a session
// prefix is configured, requires a live session entry in Redis.
func AuthorizationMiddleware(secretKey, sessionPrefix string, client *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		aToken := c.Get("Authorization")
		if aToken == "" {
			return http.WithRepErrMsg(c, http.AuthorizationEmpty.Code, http.AuthorizationEmpty.Msg, c.Path())
		}

		parts := strings.SplitN(aToken, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			return http.WithRepErrMsg(c, http.TokenBeEmpty.Code, http.TokenBeEmpty.Msg, c.Path())
		}

		claims, err := jwt.ParseToken(parts[1], secretKey)
		if err != nil {
			if errors.Is(err, goJwt.ErrTokenExpired) {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
			log.Errorf("parse token failed: %v", err)
			return http.WithRepErrMsg(c, http.InvalidToken.Code, http.InvalidToken.Msg, c.Path())
		}

		if client != nil && sessionPrefix != "" {
			sessionKey := sessionPrefix + claims.IdentityId
			exists, err := client.Exists(context.Background(), sessionKey).Result()
			if err != nil {
				log.Errorf("redis session check failed: %v", err)
				return http.WithRepErrMsg(c, http.InternalError.Code, http.InternalError.Msg, c.Path())
			}
			if exists == 0 {
				return http.WithRepErrMsg(c, http.TokenExpired.Code, http.TokenExpired.Msg, c.Path())
			}
		}

		c.Locals(ClaimsKey, claims)
		return c.Next()
	}
}
