package server

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/middleware"
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	tokenIssuer   = "inkwell-api"
	tokenAudience = "inkwell-client"

	defaultTokenTTL = 7 * 24 * time.Hour
)

// Policy is the access rule a route group enforces.
type Policy int

const (
	// PolicyAuthenticatedOrReadOnly lets anonymous callers use safe methods only.
	PolicyAuthenticatedOrReadOnly Policy = iota
	// PolicyAuthenticated requires a valid token for every method.
	PolicyAuthenticated
	// PolicyAdmin requires a valid token whose user has the admin flag.
	PolicyAdmin
)

// tokenIdentity is what a verified bearer token tells us about the caller.
type tokenIdentity struct {
	UserID    uint
	TokenID   string
	ExpiresAt time.Time
}

func isSafeMethod(method string) bool {
	switch method {
	case fiber.MethodGet, fiber.MethodHead, fiber.MethodOptions:
		return true
	}
	return false
}

// bearerToken returns the token of an "Authorization: Bearer <token>" header, or "".
func bearerToken(c *fiber.Ctx) string {
	parts := strings.Fields(c.Get(fiber.HeaderAuthorization))
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// Guard returns middleware enforcing policy. A token that is present but
// invalid is always rejected, even on safe methods.
func (s *Server) Guard(policy Policy) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c)
		if raw == "" {
			if policy == PolicyAuthenticatedOrReadOnly && isSafeMethod(c.Method()) {
				return c.Next()
			}
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authentication credentials were not provided"))
		}

		identity, err := s.parseToken(c.UserContext(), raw)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}
		attachIdentity(c, identity)

		if policy == PolicyAdmin {
			admin, err := s.userService.IsAdmin(c.UserContext(), identity.UserID)
			if err != nil && models.StatusForError(err) != fiber.StatusNotFound {
				return s.mapServiceError(c, err)
			}
			if !admin {
				return models.RespondWithError(c, fiber.StatusForbidden,
					models.NewForbiddenError("Admin access required"))
			}
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return s.Guard(PolicyAuthenticated)
}

// AdminRequired returns middleware that rejects anonymous callers with 401 and
// non-admin users with 403.
func (s *Server) AdminRequired() fiber.Handler {
	return s.Guard(PolicyAdmin)
}

// parseToken verifies signature, issuer, audience, expiry and revocation.
func (s *Server) parseToken(ctx context.Context, raw string) (*tokenIdentity, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	},
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, models.NewUnauthorizedError("Invalid or expired token")
	}

	userID, err := strconv.ParseUint(claims.Subject, 10, 32)
	if err != nil || userID == 0 {
		return nil, models.NewUnauthorizedError("Invalid subject claim")
	}

	revoked, err := cache.IsTokenRevoked(ctx, s.redis, claims.ID)
	if err != nil {
		middleware.Logger.WarnContext(ctx, "token revocation check failed", "error", err)
		return nil, models.NewUnauthorizedError("Token could not be verified")
	}
	if revoked {
		return nil, models.NewUnauthorizedError("Token has been revoked")
	}

	return &tokenIdentity{
		UserID:    uint(userID),
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// attachIdentity stores the caller in locals and in the user context for logging.
func attachIdentity(c *fiber.Ctx, identity *tokenIdentity) {
	c.Locals("userID", identity.UserID)
	c.Locals("tokenID", identity.TokenID)
	c.Locals("tokenExpiresAt", identity.ExpiresAt)
	c.SetUserContext(middleware.WithUserID(c.UserContext(), identity.UserID))
}

// currentUserID returns the authenticated caller, if any.
func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals("userID").(uint)
	return userID, ok && userID != 0
}

// generateToken issues a signed access token for userID.
func (s *Server) generateToken(userID uint) (string, error) {
	if s.config.JWTSecret == "" {
		return "", fmt.Errorf("JWT secret not configured")
	}

	ttl := defaultTokenTTL
	if s.config.JWTTTLHours > 0 {
		ttl = time.Duration(s.config.JWTTTLHours) * time.Hour
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}
