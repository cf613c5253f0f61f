package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/event-service/internal/domain"
	apperrors "github.com/spec-kit/event-service/pkg/util"
)

const principalKey = "auth_principal"

// TokenCookieName is the fallback cookie checked when no Authorization
// header is present. The header wins when both carry a token.
const TokenCookieName = "authToken"

// Principal represents the authenticated caller for the current request.
// It is attached to the request context by the middleware and discarded at
// request end; it is never shared across requests.
type Principal struct {
	User *domain.User
}

// Role returns the caller's role.
func (p *Principal) Role() domain.Role {
	return p.User.Role
}

// RouteRule matches a public route by optional method and path prefix.
type RouteRule struct {
	Method string // empty matches any method
	Prefix string
}

// Matches reports whether the rule covers the given request.
func (r RouteRule) Matches(method, path string) bool {
	if r.Method != "" && r.Method != method {
		return false
	}
	return strings.HasPrefix(path, r.Prefix)
}

// AuthMiddleware establishes request identity before business handlers run.
type AuthMiddleware struct {
	tokens   *TokenManager
	resolver *Resolver
	public   []RouteRule
	logger   *zap.Logger
}

// NewAuthMiddleware constructs the middleware.
func NewAuthMiddleware(tokens *TokenManager, resolver *Resolver, public []RouteRule, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, resolver: resolver, public: public, logger: logger}
}

// Handle extracts and verifies the bearer token and attaches the resolved
// principal. Public routes skip straight through with no principal. A
// missing token also passes through; role guards reject downstream when the
// endpoint requires identity. Any verification or resolution failure is a
// terminal 401 and the downstream handler never runs.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	for _, rule := range m.public {
		if rule.Matches(c.Method(), c.Path()) {
			return c.Next()
		}
	}

	token := bearerToken(c)
	if token == "" {
		token = c.Cookies(TokenCookieName)
	}
	if token == "" {
		return c.Next()
	}

	subject, err := m.tokens.Verify(token)
	if err != nil {
		m.logger.Warn("token rejected",
			zap.String("reason", err.Error()),
			zap.String("path", c.Path()))
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	user, err := m.resolver.Resolve(c.UserContext(), subject)
	if err != nil {
		if errors.Is(err, ErrPrincipalNotFound) {
			m.logger.Warn("token subject no longer exists", zap.String("subject", subject))
			return apperrors.NewUnauthorized("invalid or expired token")
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
