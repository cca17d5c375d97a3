package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/1willcobb/myfilmfriends-server/internal/models"
	"github.com/1willcobb/myfilmfriends-server/internal/observability"

	"github.com/gofiber/fiber/v2"
)

// Request-scoped keys set by the guard.
const (
	LocalUserID  = "userID"
	LocalRole    = "role"
	LocalAuthVia = "authVia"
)

// Session transport names.
const (
	SessionCookieName = "sid"
	SessionHeaderName = "X-Session-ID"
)

// UserLookup resolves a user id to a live user.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Strategy extracts one kind of credential from a request.
type Strategy interface {
	Name() string
	// Resolve reports present=false when the request carries no usable credential
	// of this kind. A present but unacceptable credential returns ErrInvalidCredential.
	Resolve(c *fiber.Ctx) (userID uint, present bool, err error)
	// Revoke invalidates the credential after its user was found to be gone.
	Revoke(c *fiber.Ctx) error
}

// CookieConfig describes the session cookie.
type CookieConfig struct {
	Secure bool
	TTL    time.Duration
}

// SessionStrategy reads the session id from the sid cookie or X-Session-ID header.
type SessionStrategy struct {
	store  SessionStore
	cookie CookieConfig
}

// NewSessionStrategy returns a Strategy backed by store.
func NewSessionStrategy(store SessionStore, cookie CookieConfig) *SessionStrategy {
	return &SessionStrategy{store: store, cookie: cookie}
}

func (s *SessionStrategy) Name() string { return "session" }

// SessionID returns the session id presented with the request, if any.
func SessionID(c *fiber.Ctx) string {
	if id := c.Cookies(SessionCookieName); id != "" {
		return id
	}
	return strings.TrimSpace(c.Get(SessionHeaderName))
}

func (s *SessionStrategy) Resolve(c *fiber.Ctx) (uint, bool, error) {
	id := SessionID(c)
	if id == "" {
		return 0, false, nil
	}
	sess, err := s.store.Get(c.UserContext(), id)
	if err != nil {
		return 0, true, err
	}
	if sess == nil {
		// Unknown or expired sessions count as absent so a bearer token can still apply.
		s.ClearCookie(c)
		return 0, false, nil
	}
	return sess.UserID, true, nil
}

func (s *SessionStrategy) Revoke(c *fiber.Ctx) error {
	err := s.store.Destroy(c.UserContext(), SessionID(c))
	s.ClearCookie(c)
	return err
}

// SetCookie writes the session cookie for id.
func (s *SessionStrategy) SetCookie(c *fiber.Ctx, id string) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(s.cookie.TTL),
		HTTPOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// ClearCookie expires the session cookie on the client.
func (s *SessionStrategy) ClearCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   s.cookie.Secure,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// BearerStrategy reads an Authorization: Bearer token.
type BearerStrategy struct {
	tokens *TokenIssuer
}

// NewBearerStrategy returns a Strategy verifying tokens with issuer.
func NewBearerStrategy(tokens *TokenIssuer) *BearerStrategy {
	return &BearerStrategy{tokens: tokens}
}

func (b *BearerStrategy) Name() string { return "token" }

// BearerToken returns the token from the Authorization header, if any.
func BearerToken(c *fiber.Ctx) string {
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func (b *BearerStrategy) Resolve(c *fiber.Ctx) (uint, bool, error) {
	raw := BearerToken(c)
	if raw == "" {
		return 0, false, nil
	}
	claims, err := b.tokens.Parse(raw)
	if err != nil {
		return 0, true, err
	}
	return claims.UserID, true, nil
}

// Revoke is a no-op. Tokens stay valid until they expire.
func (b *BearerStrategy) Revoke(*fiber.Ctx) error { return nil }

// Guard authenticates requests with the first strategy that finds a credential.
type Guard struct {
	users      UserLookup
	strategies []Strategy
}

// NewGuard returns a Guard trying strategies in order.
func NewGuard(users UserLookup, strategies ...Strategy) *Guard {
	return &Guard{users: users, strategies: strategies}
}

// Required rejects requests without a resolvable live identity.
func (g *Guard) Required() fiber.Handler {
	return func(c *fiber.Ctx) error {
		for _, s := range g.strategies {
			userID, present, err := s.Resolve(c)
			if err != nil {
				if errors.Is(err, ErrInvalidCredential) {
					observability.AuthOutcomes.WithLabelValues(s.Name(), "invalid").Inc()
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Invalid or expired credentials"))
				}
				observability.Logger.ErrorContext(c.UserContext(), "credential lookup failed",
					"strategy", s.Name(), "error", err)
				return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
			}
			if !present {
				continue
			}

			user, err := g.users.GetByID(c.UserContext(), userID)
			if err != nil {
				if models.IsCode(err, models.CodeNotFound) {
					if revokeErr := s.Revoke(c); revokeErr != nil {
						observability.Logger.WarnContext(c.UserContext(), "failed to revoke orphaned credential",
							"strategy", s.Name(), "error", revokeErr)
					}
					observability.AuthOutcomes.WithLabelValues(s.Name(), "orphaned").Inc()
					return models.RespondWithError(c, fiber.StatusUnauthorized,
						models.NewUnauthorizedError("Account no longer exists"))
				}
				return models.RespondWithError(c, fiber.StatusInternalServerError, err)
			}

			c.Locals(LocalUserID, user.ID)
			c.Locals(LocalRole, user.Role)
			c.Locals(LocalAuthVia, s.Name())
			c.SetUserContext(observability.WithUserID(c.UserContext(), user.ID))
			observability.AuthOutcomes.WithLabelValues(s.Name(), "ok").Inc()
			return c.Next()
		}

		observability.AuthOutcomes.WithLabelValues("none", "missing").Inc()
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authentication required"))
	}
}

// AdminRequired rejects callers without the admin role. It must run after Required.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role, _ := c.Locals(LocalRole).(string); role != models.RoleAdmin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}
		return c.Next()
	}
}

// CallerID returns the user id the guard attached to the request.
func CallerID(c *fiber.Ctx) (uint, bool) {
	id, ok := c.Locals(LocalUserID).(uint)
	return id, ok && id != 0
}

// CallerIsAdmin reports whether the guarded caller holds the admin role.
func CallerIsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals(LocalRole).(string)
	return role == models.RoleAdmin
}
