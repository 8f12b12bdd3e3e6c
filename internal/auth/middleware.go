package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/resolvedesk/itsm-service/internal/domain"
	"github.com/resolvedesk/itsm-service/internal/repository"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller. Technician is loaded for
// technician-role accounts so handlers can act on technician identity.
type Principal struct {
	User       *domain.User
	Technician *domain.Technician
}

// ActorType maps the principal to the audit actor taxonomy.
func (p *Principal) ActorType() domain.ActorType {
	switch p.User.Role {
	case domain.RoleAdmin:
		return domain.ActorAdmin
	case domain.RoleTechnician:
		return domain.ActorTechnician
	default:
		return domain.ActorUser
	}
}

// AuthMiddleware validates bearer tokens and loads principals. Role claims
// inside the token are never trusted on their own: the account is reloaded
// and its persisted role and status win.
type AuthMiddleware struct {
	tokens      *TokenManager
	users       repository.UserRepository
	technicians repository.TechnicianRepository
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager, users repository.UserRepository, technicians repository.TechnicianRepository) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens, users: users, technicians: technicians}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	user, err := m.users.GetByID(c.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("account not found")
		}
		return apperrors.MapError(err)
	}
	if !user.Status {
		return apperrors.NewUnauthorized("account is deactivated")
	}

	principal := &Principal{User: user}
	if user.Role == domain.RoleTechnician {
		tech, err := m.technicians.GetByUserID(c.Context(), user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return apperrors.MapError(err)
		}
		principal.Technician = tech
	}

	c.Locals(principalKey, principal)
	return c.Next()
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
