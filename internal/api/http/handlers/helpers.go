package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resolvedesk/itsm-service/internal/auth"
	"github.com/resolvedesk/itsm-service/internal/events"
	apperrors "github.com/resolvedesk/itsm-service/pkg/util"
)

const defaultPageSize = 20

// success writes the standard response envelope.
func success(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "data": data})
}

// successMessage writes the envelope with a message and no data body.
func successMessage(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"success": true, "message": message})
}

func idParam(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}

// pagination maps page/page_size query params to limit/offset.
func pagination(c *fiber.Ctx) (limit, offset int) {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size := c.QueryInt("page_size", defaultPageSize)
	if size < 1 || size > 100 {
		size = defaultPageSize
	}
	return size, (page - 1) * size
}

func queryString(c *fiber.Ctx, name string) *string {
	val := strings.TrimSpace(c.Query(name))
	if val == "" {
		return nil
	}
	return &val
}

func queryBool(c *fiber.Ctx, name string) *bool {
	val := strings.TrimSpace(c.Query(name))
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryInt(c *fiber.Ctx, name string) *int {
	val := strings.TrimSpace(c.Query(name))
	if val == "" {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return nil
	}
	return &parsed
}

func queryInt64(c *fiber.Ctx, name string) *int64 {
	val := strings.TrimSpace(c.Query(name))
	if val == "" {
		return nil
	}
	parsed, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return nil
	}
	return &parsed
}

// csvValues splits a comma separated query parameter.
func csvValues(c *fiber.Ctx, name string) []string {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	values := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			values = append(values, trimmed)
		}
	}
	return values
}

// requirePrincipal loads the authenticated caller or fails.
func requirePrincipal(c *fiber.Ctx) (*auth.Principal, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.User == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal, nil
}

// actorFor maps the principal to the event/audit actor shape.
func actorFor(principal *auth.Principal) events.Actor {
	id := principal.User.ID
	return events.Actor{Type: principal.ActorType(), ID: &id}
}

// validateBody runs struct tag validation on a parsed request body.
func validateBody(req any) error {
	if err := auth.Validate.Struct(req); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	return nil
}
