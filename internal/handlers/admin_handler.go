package handlers

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/orchardlabs/storefront/internal/domain"
	"github.com/orchardlabs/storefront/internal/httpx"
	"github.com/orchardlabs/storefront/internal/middleware"
)

type AdminService interface {
	DashboardStats(ctx context.Context) (*domain.DashboardStats, error)
	SalesAnalytics(ctx context.Context, periodDays int) (*domain.SalesAnalytics, error)
	ListUsers(ctx context.Context, filter domain.UserFilter, page, limit int) ([]domain.User, int, error)
	UpdateUserRole(ctx context.Context, id uuid.UUID, role domain.Role) (*domain.User, error)
	DeleteUser(ctx context.Context, requester *domain.User, id uuid.UUID) error
}

type AdminHandler struct {
	admin AdminService
}

func NewAdminHandler(admin AdminService) *AdminHandler {
	return &AdminHandler{admin: admin}
}

func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.admin.DashboardStats(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return httpx.Success(c, "Stats retrieved successfully", stats)
}

func (h *AdminHandler) SalesAnalytics(c *fiber.Ctx) error {
	period := 30
	if p, err := strconv.Atoi(c.Query("period")); err == nil && p > 0 {
		period = p
	}

	analytics, err := h.admin.SalesAnalytics(c.Context(), period)
	if err != nil {
		return respondError(c, err)
	}
	return httpx.Success(c, "Analytics retrieved successfully", analytics)
}

func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	page, limit := pagination(c)

	filter := domain.UserFilter{
		Search: c.Query("search"),
		Role:   domain.Role(c.Query("role")),
	}

	users, total, err := h.admin.ListUsers(c.Context(), filter, page, limit)
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "Users retrieved successfully", fiber.Map{
		"users":      users,
		"pagination": pageMeta(len(users), total, page, limit),
	})
}

func (h *AdminHandler) UpdateUserRole(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid user ID", nil)
	}

	var req UpdateRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return httpx.BadRequest(c, "Invalid request body", nil)
	}

	user, err := h.admin.UpdateUserRole(c.Context(), id, domain.Role(req.Role))
	if err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "User role updated successfully", user)
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	requester := middleware.UserFromCtx(c)

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return httpx.BadRequest(c, "Invalid user ID", nil)
	}

	if err := h.admin.DeleteUser(c.Context(), requester, id); err != nil {
		return respondError(c, err)
	}

	return httpx.Success(c, "User deleted successfully", nil)
}
