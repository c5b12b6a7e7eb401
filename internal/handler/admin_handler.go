package handler

import (
	"context"

	"lingua-bot/internal/domain"
	"lingua-bot/internal/dto"
	"lingua-bot/internal/logger"
	"lingua-bot/internal/middleware"
	"lingua-bot/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Broadcaster runs one reminder broadcast.
type Broadcaster interface {
	Run(ctx context.Context) (*service.BroadcastResult, error)
}

type AdminHandler struct {
	broadcaster Broadcaster
	users       domain.UserRecordStore
	plans       domain.PlanStore
	essays      domain.EssayTopicStore
}

func NewAdminHandler(broadcaster Broadcaster, users domain.UserRecordStore, plans domain.PlanStore, essays domain.EssayTopicStore) *AdminHandler {
	return &AdminHandler{broadcaster: broadcaster, users: users, plans: plans, essays: essays}
}

// TriggerBroadcast sends the daily reminder to every learner right away.
// @Summary Run reminder broadcast
// @Description Sends the daily reminder now. Each recipient is isolated; failures are counted, not retried.
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} dto.BroadcastResponse
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 500 {object} middleware.ErrorResponse "Failed to load learners"
// @Router /api/admin/broadcast [post]
func (h *AdminHandler) TriggerBroadcast(c *fiber.Ctx) error {
	subject, _ := c.Locals(middleware.SubjectKey).(string)
	logger.Get().Info("Broadcast requested through ops API", zap.String("subject", subject))

	result, err := h.broadcaster.Run(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.BroadcastResponse{
		RunID:     result.RunID,
		Total:     result.Total,
		Delivered: result.Delivered,
		Failed:    result.Failed,
	})
}

// GetUser returns a learner's profile, stored plan and open essay assignments.
// @Summary Get learner
// @Tags admin
// @Security ApiKeyAuth
// @Produce json
// @Param id path int true "Telegram user id"
// @Success 200 {object} dto.UserDetailResponse
// @Failure 400 {object} middleware.ErrorResponse "Invalid user id"
// @Failure 401 {object} middleware.ErrorResponse "Unauthorized"
// @Failure 404 {object} middleware.ErrorResponse "Learner not found"
// @Router /api/admin/users/{id} [get]
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	userID, ok := c.Locals(middleware.ValidatedUserIDKey).(int64)
	if !ok {
		return domain.NewValidationError("user id is required")
	}
	ctx := c.UserContext()

	record, err := h.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	if record == nil {
		return domain.NewNotFoundError("learner not found")
	}

	plan, _, err := h.plans.Get(ctx, userID)
	if err != nil {
		return err
	}
	active, err := h.essays.ListActive(ctx, userID)
	if err != nil {
		return err
	}

	resp := dto.UserDetailResponse{
		UserID:       record.UserID,
		Language:     string(record.LanguageOrDefault()),
		EnglishLevel: record.EnglishLevel,
		Name:         record.Name,
		Age:          record.Age,
		Score:        record.Score,
		Plan:         plan,
		ActiveEssays: make([]dto.EssayTopicResponse, 0, len(active)),
	}
	for _, essay := range active {
		resp.ActiveEssays = append(resp.ActiveEssays, dto.EssayTopicResponse{
			EssayID: essay.EssayID,
			Topic:   essay.Topic,
			Status:  string(essay.Status),
		})
	}
	return c.JSON(resp)
}
