package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/middleware"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/services"
)

type ResetHandler struct {
	reset    services.ResetService
	validate *validator.Validate
}

func NewResetHandler(reset services.ResetService, validate *validator.Validate) *ResetHandler {
	return &ResetHandler{
		reset:    reset,
		validate: validate,
	}
}

// HandleReset handles POST /resets
func (h *ResetHandler) HandleReset(c *fiber.Ctx) error {
	initiator, ok := middleware.UserID(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "Missing authenticated user")
	}

	var req models.ResetRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	input := services.ResetInput{
		Scope:         models.ResetScope(req.Scope),
		Reason:        req.Reason,
		InitiatedBy:   initiator,
		InitiatorRole: middleware.Role(c),
		IPAddress:     c.IP(),
		UserAgent:     c.Get(fiber.HeaderUserAgent),
	}

	if req.JuryMemberID != "" {
		id, err := uuid.Parse(req.JuryMemberID)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "Invalid jury_member_id format")
		}
		input.JuryMemberID = &id
	}
	if req.CandidateID != "" {
		id, err := uuid.Parse(req.CandidateID)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "Invalid candidate_id format")
		}
		input.CandidateID = &id
	}
	if req.Round > 0 {
		round := req.Round
		input.Round = &round
	}

	result, err := h.reset.Reset(c.Context(), input)
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Reset applied", result)
}

// HandleRestore handles POST /resets/:backup_id/restore
func (h *ResetHandler) HandleRestore(c *fiber.Ctx) error {
	initiator, ok := middleware.UserID(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "Missing authenticated user")
	}

	backupID, err := uuid.Parse(c.Params("backup_id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid backup ID format")
	}

	var body struct {
		Reason string `json:"reason"`
	}
	// The body is optional; a restore without a reason is still auditable.
	_ = c.BodyParser(&body)
	if body.Reason == "" {
		body.Reason = "restore from backup"
	}

	result, err := h.reset.Restore(c.Context(), services.RestoreInput{
		BackupID:      backupID,
		Reason:        body.Reason,
		InitiatedBy:   initiator,
		InitiatorRole: middleware.Role(c),
		IPAddress:     c.IP(),
		UserAgent:     c.Get(fiber.HeaderUserAgent),
	})
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Backup restored", result)
}

// HandleHistory handles GET /resets/history
func (h *ResetHandler) HandleHistory(c *fiber.Ctx) error {
	limit := parseQueryInt(c, "limit", 50)
	offset := parseQueryInt(c, "offset", 0)

	entries, err := h.reset.History(limit, offset)
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Reset history", entries)
}

func parseQueryInt(c *fiber.Ctx, key string, defaultValue int) int {
	raw := c.Query(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return defaultValue
	}
	return value
}
