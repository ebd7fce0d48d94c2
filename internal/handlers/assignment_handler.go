package handlers

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/services"
)

type AssignmentHandler struct {
	distributor services.DistributorService
	assignRepo  repositories.AssignmentRepository
	validate    *validator.Validate
}

func NewAssignmentHandler(
	distributor services.DistributorService,
	assignRepo repositories.AssignmentRepository,
	validate *validator.Validate,
) *AssignmentHandler {
	return &AssignmentHandler{
		distributor: distributor,
		assignRepo:  assignRepo,
		validate:    validate,
	}
}

// HandleDistribute handles POST /assignments/distribute
func (h *AssignmentHandler) HandleDistribute(c *fiber.Ctx) error {
	var req models.DistributeRequest

	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	result, err := h.distributor.Distribute(services.DistributeInput{
		Round:   req.Round,
		Quota:   req.Quota,
		Seed:    req.Seed,
		Preview: req.Preview,
	})
	if err != nil {
		return AppError(c, err)
	}

	message := "Assignments created"
	if result.Preview {
		message = "Distribution preview"
	}
	return Success(c, fiber.StatusOK, message, result)
}

// HandleList handles GET /assignments
func (h *AssignmentHandler) HandleList(c *fiber.Ctx) error {
	var juryMemberID *uuid.UUID
	if raw := c.Query("jury_member_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return Error(c, fiber.StatusBadRequest, "Invalid jury_member_id format")
		}
		juryMemberID = &id
	}

	var round *int
	if raw := c.Query("round"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return Error(c, fiber.StatusBadRequest, "Invalid round")
		}
		round = &value
	}

	assignments, err := h.assignRepo.FindByFilter(juryMemberID, round)
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Assignments", assignments)
}
