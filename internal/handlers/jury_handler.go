package handlers

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
)

type JuryMemberHandler struct {
	juryRepo repositories.JuryMemberRepository
	validate *validator.Validate
}

func NewJuryMemberHandler(juryRepo repositories.JuryMemberRepository, validate *validator.Validate) *JuryMemberHandler {
	return &JuryMemberHandler{
		juryRepo: juryRepo,
		validate: validate,
	}
}

// HandleCreate handles POST /jury-members
func (h *JuryMemberHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.JuryMemberRequest

	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid user_id format")
	}

	now := time.Now()
	member := &models.JuryMember{
		ID:          uuid.New(),
		UserID:      userID,
		DisplayName: req.DisplayName,
		Email:       req.Email,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := h.juryRepo.Create(member); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Error(c, fiber.StatusConflict, "This user is already a jury member")
		}
		return AppError(c, err)
	}

	return Success(c, fiber.StatusCreated, "Jury member created", member)
}

// HandleList handles GET /jury-members
func (h *JuryMemberHandler) HandleList(c *fiber.Ctx) error {
	members, err := h.juryRepo.FindAll()
	if err != nil {
		return AppError(c, err)
	}
	return Success(c, fiber.StatusOK, "Jury members", members)
}

// HandleDeactivate handles POST /jury-members/:id/deactivate
func (h *JuryMemberHandler) HandleDeactivate(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid jury member ID format")
	}

	if err := h.juryRepo.Deactivate(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Error(c, fiber.StatusNotFound, "Jury member not found")
		}
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Jury member deactivated", fiber.Map{"id": id})
}
