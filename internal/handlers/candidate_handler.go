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

type CandidateHandler struct {
	candRepo repositories.CandidateRepository
	validate *validator.Validate
}

func NewCandidateHandler(candRepo repositories.CandidateRepository, validate *validator.Validate) *CandidateHandler {
	return &CandidateHandler{
		candRepo: candRepo,
		validate: validate,
	}
}

// HandleCreate handles POST /candidates
func (h *CandidateHandler) HandleCreate(c *fiber.Ctx) error {
	var req models.CandidateRequest

	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	now := time.Now()
	candidate := &models.Candidate{
		ID:                  uuid.New(),
		Name:                req.Name,
		Organization:        req.Organization,
		Position:            req.Position,
		Category:            req.Category,
		DescriptionSections: req.DescriptionSections,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := h.candRepo.Create(candidate); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return Error(c, fiber.StatusConflict, "Candidate already exists")
		}
		return AppError(c, err)
	}

	return Success(c, fiber.StatusCreated, "Candidate created", candidate)
}

// HandleList handles GET /candidates
func (h *CandidateHandler) HandleList(c *fiber.Ctx) error {
	candidates, err := h.candRepo.FindAll()
	if err != nil {
		return AppError(c, err)
	}
	return Success(c, fiber.StatusOK, "Candidates", candidates)
}

// HandleGet handles GET /candidates/:id
func (h *CandidateHandler) HandleGet(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid candidate ID format")
	}

	candidate, err := h.candRepo.FindByID(id)
	if err != nil {
		return AppError(c, err)
	}
	if candidate == nil {
		return Error(c, fiber.StatusNotFound, "Candidate not found")
	}

	return Success(c, fiber.StatusOK, "Candidate", candidate)
}
