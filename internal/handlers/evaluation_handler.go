package handlers

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/middleware"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/models"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/repositories"
	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/services"
)

type EvaluationHandler struct {
	recorder services.RecorderService
	evalRepo repositories.EvaluationRepository
	juryRepo repositories.JuryMemberRepository
	validate *validator.Validate
}

func NewEvaluationHandler(
	recorder services.RecorderService,
	evalRepo repositories.EvaluationRepository,
	juryRepo repositories.JuryMemberRepository,
	validate *validator.Validate,
) *EvaluationHandler {
	return &EvaluationHandler{
		recorder: recorder,
		evalRepo: evalRepo,
		juryRepo: juryRepo,
		validate: validate,
	}
}

// HandleSubmit handles POST /evaluations. The jury member is resolved from
// the authenticated user, never from the payload, so nobody can score on
// someone else's behalf.
func (h *EvaluationHandler) HandleSubmit(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "Missing authenticated user")
	}

	member, err := h.juryRepo.FindByUserID(userID)
	if err != nil {
		return AppError(c, err)
	}
	if member == nil || !member.Active {
		return Error(c, fiber.StatusForbidden, "You are not an active jury member")
	}

	var req models.EvaluationRequest
	if err := c.BodyParser(&req); err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := h.validate.Struct(req); err != nil {
		return ValidationError(c, err)
	}

	candidateID, err := uuid.Parse(req.CandidateID)
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid candidate_id format")
	}

	eval, err := h.recorder.Submit(services.SubmitInput{
		JuryMemberID:   member.ID,
		CandidateID:    candidateID,
		Courage:        req.Courage,
		Innovation:     req.Innovation,
		Implementation: req.Implementation,
		Relevance:      req.Relevance,
		Visibility:     req.Visibility,
		Comments:       req.Comments,
		Status:         models.EvaluationStatus(req.Status),
	})
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Evaluation saved", models.EvaluationResponse{
		ID:         eval.ID.String(),
		Status:     string(eval.Status),
		TotalScore: eval.TotalScore,
	})
}

// HandleGetOwn handles GET /evaluations/:candidate_id for the calling jury
// member, so the scoring form can be prefilled with the saved draft.
func (h *EvaluationHandler) HandleGetOwn(c *fiber.Ctx) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return Error(c, fiber.StatusUnauthorized, "Missing authenticated user")
	}

	member, err := h.juryRepo.FindByUserID(userID)
	if err != nil {
		return AppError(c, err)
	}
	if member == nil {
		return Error(c, fiber.StatusForbidden, "You are not a jury member")
	}

	candidateID, err := uuid.Parse(c.Params("candidate_id"))
	if err != nil {
		return Error(c, fiber.StatusBadRequest, "Invalid candidate ID format")
	}

	eval, err := h.evalRepo.FindByPair(member.ID, candidateID)
	if err != nil {
		return AppError(c, err)
	}
	if eval == nil {
		return Error(c, fiber.StatusNotFound, "No evaluation saved for this candidate")
	}

	return Success(c, fiber.StatusOK, "Evaluation", eval)
}
