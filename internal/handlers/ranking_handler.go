package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nicolasestrem/mobility-trailblazers-sub013/internal/services"
)

type RankingHandler struct {
	ranking services.RankingService
}

func NewRankingHandler(ranking services.RankingService) *RankingHandler {
	return &RankingHandler{ranking: ranking}
}

// HandleRankings handles GET /rankings
func (h *RankingHandler) HandleRankings(c *fiber.Ctx) error {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 1 {
			return Error(c, fiber.StatusBadRequest, "Invalid limit")
		}
		limit = value
	}

	entries, err := h.ranking.Rankings(limit)
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Rankings", entries)
}

// HandleProgress handles GET /progress
func (h *RankingHandler) HandleProgress(c *fiber.Ctx) error {
	progress, err := h.ranking.Progress()
	if err != nil {
		return AppError(c, err)
	}

	return Success(c, fiber.StatusOK, "Jury progress", progress)
}
