package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/internal/interfaces/http/response"
	"github.com/helljxnn/astrostar-backend-sub000/internal/usecases"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/utils"
)

type teamService interface {
	CreateTeam(ctx context.Context, input *entities.CreateTeamInput) (*entities.TeamResponse, error)
	UpdateTeam(ctx context.Context, id uint, input *entities.UpdateTeamInput) (*entities.TeamResponse, error)
	DeleteTeam(ctx context.Context, id uint) error
	ChangeStatus(ctx context.Context, id uint, rawStatus string) (*entities.TeamResponse, error)
	GetTeam(ctx context.Context, id uint) (*entities.TeamResponse, error)
	ListTeams(ctx context.Context, query entities.TeamListQuery) ([]*entities.TeamResponse, utils.PaginationMeta, error)
	CheckNameAvailability(ctx context.Context, name string, excludeID uint) (*entities.NameAvailability, error)
	GetStats(ctx context.Context) (*entities.TeamStats, error)
}

type TeamHandler struct {
	service teamService
}

func NewTeamHandler(service *usecases.TeamUsecase) *TeamHandler {
	return &TeamHandler{service: service}
}

// ListTeams returns a filtered page of teams.
// GET /api/v1/teams?page=1&limit=10&search=&status=&teamType=
func (h *TeamHandler) ListTeams(c *gin.Context) {
	var query entities.TeamListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, domainerrors.Validation("page and limit must be numbers"))
		return
	}

	items, meta, err := h.service.ListTeams(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Paginated(c, items, meta)
}

// GetStats returns aggregate team counts.
// GET /api/v1/teams/stats
func (h *TeamHandler) GetStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", stats)
}

// CheckName reports whether a team name is free.
// GET /api/v1/teams/check-name?name=Halcones&excludeId=3
func (h *TeamHandler) CheckName(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		response.Error(c, domainerrors.Validation("name is required"))
		return
	}

	var excludeID uint
	if raw := c.Query("excludeId"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			response.Error(c, domainerrors.Validation("excludeId must be a positive integer"))
			return
		}
		excludeID = uint(id)
	}

	result, err := h.service.CheckNameAvailability(c.Request.Context(), name, excludeID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, result.Message, result)
}

// GetTeam returns one team with its coach and roster.
// GET /api/v1/teams/:id
func (h *TeamHandler) GetTeam(c *gin.Context) {
	id, ok := teamID(c)
	if !ok {
		return
	}
	team, err := h.service.GetTeam(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "", team)
}

// CreateTeam creates a team with its roster and optional coach.
// POST /api/v1/teams
func (h *TeamHandler) CreateTeam(c *gin.Context) {
	var input entities.CreateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	team, err := h.service.CreateTeam(c.Request.Context(), &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusCreated, "Team created successfully", team)
}

// UpdateTeam applies a partial update.
// PUT /api/v1/teams/:id
func (h *TeamHandler) UpdateTeam(c *gin.Context) {
	id, ok := teamID(c)
	if !ok {
		return
	}
	var input entities.UpdateTeamInput
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}

	team, err := h.service.UpdateTeam(c.Request.Context(), id, &input)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Team updated successfully", team)
}

// DeleteTeam soft-deletes a team.
// DELETE /api/v1/teams/:id
func (h *TeamHandler) DeleteTeam(c *gin.Context) {
	id, ok := teamID(c)
	if !ok {
		return
	}
	if err := h.service.DeleteTeam(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Team deleted successfully", nil)
}

// ChangeStatus switches a team between Active and Inactive.
// PATCH /api/v1/teams/:id/status
func (h *TeamHandler) ChangeStatus(c *gin.Context) {
	id, ok := teamID(c)
	if !ok {
		return
	}
	// estado is accepted for clients posting the team's own field name
	var input struct {
		Status string `json:"status" binding:"omitempty,teamstatus"`
		Estado string `json:"estado" binding:"omitempty,teamstatus"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		response.Error(c, bindingError(err))
		return
	}
	status := input.Status
	if status == "" {
		status = input.Estado
	}
	if status == "" {
		response.Error(c, domainerrors.Validation("status is required"))
		return
	}

	team, err := h.service.ChangeStatus(c.Request.Context(), id, status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, http.StatusOK, "Team status updated successfully", team)
}

func teamID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, domainerrors.Validation("team id must be a positive integer"))
		return 0, false
	}
	return uint(id), true
}
