package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/helljxnn/astrostar-backend-sub000/internal/domain/entities"
	domainerrors "github.com/helljxnn/astrostar-backend-sub000/internal/domain/errors"
	"github.com/helljxnn/astrostar-backend-sub000/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registerOnce sync.Once

type teamServiceStub struct {
	created   *entities.CreateTeamInput
	updated   *entities.UpdateTeamInput
	updatedID uint
	deletedID uint
	status    string
	listQuery entities.TeamListQuery
	checkName string
	checkID   uint
	err       error
	team      *entities.TeamResponse
	teams     []*entities.TeamResponse
	meta      utils.PaginationMeta
	stats     *entities.TeamStats
	available *entities.NameAvailability
}

func (s *teamServiceStub) CreateTeam(_ context.Context, input *entities.CreateTeamInput) (*entities.TeamResponse, error) {
	s.created = input
	return s.team, s.err
}

func (s *teamServiceStub) UpdateTeam(_ context.Context, id uint, input *entities.UpdateTeamInput) (*entities.TeamResponse, error) {
	s.updatedID, s.updated = id, input
	return s.team, s.err
}

func (s *teamServiceStub) DeleteTeam(_ context.Context, id uint) error {
	s.deletedID = id
	return s.err
}

func (s *teamServiceStub) ChangeStatus(_ context.Context, id uint, rawStatus string) (*entities.TeamResponse, error) {
	s.updatedID, s.status = id, rawStatus
	return s.team, s.err
}

func (s *teamServiceStub) GetTeam(_ context.Context, id uint) (*entities.TeamResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.team, nil
}

func (s *teamServiceStub) ListTeams(_ context.Context, query entities.TeamListQuery) ([]*entities.TeamResponse, utils.PaginationMeta, error) {
	s.listQuery = query
	return s.teams, s.meta, s.err
}

func (s *teamServiceStub) CheckNameAvailability(_ context.Context, name string, excludeID uint) (*entities.NameAvailability, error) {
	s.checkName, s.checkID = name, excludeID
	return s.available, s.err
}

func (s *teamServiceStub) GetStats(context.Context) (*entities.TeamStats, error) {
	return s.stats, s.err
}

func newTeamRouter(t *testing.T, svc teamService) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		require.True(t, ok)
		require.NoError(t, RegisterValidators(v))
	})

	h := &TeamHandler{service: svc}
	r := gin.New()
	g := r.Group("/api/v1/teams")
	g.GET("", h.ListTeams)
	g.GET("/stats", h.GetStats)
	g.GET("/check-name", h.CheckName)
	g.GET("/:id", h.GetTeam)
	g.POST("", h.CreateTeam)
	g.PUT("/:id", h.UpdateTeam)
	g.DELETE("/:id", h.DeleteTeam)
	g.PATCH("/:id/status", h.ChangeStatus)
	return r
}

func do(r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == "" {
		reader = bytes.NewReader(nil)
	} else {
		reader = bytes.NewReader([]byte(body))
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func TestTeamHandler_CreateTeam(t *testing.T) {
	svc := &teamServiceStub{team: &entities.TeamResponse{ID: 1, Name: "Tigres", Kind: entities.TeamKindTemporary}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodPost, "/api/v1/teams", `{
		"nombre": "Tigres",
		"teamType": "Temporal",
		"deportistasIds": [101, "102", {"id": 7, "type": "temporal"}],
		"entrenadorData": {"id": 9, "type": "temporal"},
		"categoria": "Sub-15"
	}`)

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.Contains(t, string(env.Data), `"nombre":"Tigres"`)

	require.NotNil(t, svc.created)
	assert.Equal(t, "Tigres", svc.created.Name)
	assert.Len(t, svc.created.MemberIDs, 3)
	assert.Equal(t, uint(102), svc.created.MemberIDs[1].ID)
	assert.Equal(t, "temporal", svc.created.MemberIDs[2].Type)
	require.NotNil(t, svc.created.Coach)
	assert.Equal(t, uint(9), svc.created.Coach.ID)
}

func TestTeamHandler_CreateTeamBindingErrors(t *testing.T) {
	cases := []struct {
		name    string
		body    string
		message string
	}{
		{"missing name", `{"teamType":"Fundacion","deportistasIds":[1]}`, "nombre is required"},
		{"short name", `{"nombre":"A","teamType":"Fundacion","deportistasIds":[1]}`, "nombre must be at least 2 characters"},
		{"unknown kind", `{"nombre":"Halcones","teamType":"Mixto","deportistasIds":[1]}`, "teamType must be Fundacion or Temporal"},
		{"unknown status", `{"nombre":"Halcones","teamType":"Fundacion","estado":"Paused","deportistasIds":[1]}`, "estado must be Active or Inactive"},
		{"bad member id", `{"nombre":"Halcones","teamType":"Fundacion","deportistasIds":["abc"]}`, "invalid member id"},
		{"wrong type", `{"nombre":5,"teamType":"Fundacion","deportistasIds":[1]}`, "nombre has an invalid type"},
		{"malformed", `{"nombre":`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &teamServiceStub{}
			r := newTeamRouter(t, svc)

			w := do(r, http.MethodPost, "/api/v1/teams", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			env := decodeEnvelope(t, w)
			assert.False(t, env.Success)
			assert.Equal(t, domainerrors.CodeValidation, env.Code)
			assert.Contains(t, env.Message, tc.message)
			assert.Nil(t, svc.created)
		})
	}
}

func TestTeamHandler_CreateTeamServiceErrors(t *testing.T) {
	body := `{"nombre":"Halcones","teamType":"Fundacion","deportistasIds":[]}`
	cases := []struct {
		err    error
		status int
	}{
		{domainerrors.Validation("the team must have at least one athlete"), http.StatusBadRequest},
		{domainerrors.DuplicateName(`The name "Halcones" is already used by another team`), http.StatusBadRequest},
		{domainerrors.Conflict(`temporary person Ana Ruiz (101) already belongs to the active team "Tigres"`), http.StatusBadRequest},
		{domainerrors.Persistence(assert.AnError), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		r := newTeamRouter(t, &teamServiceStub{err: tc.err})
		w := do(r, http.MethodPost, "/api/v1/teams", body)

		assert.Equal(t, tc.status, w.Code)
		env := decodeEnvelope(t, w)
		assert.False(t, env.Success)
		if tc.status == http.StatusBadRequest {
			assert.Equal(t, tc.err.Error(), env.Message)
		} else {
			assert.Equal(t, "internal server error", env.Message)
		}
	}
}

func TestTeamHandler_UpdateTeam(t *testing.T) {
	svc := &teamServiceStub{team: &entities.TeamResponse{ID: 4, Name: "Halcones"}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodPut, "/api/v1/teams/4", `{"nombre":"Halcones","telefono":"3001234567"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, uint(4), svc.updatedID)
	require.NotNil(t, svc.updated.Name)
	assert.Equal(t, "Halcones", *svc.updated.Name)
	assert.Nil(t, svc.updated.MemberIDs)
	assert.Nil(t, svc.updated.TeamType)
}

func TestTeamHandler_UpdateTeamNotFound(t *testing.T) {
	r := newTeamRouter(t, &teamServiceStub{err: domainerrors.NotFound("team 4 not found")})

	w := do(r, http.MethodPut, "/api/v1/teams/4", `{"nombre":"Halcones"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "team 4 not found", decodeEnvelope(t, w).Message)
}

func TestTeamHandler_InvalidID(t *testing.T) {
	r := newTeamRouter(t, &teamServiceStub{})
	for _, path := range []string{"/api/v1/teams/abc", "/api/v1/teams/0", "/api/v1/teams/-3"} {
		w := do(r, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, w.Code, path)
	}
	w := do(r, http.MethodDelete, "/api/v1/teams/x", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandler_DeleteTeam(t *testing.T) {
	svc := &teamServiceStub{}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodDelete, "/api/v1/teams/12", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(12), svc.deletedID)

	svc.err = domainerrors.NotFound("team 12 not found")
	w = do(r, http.MethodDelete, "/api/v1/teams/12", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_ChangeStatus(t *testing.T) {
	svc := &teamServiceStub{team: &entities.TeamResponse{ID: 3, Status: entities.TeamStatusInactive}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodPatch, "/api/v1/teams/3/status", `{"status":"Inactive"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Inactive", svc.status)

	w = do(r, http.MethodPatch, "/api/v1/teams/3/status", `{"estado":"Active"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "Active", svc.status)

	w = do(r, http.MethodPatch, "/api/v1/teams/3/status", `{"status":"Archived"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Message, "status must be Active or Inactive")

	w = do(r, http.MethodPatch, "/api/v1/teams/3/status", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decodeEnvelope(t, w).Message, "status is required")
}

func TestTeamHandler_GetTeam(t *testing.T) {
	svc := &teamServiceStub{team: &entities.TeamResponse{
		ID:     5,
		Name:   "Halcones",
		Coach:  &entities.PersonSummary{ID: 3, Name: "Carlos Gómez", Kind: entities.PersonKindEmployee},
		Roster: []*entities.PersonSummary{{ID: 1, Name: "Ana Ruiz", Kind: entities.PersonKindAthlete}},
	}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodGet, "/api/v1/teams/5", "")
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.Contains(t, string(env.Data), `"Carlos Gómez"`)
	assert.Contains(t, string(env.Data), `"Ana Ruiz"`)

	svc.err = domainerrors.NotFound("team 5 not found")
	w = do(r, http.MethodGet, "/api/v1/teams/5", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestTeamHandler_ListTeams(t *testing.T) {
	svc := &teamServiceStub{
		teams: []*entities.TeamResponse{{ID: 1, Name: "Halcones"}},
		meta:  utils.GetPaginationParams(2, 10).Meta(11),
	}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodGet, "/api/v1/teams?page=2&limit=10&search=hal&status=Active&teamType=Fundacion", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, entities.TeamListQuery{Search: "hal", Status: "Active", TeamType: "Fundacion", Page: 2, Limit: 10}, svc.listQuery)

	env := decodeEnvelope(t, w)
	assert.Contains(t, string(env.Meta), `"totalPages":2`)
	assert.Contains(t, string(env.Data), `"Halcones"`)

	w = do(r, http.MethodGet, "/api/v1/teams?page=two", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandler_CheckName(t *testing.T) {
	svc := &teamServiceStub{available: &entities.NameAvailability{Available: true, Message: "Name is available"}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodGet, "/api/v1/teams/check-name?name=Halcones&excludeId=7", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Halcones", svc.checkName)
	assert.Equal(t, uint(7), svc.checkID)
	assert.Contains(t, w.Body.String(), `"available":true`)

	w = do(r, http.MethodGet, "/api/v1/teams/check-name", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(r, http.MethodGet, "/api/v1/teams/check-name?name=X&excludeId=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTeamHandler_GetStats(t *testing.T) {
	svc := &teamServiceStub{stats: &entities.TeamStats{Total: 4, Active: 2}}
	r := newTeamRouter(t, svc)

	w := do(r, http.MethodGet, "/api/v1/teams/stats", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"success":true`)

	svc.err = domainerrors.Persistence(assert.AnError)
	w = do(r, http.MethodGet, "/api/v1/teams/stats", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
