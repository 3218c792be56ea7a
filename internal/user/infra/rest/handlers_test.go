package rest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/pagination"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	"github.com/cristianortiz/bidmarket/internal/user/application"
	"github.com/cristianortiz/bidmarket/internal/user/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	actor    identity.Actor
	find     application.FindUsersDTO
	password application.UpdatePasswordDTO
	warning  application.CreateWarningDTO
	targetID uuid.UUID
	err      error
}

func (f *fakeService) status(id uuid.UUID) *application.WarningStatusDTO {
	return &application.WarningStatusDTO{UserID: id, Warnings: []application.WarningDTO{}}
}

func (f *fakeService) FindUsers(_ context.Context, in application.FindUsersDTO) (*application.UsersPageDTO, error) {
	f.find = in
	return &application.UsersPageDTO{Users: []application.UserDTO{}, Meta: pagination.NewMeta(0, 0, in.Page)}, f.err
}

func (f *fakeService) UpdatePassword(_ context.Context, actor identity.Actor, in application.UpdatePasswordDTO) error {
	f.actor, f.password = actor, in
	return f.err
}

func (f *fakeService) CreateWarning(_ context.Context, admin identity.Actor, in application.CreateWarningDTO) (*application.WarningStatusDTO, error) {
	f.actor, f.warning = admin, in
	if f.err != nil {
		return nil, f.err
	}
	return f.status(in.UserID), nil
}

func (f *fakeService) GetUserWarnings(_ context.Context, userID uuid.UUID) (*application.WarningStatusDTO, error) {
	f.targetID = userID
	return f.status(userID), f.err
}

func (f *fakeService) RemoveWarning(_ context.Context, warningID uuid.UUID) (*application.WarningStatusDTO, error) {
	f.targetID = warningID
	if f.err != nil {
		return nil, f.err
	}
	return f.status(uuid.New()), nil
}

func (f *fakeService) BanUser(_ context.Context, userID uuid.UUID) (*application.BanStatusDTO, error) {
	f.targetID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &application.BanStatusDTO{UserID: userID, IsBanned: true}, nil
}

func (f *fakeService) UnbanUser(_ context.Context, userID uuid.UUID) (*application.BanStatusDTO, error) {
	f.targetID = userID
	if f.err != nil {
		return nil, f.err
	}
	return &application.BanStatusDTO{UserID: userID}, nil
}

type accounts map[uuid.UUID]identity.Actor

func (a accounts) LoadActor(_ context.Context, id uuid.UUID) (identity.Actor, error) {
	actor, ok := a[id]
	if !ok {
		return identity.Actor{}, apperror.New(http.StatusNotFound, "USER_NOT_EXIST", "User does not exist")
	}
	return actor, nil
}

type harness struct {
	app     *fiber.App
	service *fakeService
	tokens  map[identity.Role]string
	users   map[identity.Role]identity.Actor
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	jwtSvc := security.NewJWTService("access", "refresh", time.Minute, time.Hour)
	h := &harness{service: &fakeService{}, tokens: map[identity.Role]string{}, users: map[identity.Role]identity.Actor{}}

	known := accounts{}
	for _, role := range []identity.Role{identity.RoleAdmin, identity.RoleSeller, identity.RoleBidder} {
		actor := identity.Actor{UserID: uuid.New(), Email: strings.ToLower(string(role)) + "@bid.market", Role: role, IsVerified: true}
		known[actor.UserID] = actor
		pair, err := jwtSvc.GenerateTokens(actor)
		require.NoError(t, err)
		h.tokens[role] = pair.AccessToken
		h.users[role] = actor
	}

	h.app = httpserver.NewServer(httpserver.Options{}).App()
	NewUserHandler(h.service, httpserver.NewAuthenticator(jwtSvc, known)).RegisterRoutes(h.app)
	return h
}

func (h *harness) do(t *testing.T, method, target string, role identity.Role, body string) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if role != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+h.tokens[role])
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

func TestFindUsersHandler(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodGet, "/users?email=bid&role=SELLER&isBanned=false&createdAfter=2026-01-01T00:00:00Z&limit=20", identity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Users retrieved successfully", body["message"])
	data := body["data"].(map[string]any)
	assert.Equal(t, []any{}, data["users"])
	assert.Equal(t, float64(20), data["meta"].(map[string]any)["itemsPerPage"])

	in := h.service.find
	assert.Equal(t, "bid", in.Email)
	require.NotNil(t, in.Role)
	assert.Equal(t, identity.RoleSeller, *in.Role)
	require.NotNil(t, in.IsBanned)
	assert.False(t, *in.IsBanned)
	assert.Nil(t, in.IsVerified)
	require.NotNil(t, in.CreatedAfter)
	assert.Equal(t, 20, in.Page.Limit)

	resp, _ = h.do(t, http.MethodGet, "/users", identity.RoleSeller, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	for _, target := range []string{"/users?role=OWNER", "/users?isBanned=maybe", "/users?createdBefore=today"} {
		resp, body = h.do(t, http.MethodGet, target, identity.RoleAdmin, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, target)
		assert.Equal(t, "CLASS_VALIDATION_FAILED", body["errorCode"], target)
	}
}

func TestUpdatePasswordHandler(t *testing.T) {
	h := newHarness(t)

	resp, body := h.do(t, http.MethodPatch, "/users/password", identity.RoleBidder, `{"newPassword":"secret1","confirmNewPassword":"secret1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Update password successfully", body["message"])
	assert.Equal(t, h.users[identity.RoleBidder].UserID, h.service.actor.UserID)
	assert.Equal(t, "secret1", h.service.password.NewPassword)

	resp, body = h.do(t, http.MethodPatch, "/users/password", identity.RoleBidder, `{"newPassword":"short","confirmNewPassword":"short"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CLASS_VALIDATION_FAILED", body["errorCode"])

	h.service.err = domain.ErrPasswordConfirmMismatch
	resp, body = h.do(t, http.MethodPatch, "/users/password", identity.RoleBidder, `{"newPassword":"secret1","confirmNewPassword":"secret2"}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "PASSWORD_CONFIRM_MISMATCH", body["errorCode"])

	resp, _ = h.do(t, http.MethodPatch, "/users/password", "", `{}`)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestWarningRoutes(t *testing.T) {
	h := newHarness(t)
	target := uuid.New()

	resp, body := h.do(t, http.MethodPost, "/users/"+target.String()+"/warnings", identity.RoleAdmin, `{"reason":"spam","description":"three listings"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Warning created successfully", body["message"])
	assert.Equal(t, target, h.service.warning.UserID)
	assert.Equal(t, "spam", h.service.warning.Reason)
	require.NotNil(t, h.service.warning.Description)
	assert.Equal(t, h.users[identity.RoleAdmin].UserID, h.service.actor.UserID)

	resp, _ = h.do(t, http.MethodPost, "/users/"+target.String()+"/warnings", identity.RoleAdmin, `{}`)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = h.do(t, http.MethodGet, "/users/"+target.String()+"/warnings", identity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User warnings retrieved successfully", body["message"])
	assert.Equal(t, target, h.service.targetID)

	warningID := uuid.New()
	resp, body = h.do(t, http.MethodDelete, "/users/warnings/"+warningID.String(), identity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Warning removed successfully", body["message"])
	assert.Equal(t, warningID, h.service.targetID)

	h.service.err = domain.ErrUserAlreadyBanned
	resp, body = h.do(t, http.MethodPost, "/users/"+target.String()+"/warnings", identity.RoleAdmin, `{"reason":"spam"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "USER_ALREADY_BANNED", body["errorCode"])
}

func TestBanRoutes(t *testing.T) {
	h := newHarness(t)
	target := uuid.New()

	resp, body := h.do(t, http.MethodPatch, "/users/"+target.String()+"/ban", identity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User banned successfully", body["message"])
	assert.Equal(t, true, body["data"].(map[string]any)["isBanned"])

	resp, body = h.do(t, http.MethodPatch, "/users/"+target.String()+"/unban", identity.RoleAdmin, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "User unbanned successfully", body["message"])

	resp, _ = h.do(t, http.MethodPatch, "/users/"+target.String()+"/ban", identity.RoleSeller, "")
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	h.service.err = domain.ErrUserNotBanned
	resp, body = h.do(t, http.MethodPatch, "/users/"+target.String()+"/unban", identity.RoleAdmin, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "USER_NOT_BANNED", body["errorCode"])
}
