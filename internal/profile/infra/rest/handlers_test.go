package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/cristianortiz/bidmarket/internal/profile/application"
	"github.com/cristianortiz/bidmarket/internal/profile/domain"
	"github.com/cristianortiz/bidmarket/internal/shared/apperror"
	"github.com/cristianortiz/bidmarket/internal/shared/httpserver"
	"github.com/cristianortiz/bidmarket/internal/shared/identity"
	"github.com/cristianortiz/bidmarket/internal/shared/security"
	"github.com/cristianortiz/bidmarket/internal/shared/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeService struct {
	viewer     identity.Actor
	in         application.UpdateProfileDTO
	avatarName string
	avatarBody string
	err        error
}

func (f *fakeService) GetProfile(_ context.Context, viewer identity.Actor, userID uuid.UUID) (*application.ProfileDTO, error) {
	f.viewer = viewer
	if f.err != nil {
		return nil, f.err
	}
	return &application.ProfileDTO{UserID: userID, IsFollowed: !viewer.Anonymous()}, nil
}

func (f *fakeService) UpdateProfile(_ context.Context, actor identity.Actor, in application.UpdateProfileDTO, avatar *storage.File) (*application.UpdatedProfileDTO, error) {
	f.viewer, f.in = actor, in
	f.avatarName, f.avatarBody = "", ""
	if avatar != nil {
		raw, err := io.ReadAll(avatar.Content)
		if err != nil {
			return nil, err
		}
		f.avatarName, f.avatarBody = avatar.Name, string(raw)
	}
	return &application.UpdatedProfileDTO{FullName: in.FullName, PhoneNumber: in.PhoneNumber}, f.err
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
	user    identity.Actor
	token   string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	jwtSvc := security.NewJWTService("access", "refresh", time.Minute, time.Hour)
	user := identity.Actor{UserID: uuid.New(), Role: identity.RoleBidder, IsVerified: true}
	pair, err := jwtSvc.GenerateTokens(user)
	require.NoError(t, err)

	h := &harness{service: &fakeService{}, user: user, token: pair.AccessToken}
	h.app = httpserver.NewServer(httpserver.Options{}).App()
	NewProfileHandler(h.service, httpserver.NewAuthenticator(jwtSvc, accounts{user.UserID: user})).RegisterRoutes(h.app)
	return h
}

func (h *harness) send(t *testing.T, req *http.Request, authed bool) (*http.Response, map[string]any) {
	t.Helper()
	if authed {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+h.token)
	}
	resp, err := h.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var out map[string]any
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return resp, out
}

func form(t *testing.T, values map[string]string, avatars ...string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	for k, v := range values {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range avatars {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="avatar"; filename="`+name+`"`)
		header.Set("Content-Type", "image/png")
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write([]byte("png-bytes"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf, w.FormDataContentType()
}

func TestGetProfileHandler(t *testing.T) {
	h := newHarness(t)
	target := uuid.New()

	resp, body := h.send(t, httptest.NewRequest(http.MethodGet, "/profile/"+target.String(), nil), false)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Get profile successfully", body["message"])
	assert.Equal(t, false, body["data"].(map[string]any)["isFollowed"])
	assert.True(t, h.service.viewer.Anonymous())

	resp, body = h.send(t, httptest.NewRequest(http.MethodGet, "/profile/"+target.String(), nil), true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["isFollowed"])
	assert.Equal(t, h.user.UserID, h.service.viewer.UserID)

	h.service.err = domain.ErrProfileNotFound
	resp, body = h.send(t, httptest.NewRequest(http.MethodGet, "/profile/"+target.String(), nil), false)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "PROFILE_NOT_FOUND", body["errorCode"])
}

func TestUpdateProfileHandler(t *testing.T) {
	h := newHarness(t)

	buf, contentType := form(t, map[string]string{"fullName": " Bo Bidder ", "phoneNumber": ""}, "me.png")
	req := httptest.NewRequest(http.MethodPut, "/profile", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, body := h.send(t, req, true)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Profile updated successfully", body["message"])
	require.NotNil(t, h.service.in.FullName)
	assert.Equal(t, "Bo Bidder", *h.service.in.FullName)
	assert.Nil(t, h.service.in.PhoneNumber)
	assert.Equal(t, "me.png", h.service.avatarName)
	assert.Equal(t, "png-bytes", h.service.avatarBody)

	buf, contentType = form(t, map[string]string{"phoneNumber": "555-0101"})
	req = httptest.NewRequest(http.MethodPut, "/profile", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, _ = h.send(t, req, true)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, h.service.avatarName)

	buf, contentType = form(t, nil, "a.png", "b.png")
	req = httptest.NewRequest(http.MethodPut, "/profile", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, body = h.send(t, req, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "CLASS_VALIDATION_FAILED", body["errorCode"])

	buf, contentType = form(t, map[string]string{"phoneNumber": "1234567890123456789012"})
	req = httptest.NewRequest(http.MethodPut, "/profile", buf)
	req.Header.Set(fiber.HeaderContentType, contentType)
	resp, _ = h.send(t, req, true)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = h.send(t, httptest.NewRequest(http.MethodPut, "/profile", nil), false)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
