package http_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rental_showcase/internal/domain/models"
	"rental_showcase/internal/lib/logger"
	mediaservice "rental_showcase/internal/services/media_service"
	"rental_showcase/internal/storage"
	filestorage "rental_showcase/internal/storage/filestorage"
	httprouters "rental_showcase/internal/transport/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const validToken = "valid-access-token"

type RoutersSuite struct {
	suite.Suite
	e          *echo.Echo
	users      *MockUserService
	auth       *MockAuthService
	media      *MockMediaService
	uploads    *MockUploadService
	properties *MockPropertyService
	units      *MockUnitService
	analytics  *MockAnalyticsService
	userID     uuid.UUID
}

func TestRoutersSuite(t *testing.T) {
	suite.Run(t, new(RoutersSuite))
}

func (s *RoutersSuite) SetupTest() {
	s.users = new(MockUserService)
	s.auth = new(MockAuthService)
	s.media = new(MockMediaService)
	s.uploads = new(MockUploadService)
	s.properties = new(MockPropertyService)
	s.units = new(MockUnitService)
	s.analytics = new(MockAnalyticsService)
	s.userID = uuid.New()

	s.auth.On("ValidateAccessToken", validToken).Return(s.userID, nil).Maybe()
	s.auth.On("ValidateAccessToken", mock.Anything).Return(uuid.Nil, errors.New("bad token")).Maybe()
	s.users.On("IsAdmin", mock.Anything, s.userID).Return(true, nil).Maybe()

	r := httprouters.NewRouter(logger.Discard(), s.users, s.auth, s.media, s.uploads, s.properties, s.units, s.analytics)

	e := echo.New()
	e.Validator = httprouters.NewValidator()
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-session-secret"))))
	e.Use(r.Authenticate)

	e.GET("/objects/:id", r.ServeObject)
	e.GET("/api/v1/placeholder/:width/:height", r.Placeholder)

	api := e.Group("/api/v1")
	api.POST("/auth/login", r.Login)
	api.GET("/hero/images", r.ListImages)
	api.GET("/properties/:id/images", r.ListImages)
	api.PUT("/properties/:id/images", r.ReplaceImages, r.RequireAdmin)
	api.PATCH("/properties/:id/images/reorder", r.ReorderImages, r.RequireAdmin)
	api.PATCH("/properties/:id/units/:unit_id/images/reorder", r.ReorderImages, r.RequireAdmin)
	api.POST("/objects/complete", r.CompleteUploads, r.RequireAuth)
	api.GET("/compare", r.GetComparison)
	api.POST("/compare/:id", r.AddToComparison)
	api.GET("/analytics/views", r.ViewStats, r.RequireAdmin)

	s.e = e
}

func (s *RoutersSuite) do(method, target string, body interface{}, authed bool, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		s.Require().NoError(err)
		reader = strings.NewReader(string(raw))
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if authed {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+validToken)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}

	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func storedItems(parentID uuid.UUID, n int) []models.MediaItem {
	out := make([]models.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.MediaItem{
			ID:           uuid.New(),
			ParentID:     parentID,
			URL:          fmt.Sprintf("/objects/%d", i),
			IsPrimary:    i == 0,
			DisplayOrder: i,
		})
	}
	return out
}

func (s *RoutersSuite) TestReorderSuccessReturnsStoredOrder() {
	propertyID := uuid.New()
	current := storedItems(propertyID, 3)
	order := []uuid.UUID{current[2].ID, current[0].ID, current[1].ID}
	reordered := []models.MediaItem{current[2], current[0], current[1]}

	s.media.On("Reorder", mock.Anything, models.PropertyParent(propertyID), order).Return(reordered, nil).Once()

	rec := s.do(http.MethodPatch, "/api/v1/properties/"+propertyID.String()+"/images/reorder",
		map[string]interface{}{"image_ids": order}, true)

	s.Equal(http.StatusOK, rec.Code)
	data := decode(s.T(), rec)["data"].([]interface{})
	s.Require().Len(data, 3)
	s.Equal(current[2].ID.String(), data[0].(map[string]interface{})["id"])
}

func (s *RoutersSuite) TestReorderFailureCarriesStoredOrder() {
	propertyID := uuid.New()
	current := storedItems(propertyID, 2)
	foreign := uuid.New()

	s.media.On("Reorder", mock.Anything, models.PropertyParent(propertyID), mock.Anything).
		Return(nil, &mediaservice.ReorderError{
			Err:     fmt.Errorf("media_service.Reorder: %w", storage.ErrNotFound),
			Current: current,
		}).Once()

	rec := s.do(http.MethodPatch, "/api/v1/properties/"+propertyID.String()+"/images/reorder",
		map[string]interface{}{"image_ids": []uuid.UUID{current[1].ID, foreign}}, true)

	s.Equal(http.StatusNotFound, rec.Code)

	body := decode(s.T(), rec)
	s.Equal("not_found", body["error"])

	images := body["images"].([]interface{})
	s.Require().Len(images, 2)
	// порядок из хранилища, а не присланный клиентом
	s.Equal(current[0].ID.String(), images[0].(map[string]interface{})["id"])
	s.Equal(current[1].ID.String(), images[1].(map[string]interface{})["id"])
}

func (s *RoutersSuite) TestReorderFailureWithoutFreshRead() {
	propertyID := uuid.New()
	unitID := uuid.New()

	s.units.On("CheckUnit", mock.Anything, propertyID, unitID).Return(nil).Once()
	s.media.On("Reorder", mock.Anything, models.UnitParent(unitID), mock.Anything).
		Return(nil, &mediaservice.ReorderError{Err: storage.ErrUnavailable}).Once()

	rec := s.do(http.MethodPatch,
		"/api/v1/properties/"+propertyID.String()+"/units/"+unitID.String()+"/images/reorder",
		map[string]interface{}{"image_ids": []uuid.UUID{uuid.New()}}, true)

	s.Equal(http.StatusServiceUnavailable, rec.Code)
	_, hasImages := decode(s.T(), rec)["images"]
	s.False(hasImages)
}

func (s *RoutersSuite) TestUnitImagesOfAnotherPropertyAreNotFound() {
	otherProperty := uuid.New()
	unitID := uuid.New()

	s.units.On("CheckUnit", mock.Anything, otherProperty, unitID).
		Return(fmt.Errorf("unit_service.CheckUnit: %w", storage.ErrNotFound)).Once()

	rec := s.do(http.MethodPatch,
		"/api/v1/properties/"+otherProperty.String()+"/units/"+unitID.String()+"/images/reorder",
		map[string]interface{}{"image_ids": []uuid.UUID{uuid.New()}}, true)

	s.Equal(http.StatusNotFound, rec.Code)
	s.media.AssertNotCalled(s.T(), "Reorder", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RoutersSuite) TestWritesRequireAuthentication() {
	rec := s.do(http.MethodPatch, "/api/v1/properties/"+uuid.NewString()+"/images/reorder",
		map[string]interface{}{"image_ids": []uuid.UUID{uuid.New()}}, false)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.media.AssertNotCalled(s.T(), "Reorder", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RoutersSuite) TestNonAdminIsForbidden() {
	other := uuid.New()
	s.auth.ExpectedCalls = nil
	s.auth.On("ValidateAccessToken", validToken).Return(other, nil)
	s.users.On("IsAdmin", mock.Anything, other).Return(false, nil)

	rec := s.do(http.MethodGet, "/api/v1/analytics/views", nil, true)

	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *RoutersSuite) TestReplaceImagesReportsFieldErrors() {
	propertyID := uuid.New()

	rec := s.do(http.MethodPut, "/api/v1/properties/"+propertyID.String()+"/images",
		map[string]interface{}{"images": []map[string]interface{}{{"caption": "no url"}}}, true)

	s.Equal(http.StatusBadRequest, rec.Code)
	fields := decode(s.T(), rec)["fields"].(map[string]interface{})
	s.Contains(fields, "images[0].image_url")
	s.media.AssertNotCalled(s.T(), "ReplaceAll", mock.Anything, mock.Anything, mock.Anything)
}

func (s *RoutersSuite) TestReplaceImagesServiceValidation() {
	propertyID := uuid.New()
	verr := models.NewValidationError("images[1].is_primary", "only one image can be primary")

	s.media.On("ReplaceAll", mock.Anything, models.PropertyParent(propertyID), mock.Anything).
		Return(nil, fmt.Errorf("media_service.ReplaceAll: %w", verr)).Once()

	rec := s.do(http.MethodPut, "/api/v1/properties/"+propertyID.String()+"/images",
		map[string]interface{}{"images": []map[string]interface{}{
			{"image_url": "/objects/a", "is_primary": true},
			{"image_url": "/objects/b", "is_primary": true},
		}}, true)

	s.Equal(http.StatusBadRequest, rec.Code)
	fields := decode(s.T(), rec)["fields"].(map[string]interface{})
	s.Equal("only one image can be primary", fields["images[1].is_primary"])
}

func (s *RoutersSuite) TestHeroImagesArePublic() {
	hero := storedItems(uuid.Nil, 1)
	s.media.On("List", mock.Anything, models.HeroParent()).Return(hero, nil).Once()

	rec := s.do(http.MethodGet, "/api/v1/hero/images", nil, false)

	s.Equal(http.StatusOK, rec.Code)
	s.media.AssertExpectations(s.T())
}

func (s *RoutersSuite) TestInvalidParentIDIsRejected() {
	rec := s.do(http.MethodGet, "/api/v1/properties/not-a-uuid/images", nil, false)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(decode(s.T(), rec)["fields"], "id")
}

func (s *RoutersSuite) TestCompleteUploadsPartialFailure() {
	urls := []string{"http://localhost:8080/api/v1/blob/a", "http://localhost:8080/api/v1/blob/b"}

	s.uploads.On("CompleteBatch", mock.Anything, s.userID, urls).Return([]models.UploadOutcome{
		{URL: urls[0], ObjectPath: "/objects/a"},
		{URL: urls[1], Err: storage.ErrObjectNotFound},
	}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/objects/complete", map[string]interface{}{"urls": urls}, true)

	s.Equal(http.StatusMultiStatus, rec.Code)

	body := decode(s.T(), rec)
	s.Equal("partial", body["status"])
	outcomes := body["outcomes"].([]interface{})
	s.Require().Len(outcomes, 2)
	s.Equal("/objects/a", outcomes[0].(map[string]interface{})["object_path"])
	s.NotEmpty(outcomes[1].(map[string]interface{})["error"])
}

func (s *RoutersSuite) TestCompleteUploadsAllSucceeded() {
	urls := []string{"/objects/a"}
	s.uploads.On("CompleteBatch", mock.Anything, s.userID, urls).
		Return([]models.UploadOutcome{{URL: urls[0], ObjectPath: urls[0]}}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/objects/complete", map[string]interface{}{"urls": urls}, true)

	s.Equal(http.StatusOK, rec.Code)
}

func (s *RoutersSuite) TestServeObjectRespectsACL() {
	objectID := uuid.New()
	s.uploads.On("OpenObject", mock.Anything, objectID, uuid.Nil).
		Return(nil, filestorage.ObjectInfo{}, fmt.Errorf("upload_service.OpenObject: %w", models.ErrUnauthorized)).Once()

	rec := s.do(http.MethodGet, "/objects/"+objectID.String(), nil, false)

	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *RoutersSuite) TestServeObjectStreamsContent() {
	objectID := uuid.New()
	content := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 32)

	s.uploads.On("OpenObject", mock.Anything, objectID, s.userID).
		Return(io.NopCloser(strings.NewReader(content)), filestorage.ObjectInfo{ID: objectID, Size: int64(len(content))}, nil).Once()

	rec := s.do(http.MethodGet, "/objects/"+objectID.String(), nil, true)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("image/png", rec.Header().Get(echo.HeaderContentType))
	s.Equal("private, no-store", rec.Header().Get("Cache-Control"))
	s.Equal(content, rec.Body.String())
}

func (s *RoutersSuite) TestServePublicObjectIsCacheable() {
	objectID := uuid.New()
	content := "\x89PNG\r\n\x1a\n" + strings.Repeat("x", 32)

	s.uploads.On("OpenObject", mock.Anything, objectID, uuid.Nil).
		Return(io.NopCloser(strings.NewReader(content)), filestorage.ObjectInfo{ID: objectID, Size: int64(len(content)), Public: true}, nil).Once()

	rec := s.do(http.MethodGet, "/objects/"+objectID.String(), nil, false)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("public, max-age=31536000, immutable", rec.Header().Get("Cache-Control"))
}

func (s *RoutersSuite) TestPlaceholder() {
	rec := s.do(http.MethodGet, "/api/v1/placeholder/400/300", nil, false)

	s.Equal(http.StatusOK, rec.Code)
	s.Equal("image/svg+xml", rec.Header().Get(echo.HeaderContentType))
	s.Contains(rec.Body.String(), `width="400"`)

	rec = s.do(http.MethodGet, "/api/v1/placeholder/0/300", nil, false)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *RoutersSuite) TestComparisonIsLimited() {
	s.properties.On("GetProperty", mock.Anything, mock.Anything).Return(models.Property{}, nil)

	var cookies []*http.Cookie
	for i := 0; i < models.MaxCompare; i++ {
		rec := s.do(http.MethodPost, "/api/v1/compare/"+uuid.NewString(), nil, false, cookies...)
		s.Require().Equal(http.StatusOK, rec.Code)
		cookies = rec.Result().Cookies()
	}

	rec := s.do(http.MethodPost, "/api/v1/compare/"+uuid.NewString(), nil, false, cookies...)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(decode(s.T(), rec)["fields"], "compare")
}

func (s *RoutersSuite) TestComparisonShowsRepresentativeImages() {
	propertyID := uuid.New()
	s.properties.On("GetProperty", mock.Anything, propertyID).Return(models.Property{ID: propertyID}, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/compare/"+propertyID.String(), nil, false)
	s.Require().Equal(http.StatusOK, rec.Code)

	images := storedItems(propertyID, 2)
	images[0].IsPrimary, images[1].IsPrimary = false, true
	s.properties.On("Compare", mock.Anything, []uuid.UUID{propertyID}).
		Return([]models.Property{{ID: propertyID, Images: images}}, nil).Once()

	rec = s.do(http.MethodGet, "/api/v1/compare", nil, false, rec.Result().Cookies()...)

	s.Equal(http.StatusOK, rec.Code)
	cards := decode(s.T(), rec)["data"].([]interface{})
	s.Require().Len(cards, 1)
	image := cards[0].(map[string]interface{})["image"].(map[string]interface{})
	s.Equal(images[1].ID.String(), image["id"])
}

func (s *RoutersSuite) TestLoginSetsSession() {
	user := models.User{ID: s.userID, Email: "owner@example.com"}
	tokens := &models.TokenPair{UserID: s.userID, AccessToken: "a", RefreshToken: "r"}

	s.users.On("Login", mock.Anything, "owner@example.com", "secret-password").Return(user, tokens, nil).Once()

	rec := s.do(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "owner@example.com", "password": "secret-password"}, false)

	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Result().Cookies(), "session cookie is set")
	data := decode(s.T(), rec)["data"].(map[string]interface{})
	s.Equal("a", data["access_token"])
}

func (s *RoutersSuite) TestLoginWrongPassword() {
	s.users.On("Login", mock.Anything, "owner@example.com", "wrong-password").
		Return(models.User{}, nil, fmt.Errorf("user_service.Login: %w", models.ErrUnauthorized)).Once()

	rec := s.do(http.MethodPost, "/api/v1/auth/login",
		map[string]string{"email": "owner@example.com", "password": "wrong-password"}, false)

	s.Equal(http.StatusUnauthorized, rec.Code)
	s.Equal("authentication_failed", decode(s.T(), rec)["error"])
}

func (s *RoutersSuite) TestViewStatsRejectsBadPeriod() {
	rec := s.do(http.MethodGet, "/api/v1/analytics/views?days=0", nil, true)

	s.Equal(http.StatusBadRequest, rec.Code)
	s.analytics.AssertNotCalled(s.T(), "ViewStats", mock.Anything, mock.Anything)
}
