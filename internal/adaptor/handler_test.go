package adaptor

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/middleware"
	"appmarket/pkg/storage"
	"appmarket/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testResponder() *utils.ErrorResponder {
	return utils.NewErrorResponder(zap.NewNop(), false)
}

type envelope struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Results *int            `json:"results"`
	Data    json.RawMessage `json:"data"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return body
}

func withUser(req *http.Request, id uuid.UUID, role string) *http.Request {
	return req.WithContext(utils.SetUserContext(req.Context(), id, role))
}

func TestSignUp_SetsCookieAndToken(t *testing.T) {
	svc := new(AuthServiceMock)
	config := &utils.Config{App: utils.AppConfig{Env: "production"}, JWT: utils.JWTConfig{CookieExpiryDays: 90}}
	h := NewAuthHandler(svc, testResponder(), config, zap.NewNop())

	auth := &response.AuthResponse{Token: "signed.jwt", User: response.UserResponse{ID: uuid.NewString(), Name: "Ada"}}
	svc.On("SignUp", mock.Anything, mock.MatchedBy(func(req *request.SignUpRequest) bool {
		return req.Email == "ada@example.com"
	})).Return(auth, nil)

	body := `{"name":"Ada","email":"ada@example.com","password":"pass1234","passwordConfirm":"pass1234","gender":"Female","birthday":"1990-03-01"}`
	rec := httptest.NewRecorder()
	h.SignUp(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/signup", strings.NewReader(body)))

	assert.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "success", env.Status)
	assert.Equal(t, "signed.jwt", env.Token)
	assert.Contains(t, string(env.Data), `"name":"Ada"`)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.TokenCookie, cookies[0].Name)
	assert.Equal(t, "signed.jwt", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.True(t, cookies[0].Secure)
}

func TestLogin_InvalidBody(t *testing.T) {
	svc := new(AuthServiceMock)
	h := NewAuthHandler(svc, testResponder(), &utils.Config{}, zap.NewNop())

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/api/v1/users/login", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "fail", decode(t, rec).Status)
	svc.AssertNotCalled(t, "Login", mock.Anything, mock.Anything)
}

func TestLogin_Unauthorized(t *testing.T) {
	svc := new(AuthServiceMock)
	h := NewAuthHandler(svc, testResponder(), &utils.Config{}, zap.NewNop())
	svc.On("Login", mock.Anything, mock.Anything).Return(nil, utils.Unauthorized("Incorrect email or password"))

	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@b.co","password":"wrong"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Incorrect email or password", decode(t, rec).Message)
}

func TestResetPassword_PassesToken(t *testing.T) {
	svc := new(AuthServiceMock)
	h := NewAuthHandler(svc, testResponder(), &utils.Config{}, zap.NewNop())
	svc.On("ResetPassword", mock.Anything, "abc123", mock.Anything).
		Return(&response.AuthResponse{Token: "new.jwt"}, nil)

	r := chi.NewRouter()
	r.Patch("/users/resetPassword/{token}", h.ResetPassword)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/users/resetPassword/abc123",
		strings.NewReader(`{"password":"newpass12","passwordConfirm":"newpass12"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "new.jwt", decode(t, rec).Token)
	svc.AssertExpectations(t)
}

func newUserHandler(svc usecase.UserService) *UserHandler {
	return NewUserHandler(svc, testResponder(), utils.AvatarConfig{MaxUploadMB: 1}, zap.NewNop())
}

func multipartBody(t *testing.T, fields map[string]string, avatar []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if avatar != nil {
		part, err := mw.CreateFormFile(avatarField, "me.png")
		require.NoError(t, err)
		_, err = part.Write(avatar)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))))
	return buf.Bytes()
}

func TestUpdateMe_MultipartWithAvatar(t *testing.T) {
	svc := new(UserServiceMock)
	h := newUserHandler(svc)
	userID := uuid.New()
	avatar := tinyPNG(t)

	svc.On("UpdateMe", mock.Anything, userID, mock.MatchedBy(func(in usecase.UpdateMeInput) bool {
		return in.Fields.Name != nil && *in.Fields.Name == "Ada" && in.Fields.Email == nil && bytes.Equal(in.Avatar, avatar)
	})).Return(&response.UserResponse{ID: userID.String(), Name: "Ada"}, nil)

	body, contentType := multipartBody(t, map[string]string{"name": "Ada"}, avatar)
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/users/updateMe", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	h.UpdateMe(rec, withUser(req, userID, "user"))

	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	svc.AssertExpectations(t)
}

func TestUpdateMe_RejectsPasswordFields(t *testing.T) {
	svc := new(UserServiceMock)
	h := newUserHandler(svc)
	userID := uuid.New()

	body, contentType := multipartBody(t, map[string]string{"password": "x"}, nil)
	req := httptest.NewRequest(http.MethodPatch, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UpdateMe(rec, withUser(req, userID, "user"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec).Message, "/users/updatePassword")

	req = httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{"passwordConfirm":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.UpdateMe(rec, withUser(req, userID, "user"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "UpdateMe", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMe_RejectsNonImage(t *testing.T) {
	svc := new(UserServiceMock)
	h := newUserHandler(svc)

	body, contentType := multipartBody(t, nil, []byte("just some text, not a picture"))
	req := httptest.NewRequest(http.MethodPatch, "/", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	h.UpdateMe(rec, withUser(req, uuid.New(), "user"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Not an image! Please upload only images.", decode(t, rec).Message)
	svc.AssertNotCalled(t, "UpdateMe", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateMe_RequiresPrincipal(t *testing.T) {
	h := newUserHandler(new(UserServiceMock))
	rec := httptest.NewRecorder()
	h.UpdateMe(rec, httptest.NewRequest(http.MethodPatch, "/", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetAllUsers_ResultsCount(t *testing.T) {
	svc := new(UserServiceMock)
	h := newUserHandler(svc)
	svc.On("GetAllUsers", mock.Anything, mock.Anything).
		Return([]map[string]any{{"name": "Ada"}, {"name": "Grace"}}, nil)

	rec := httptest.NewRecorder()
	h.GetAllUsers(rec, httptest.NewRequest(http.MethodGet, "/api/v1/users?role=admin", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	require.NotNil(t, env.Results)
	assert.Equal(t, 2, *env.Results)
	assert.Contains(t, string(env.Data), `"users"`)
}

func TestGetImage_StreamsObject(t *testing.T) {
	svc := new(UserServiceMock)
	h := newUserHandler(svc)
	svc.On("GetAvatar", mock.Anything, "user-1-1.jpeg").Return(&storage.Object{
		Body:          io.NopCloser(strings.NewReader("jpeg-bytes")),
		ContentType:   "image/jpeg",
		ContentLength: 10,
	}, nil)
	svc.On("GetAvatar", mock.Anything, "user-9-9.jpeg").Return(nil, utils.NotFound("Image not found"))

	r := chi.NewRouter()
	r.Get("/users/images/{imageId}", h.GetImage)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/images/user-1-1.jpeg", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", rec.Body.String())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/images/user-9-9.jpeg", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCatalogGetByID_MalformedID(t *testing.T) {
	svc := new(CatalogServiceMock)
	h := NewCatalogHandler(svc, testResponder(), zap.NewNop())

	r := chi.NewRouter()
	r.Get("/applications/{applicationId}", h.GetByID)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/applications/not-a-uuid", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestCatalogGetAll_PassesQuery(t *testing.T) {
	svc := new(CatalogServiceMock)
	h := NewCatalogHandler(svc, testResponder(), zap.NewNop())
	svc.On("GetAll", mock.Anything, mock.MatchedBy(func(v url.Values) bool {
		return len(v["price[gte]"]) == 1 && v["price[gte]"][0] == "10" && v["sort"][0] == "price"
	})).Return([]map[string]any{{"price": 15.0}, {"price": 25.0}}, nil)

	rec := httptest.NewRecorder()
	h.GetAll(rec, httptest.NewRequest(http.MethodGet, "/api/v1/applications?price[gte]=10&sort=price", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, 2, *env.Results)
	assert.JSONEq(t, `{"applications":[{"price":15},{"price":25}]}`, string(env.Data))
}

func TestCatalogCreate_UsesPrincipalAsCreator(t *testing.T) {
	svc := new(CatalogServiceMock)
	h := NewCatalogHandler(svc, testResponder(), zap.NewNop())
	creator := uuid.New()
	svc.On("Create", mock.Anything, creator, mock.Anything).
		Return(&response.ApplicationResponse{ID: uuid.NewString(), Name: "Notes", CreatorID: creator.String()}, nil)

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Notes","price":9.99,"route":"/notes"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, withUser(req, creator, "creator"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	svc.AssertExpectations(t)
}

func cartRouter(h *CartHandler, userID uuid.UUID) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, withUser(req, userID, "user"))
		})
	})
	r.Patch("/applications/{applicationId}/addToCart", h.AddToCart)
	r.Delete("/applications/{applicationId}/deleteFromCart", h.DeleteFromCart)
	r.Get("/users/{userId}/cart", h.GetCart)
	return r
}

func TestAddToCart_Conflict(t *testing.T) {
	svc := new(CartServiceMock)
	userID, appID := uuid.New(), uuid.New()
	svc.On("AddToCart", mock.Anything, userID, appID).Return(nil, utils.Conflict("Application already in cart"))

	rec := httptest.NewRecorder()
	cartRouter(NewCartHandler(svc, testResponder(), zap.NewNop()), userID).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/applications/"+appID.String()+"/addToCart", nil))

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "fail", decode(t, rec).Status)
}

func TestAddToCart_ReturnsSummary(t *testing.T) {
	svc := new(CartServiceMock)
	userID, appID := uuid.New(), uuid.New()
	svc.On("AddToCart", mock.Anything, userID, appID).
		Return(&response.ApplicationSummaryResponse{ID: appID.String(), Name: "Notes", Price: 15}, nil)

	rec := httptest.NewRecorder()
	cartRouter(NewCartHandler(svc, testResponder(), zap.NewNop()), userID).
		ServeHTTP(rec, httptest.NewRequest(http.MethodPatch, "/applications/"+appID.String()+"/addToCart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, string(decode(t, rec).Data), `"application":{"id":"`+appID.String())
}

func TestDeleteFromCart_ResultsIsLength(t *testing.T) {
	svc := new(CartServiceMock)
	userID, appID, other := uuid.New(), uuid.New(), uuid.New()
	svc.On("RemoveFromCart", mock.Anything, userID, appID).
		Return(&response.CartIDsData{Cart: []string{other.String()}}, nil)

	rec := httptest.NewRecorder()
	cartRouter(NewCartHandler(svc, testResponder(), zap.NewNop()), userID).
		ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/applications/"+appID.String()+"/deleteFromCart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, 1, *env.Results)
	assert.JSONEq(t, `{"cart":["`+other.String()+`"]}`, string(env.Data))
}

func TestGetCart(t *testing.T) {
	svc := new(CartServiceMock)
	userID := uuid.New()
	svc.On("ListCart", mock.Anything, userID).Return(&response.CartData{Cart: []response.ApplicationSummaryResponse{}}, nil)

	rec := httptest.NewRecorder()
	cartRouter(NewCartHandler(svc, testResponder(), zap.NewNop()), userID).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/"+userID.String()+"/cart", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, *decode(t, rec).Results)
}
