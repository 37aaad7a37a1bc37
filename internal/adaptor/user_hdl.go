package adaptor

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"appmarket/internal/dto/request"
	"appmarket/internal/dto/response"
	"appmarket/internal/usecase"
	"appmarket/pkg/utils"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const avatarField = "avatar"

var errPasswordRoute = utils.BadRequest("This route is not for password updates. Please use /users/updatePassword.")

type UserHandler struct {
	service   usecase.UserService
	responder *utils.ErrorResponder
	maxUpload int64
	log       *zap.Logger
}

func NewUserHandler(service usecase.UserService, responder *utils.ErrorResponder, avatar utils.AvatarConfig, log *zap.Logger) *UserHandler {
	maxUpload := avatar.MaxUploadMB << 20
	if maxUpload <= 0 {
		maxUpload = 5 << 20
	}

	return &UserHandler{
		service:   service,
		responder: responder,
		maxUpload: maxUpload,
		log:       log.With(zap.String("handler", "user")),
	}
}

// GetMe handles GET /api/v1/users/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		h.responder.Respond(w, err, "get profile")
		return
	}

	utils.ResponseSuccess(w, response.UserData{User: *user})
}

// UpdateMe handles PATCH /api/v1/users/updateMe. It accepts multipart form
// data with an optional avatar file, or a plain JSON body.
func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var (
		input usecase.UpdateMeInput
		err   error
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		input, err = h.readMultipart(w, r)
	} else {
		input, err = readUpdateJSON(w, r)
	}
	if err != nil {
		h.responder.Respond(w, err, "update profile")
		return
	}

	user, err := h.service.UpdateMe(r.Context(), userID, input)
	if err != nil {
		h.responder.Respond(w, err, "update profile")
		return
	}

	utils.ResponseSuccess(w, response.UserData{User: *user})
}

func (h *UserHandler) readMultipart(w http.ResponseWriter, r *http.Request) (usecase.UpdateMeInput, error) {
	var input usecase.UpdateMeInput

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload+(1<<20))
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return input, utils.NewAppError(http.StatusRequestEntityTooLarge, "File too large", err)
		}
		return input, utils.NewAppError(http.StatusBadRequest, "Invalid multipart body", err)
	}

	form := r.MultipartForm
	if _, found := form.Value["password"]; found {
		return input, errPasswordRoute
	}
	if _, found := form.Value["passwordConfirm"]; found {
		return input, errPasswordRoute
	}

	input.Fields.Name = formValue(form.Value, "name")
	input.Fields.Email = formValue(form.Value, "email")
	input.Fields.Birthday = formValue(form.Value, "birthday")

	file, _, err := r.FormFile(avatarField)
	if errors.Is(err, http.ErrMissingFile) {
		return input, nil
	}
	if err != nil {
		return input, utils.NewAppError(http.StatusBadRequest, "Invalid avatar upload", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		return input, utils.NewAppError(http.StatusBadRequest, "Invalid avatar upload", err)
	}
	if int64(len(data)) > h.maxUpload {
		return input, utils.NewAppError(http.StatusRequestEntityTooLarge, "File too large", nil)
	}

	if !strings.HasPrefix(mimetype.Detect(data).String(), "image/") {
		return input, utils.BadRequest("Not an image! Please upload only images.")
	}

	input.Avatar = data
	return input, nil
}

type updateMeBody struct {
	request.UpdateMeRequest
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

func readUpdateJSON(w http.ResponseWriter, r *http.Request) (usecase.UpdateMeInput, error) {
	var body updateMeBody
	if err := utils.DecodeJSON(w, r, &body); err != nil {
		return usecase.UpdateMeInput{}, err
	}
	if body.Password != nil || body.PasswordConfirm != nil {
		return usecase.UpdateMeInput{}, errPasswordRoute
	}
	return usecase.UpdateMeInput{Fields: body.UpdateMeRequest}, nil
}

func formValue(values map[string][]string, key string) *string {
	v, ok := values[key]
	if !ok || len(v) == 0 {
		return nil
	}
	return &v[0]
}

// GetAllUsers handles GET /api/v1/users (admin only)
func (h *UserHandler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.GetAllUsers(r.Context(), r.URL.Query())
	if err != nil {
		h.responder.Respond(w, err, "get all users")
		return
	}

	utils.ResponseList(w, len(users), response.UsersData{Users: users})
}

// BirthdayData handles GET /api/v1/users/birthdayData (admin only)
func (h *UserHandler) BirthdayData(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.BirthdayData(r.Context())
	if err != nil {
		h.responder.Respond(w, err, "birthday data")
		return
	}

	utils.ResponseList(w, len(data.Stats), data)
}

// GetImage handles GET /api/v1/users/images/{imageId} by streaming the
// stored object.
func (h *UserHandler) GetImage(w http.ResponseWriter, r *http.Request) {
	obj, err := h.service.GetAvatar(r.Context(), chi.URLParam(r, "imageId"))
	if err != nil {
		h.responder.Respond(w, err, "get image")
		return
	}
	defer obj.Body.Close()

	w.Header().Set("Content-Type", obj.ContentType)
	if obj.ContentLength > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(obj.ContentLength, 10))
	}
	w.Header().Set("Cache-Control", "private, max-age=3600")
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, obj.Body); err != nil {
		h.log.Warn("Failed to stream image", zap.Error(err))
	}
}
