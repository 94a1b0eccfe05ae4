package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"gallery_app/internal/domain/models"
	"gallery_app/internal/lib/logger/sl"
	"gallery_app/internal/metrics"
	gallery "gallery_app/internal/services/gallery_service"
	user "gallery_app/internal/services/user_service"
	"gallery_app/internal/storage"
	"gallery_app/internal/transport/http/dto"
	"gallery_app/internal/transport/http/dto/request"
	"gallery_app/internal/transport/http/dto/response"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	RegisterNewUser(ctx context.Context, input dto.UserRegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, password string) (*models.TokenPair, models.User, error)
}

type GalleryService interface {
	Upload(ctx context.Context, input dto.GalleryUploadInput) (*dto.GalleryItemResponse, error)
	List(ctx context.Context) ([]dto.GalleryItemResponse, error)
	Get(ctx context.Context, id uuid.UUID) (*dto.GalleryItemResponse, error)
	Update(ctx context.Context, id uuid.UUID, input dto.GalleryUpdateInput) (*dto.GalleryItemResponse, error)
	Delete(ctx context.Context, id uuid.UUID) (uuid.UUID, error)
}

type AuthService interface {
	RefreshTokens(ctx context.Context, refreshToken string) (*models.TokenPair, error)
}

type Routers struct {
	log            *slog.Logger
	UserService    UserService
	GalleryService GalleryService
	AuthService    AuthService
}

func NewRouter(log *slog.Logger, userService UserService, galleryService GalleryService, authService AuthService) *Routers {
	return &Routers{
		log:            log,
		UserService:    userService,
		GalleryService: galleryService,
		AuthService:    authService,
	}
}

// Register godoc
// @Summary Register a new user
// @Description Creates an account and returns the new user id.
// @Tags users
// @Accept json
// @Produce json
// @Param request body dto.UserRegisterInput true "Registration data"
// @Success 201 {object} response.Response{data=object{user_id=string}}
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/register [post]
func (r *Routers) Register(c echo.Context) error {
	const op = "http.routers.Register"

	log := r.log.With(slog.String("op", op))

	var req dto.UserRegisterInput

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRegisterRequest)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("validation failed", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_register_request", err.Error()))
	}

	userID, err := r.UserService.RegisterNewUser(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, user.ErrUserExists) {
			log.Warn("user already exists", slog.String("email", req.Email))
			return c.JSON(http.StatusConflict, response.ErrUserAlreadyExists)
		}

		log.Error("registration failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(map[string]uuid.UUID{
		"user_id": userID,
	}))
}

// Login godoc
// @Summary Log a user in
// @Description Verifies email and password, returns a token pair.
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=map[string]string}
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/login [post]
func (r *Routers) Login(c echo.Context) error {
	const op = "http.routers.Login"

	log := r.log.With(slog.String("op", op))

	var req request.LoginRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	if err := c.Validate(req); err != nil {
		log.Warn("invalid login request", slog.String("email", req.Email))
		return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("invalid_request", err.Error()))
	}

	tokens, account, err := r.UserService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, user.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
		}

		log.Error("login failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(map[string]string{
		"user_id":       account.ID.String(),
		"name":          account.Name,
		"email":         account.Email,
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	}))
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags users
// @Accept json
// @Produce json
// @Param request body request.RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenPair
// @Failure 400 {object} response.ErrorResponse
// @Failure 401 {object} response.ErrorResponse
// @Router /api/v1/refresh [post]
func (r *Routers) Refresh(c echo.Context) error {
	const op = "http.routers.Refresh"

	log := r.log.With(slog.String("op", op))

	var req request.RefreshRequest

	if err := c.Bind(&req); err != nil {
		log.Error("failed to bind request", sl.Err(err))
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	newTokens, err := r.AuthService.RefreshTokens(c.Request().Context(), req.RefreshToken)
	if err != nil {
		log.Warn("failed to refresh tokens", sl.Err(err))
		return c.JSON(http.StatusUnauthorized, response.ErrAuthenticationFailed)
	}

	return c.JSON(http.StatusOK, newTokens)
}

// UploadImage godoc
// @Summary Upload a gallery image
// @Description Stores the image on disk and creates a catalog record. Field name for the file is "image".
// @Tags gallery
// @Accept multipart/form-data
// @Produce json
// @Param image formData file true "Image file (jpeg, jpg, png, gif, webp; max 10 MiB)"
// @Param title formData string true "Title"
// @Param description formData string false "Description"
// @Param link formData string false "Link"
// @Param tag formData string false "Tag"
// @Param category formData string false "Category"
// @Param user_id formData string false "Uploader id"
// @Success 201 {object} response.Response{data=dto.GalleryItemResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 413 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gallery/upload [post]
func (r *Routers) UploadImage(c echo.Context) error {
	const op = "http.routers.UploadImage"

	log := r.log.With(slog.String("op", op))

	input := dto.GalleryUploadInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Link:        c.FormValue("link"),
		Tag:         c.FormValue("tag"),
		Category:    c.FormValue("category"),
		UserID:      c.FormValue("user_id"),
	}

	// A missing file is a service-level validation error, not a bind
	// failure: the service owns the "no file" message.
	if file, err := c.FormFile("image"); err == nil {
		input.File = file
	}

	item, err := r.GalleryService.Upload(c.Request().Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrNoFile):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_error", "image file is required"))
		case errors.Is(err, gallery.ErrTitleRequired):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_error", "title is required"))
		case errors.Is(err, storage.ErrInvalidFileType):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_error", "only image files are allowed"))
		case errors.Is(err, storage.ErrFileTooLarge):
			return c.JSON(http.StatusRequestEntityTooLarge, response.ErrorResponseWithDetails("validation_error", "file size exceeds limit"))
		default:
			log.Error("upload failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	if input.File != nil {
		metrics.UploadedBytes.Add(float64(input.File.Size))
	}

	return c.JSON(http.StatusCreated, response.SuccessResponse(item))
}

// ListGallery godoc
// @Summary List the gallery
// @Description Returns all catalog records backed by a file, newest first, followed by orphan files found on disk.
// @Tags gallery
// @Produce json
// @Success 200 {object} response.Response{data=[]dto.GalleryItemResponse}
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gallery [get]
func (r *Routers) ListGallery(c echo.Context) error {
	const op = "http.routers.ListGallery"

	log := r.log.With(slog.String("op", op))

	items, err := r.GalleryService.List(c.Request().Context())
	if err != nil {
		log.Error("listing failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(items))
}

// GetGalleryItem godoc
// @Summary Get one gallery item
// @Tags gallery
// @Produce json
// @Param id path string true "Item id" format(uuid)
// @Success 200 {object} response.Response{data=dto.GalleryItemResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /api/v1/gallery/{id} [get]
func (r *Routers) GetGalleryItem(c echo.Context) error {
	const op = "http.routers.GetGalleryItem"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
	}

	item, err := r.GalleryService.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}

		log.Error("failed to get item", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// UpdateGalleryItem godoc
// @Summary Update gallery item metadata
// @Description Rewrites title and the optional metadata fields. The stored image cannot be replaced.
// @Tags gallery
// @Accept json
// @Produce json
// @Param id path string true "Item id" format(uuid)
// @Param request body dto.GalleryUpdateInput true "New metadata"
// @Success 200 {object} response.Response{data=dto.GalleryItemResponse}
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gallery/{id} [put]
func (r *Routers) UpdateGalleryItem(c echo.Context) error {
	const op = "http.routers.UpdateGalleryItem"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
	}

	var req dto.GalleryUpdateInput

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, response.ErrInvalidRequestFormat)
	}

	item, err := r.GalleryService.Update(c.Request().Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, gallery.ErrTitleRequired):
			return c.JSON(http.StatusBadRequest, response.ErrorResponseWithDetails("validation_error", "title is required"))
		case errors.Is(err, storage.ErrItemNotFound):
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		default:
			log.Error("update failed", sl.Err(err))
			return c.JSON(http.StatusInternalServerError, response.ErrInternal)
		}
	}

	return c.JSON(http.StatusOK, response.SuccessResponse(item))
}

// DeleteGalleryItem godoc
// @Summary Delete a gallery item
// @Description Removes the image file (best effort) and the catalog record. Only catalog ids are accepted; orphan filenames 404.
// @Tags gallery
// @Produce json
// @Param id path string true "Item id" format(uuid)
// @Success 200 {object} response.Response{data=dto.DeleteGalleryItemResponse}
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Security ApiKeyAuth
// @Router /api/v1/gallery/{id} [delete]
func (r *Routers) DeleteGalleryItem(c echo.Context) error {
	const op = "http.routers.DeleteGalleryItem"

	log := r.log.With(slog.String("op", op))

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
	}

	deletedID, err := r.GalleryService.Delete(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrItemNotFound) {
			return c.JSON(http.StatusNotFound, response.ErrItemNotFound)
		}

		log.Error("delete failed", sl.Err(err))
		return c.JSON(http.StatusInternalServerError, response.ErrInternal)
	}

	return c.JSON(http.StatusOK, response.Response{
		Status:  "success",
		Data:    dto.DeleteGalleryItemResponse{DeletedID: deletedID.String()},
		Message: "item deleted",
	})
}

// Health godoc
// @Summary Liveness probe
// @Tags service
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (r *Routers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
