package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	userapp "github.com/59-devv/adonis-roleplay/internal/application"
	"github.com/59-devv/adonis-roleplay/internal/domain/entity"
	"github.com/59-devv/adonis-roleplay/pkg/apperr"
	"github.com/59-devv/adonis-roleplay/pkg/response"
	"github.com/59-devv/adonis-roleplay/pkg/validation"
)

type UserHandler struct {
	Svc    *userapp.Service
	Logger *logrus.Logger
}

func NewUserHandler(svc *userapp.Service, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

type createUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,pwd"`
	Avatar   string `json:"avatar" binding:"omitempty,url"`
}

// updateUserRequest carries no binding rules: the update path reads
// email, avatar and password as-is and ignores everything else.
type updateUserRequest struct {
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.FailValidation(c, validation.ToDetails(err))
		return
	}

	u, err := h.Svc.Register(c.Request.Context(), userapp.RegisterInput{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
		Avatar:   req.Avatar,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, gin.H{"user": userBody(u)})
}

func (h *UserHandler) Update(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, apperr.BadRequest("invalid payload"))
		return
	}

	u, err := h.Svc.Update(c.Request.Context(), c.Param("id"), userapp.UpdateInput{
		Email:    req.Email,
		Avatar:   req.Avatar,
		Password: req.Password,
	})
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": userBody(u)})
}

func (h *UserHandler) Get(c *gin.Context) {
	u, err := h.Svc.GetProfile(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"user": userBody(u)})
}

func (h *UserHandler) Search(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	users, err := h.Svc.SearchUsers(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"users": users})
}

func (h *UserHandler) UploadAvatar(c *gin.Context) {
	file, err := c.FormFile("avatar")
	if err != nil {
		response.Fail(c, apperr.BadRequest("avatar file is required"))
		return
	}
	f, err := file.Open()
	if err != nil {
		response.Fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	url, err := h.Svc.UploadAvatar(c.Request.Context(), c.Param("id"), f, file.Filename, file.Header.Get("Content-Type"))
	if err != nil {
		response.Fail(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"avatar": url})
}

// userBody serializes an account for clients. Fields are listed out one
// by one; the password hash has no way into the body.
func userBody(u *entity.User) gin.H {
	body := gin.H{
		"id":         u.ID,
		"email":      u.Email,
		"username":   u.Username,
		"created_at": u.CreatedAt,
		"updated_at": u.UpdatedAt,
	}
	if u.Avatar != "" {
		body["avatar"] = u.Avatar
	}
	return body
}
