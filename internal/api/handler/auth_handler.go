package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"certhub/backend/internal/dto"
	"certhub/backend/internal/service"
	"certhub/backend/pkg/response"
	"certhub/backend/pkg/validate"
)

// AuthHandler 认证模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 学生/教师自助注册
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, validate.ErrAccountIDNotDigits),
			errors.Is(err, validate.ErrStudentIDLength),
			errors.Is(err, validate.ErrTeacherIDLength),
			errors.Is(err, validate.ErrInvalidRole),
			errors.Is(err, validate.ErrInvalidEmail),
			errors.Is(err, validate.ErrPasswordTooShort),
			errors.Is(err, validate.ErrPasswordTooWeak):
			response.BadRequest(c, 11002, err.Error())
		case errors.Is(err, service.ErrAccountIDTaken),
			errors.Is(err, service.ErrEmailTaken):
			response.Conflict(c, 11003, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.Created(c, result)
}

// Login 用户登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			response.Error(c, http.StatusUnauthorized, 11001, err.Error())
		case errors.Is(err, service.ErrUserDisabled):
			response.Forbidden(c, 11004, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// Logout 用户登出（Access Token 进黑名单）
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := MustGetClaims(c)
	if !ok {
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, nil)
}

// RefreshToken 用 Refresh Token 换取新的 Token 对
// POST /api/v1/auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.authSvc.RefreshToken(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshInvalid),
			errors.Is(err, service.ErrUserDisabled):
			response.Unauthorized(c, 11005, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, result)
}

// ChangePassword 修改本人密码
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		switch {
		case errors.Is(err, service.ErrOldPasswordWrong):
			response.BadRequest(c, 11006, err.Error())
		case errors.Is(err, validate.ErrPasswordTooShort),
			errors.Is(err, validate.ErrPasswordTooWeak):
			response.BadRequest(c, 11002, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	response.OK(c, nil)
}
