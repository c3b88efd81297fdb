package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/artem13815/blog/api/http/presenter"
	"github.com/artem13815/blog/pkg/apperr"
	"github.com/artem13815/blog/pkg/auth"
	"github.com/artem13815/blog/pkg/security/jwt"
)

type AuthHandler struct {
	useCase auth.AuthUseCase
}

func NewAuthHandler(useCase auth.AuthUseCase) *AuthHandler {
	return &AuthHandler{useCase: useCase}
}

var errNoClaims = apperr.New(apperr.KindAuthentication, "Authentication required")

func currentUserID(c *fiber.Ctx) (int64, error) {
	claims, ok := jwt.ClaimsFrom(c)
	if !ok {
		return 0, errNoClaims
	}
	return claims.UserID, nil
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  auth.User `json:"user"`
	Token string    `json:"token"`
	// ExpiresIn is the token lifetime in milliseconds.
	ExpiresIn int64 `json:"expiresIn"`
}

// Login handles user login.
// @Summary Login
// @Tags    auth
// @Accept  json
// @Produce json
// @Param   input body loginRequest true "login payload"
// @Success 200 {object} presenter.Envelope{data=loginResponse}
// @Failure 400 {object} presenter.ErrorResponse
// @Failure 401 {object} presenter.ErrorResponse
// @Router  /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	result, err := h.useCase.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, loginResponse{
		User:      result.User,
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn.Milliseconds(),
	}, "Login successful")
}

// Me returns the authenticated user.
// @Summary  Current user
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} presenter.Envelope{data=auth.User}
// @Failure  401 {object} presenter.ErrorResponse
// @Failure  404 {object} presenter.ErrorResponse
// @Router   /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	user, err := h.useCase.Me(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, user, "")
}

type profileRequest struct {
	Name   *string `json:"name"`
	Avatar *string `json:"avatar"`
	Bio    *string `json:"bio"`
}

// UpdateProfile changes name, avatar or bio of the authenticated user.
// @Summary  Update profile
// @Tags     auth
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body profileRequest true "profile fields"
// @Success  200 {object} presenter.Envelope{data=auth.User}
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /auth/profile [put]
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req profileRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	user, err := h.useCase.UpdateProfile(c.UserContext(), id, auth.ProfileUpdate{
		Name:   req.Name,
		Avatar: req.Avatar,
		Bio:    req.Bio,
	})
	if err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, user, "Profile updated successfully")
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ChangePassword replaces the password after checking the current one.
// @Summary  Change password
// @Tags     auth
// @Accept   json
// @Produce  json
// @Security BearerAuth
// @Param    input body passwordRequest true "passwords"
// @Success  200 {object} presenter.Envelope
// @Failure  400 {object} presenter.ErrorResponse
// @Router   /auth/password [put]
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return errInvalidJSON
	}
	if err := h.useCase.ChangePassword(c.UserContext(), id, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return presenter.OK(c, http.StatusOK, nil, "Password changed successfully")
}

// Logout is a no-op; clients discard the token.
// @Summary  Logout
// @Tags     auth
// @Produce  json
// @Security BearerAuth
// @Success  200 {object} presenter.Envelope
// @Router   /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return presenter.OK(c, http.StatusOK, nil, "Logout successful")
}
