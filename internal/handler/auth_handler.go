package handler

import (
	"net/http"

	"app/internal/usecase"
	"app/internal/validator"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
)

type AuthHandler struct {
	uc *usecase.AuthUsecase
}

// DI
func NewAuthHandler(uc *usecase.AuthUsecase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

var registerRules = []validator.Ruleset{
	{Field: "first_name", Rules: "required|string|max:50"},
	{Field: "last_name", Rules: "required|string|max:50"},
	{Field: "username", Rules: "required|string|max:20"},
	{Field: "email", Rules: "required|email"},
	{Field: "password", Rules: "required|string|min:8"},
	{Field: "phone", Rules: "nullable|string|max:20"},
}

var loginRules = []validator.Ruleset{
	{Field: "email", Rules: "required|email"},
	{Field: "password", Rules: "required|string"},
}

var updateProfileRules = []validator.Ruleset{
	{Field: "first_name", Rules: "nullable|string|max:50"},
	{Field: "last_name", Rules: "nullable|string|max:50"},
	{Field: "username", Rules: "nullable|string|max:20"},
	{Field: "email", Rules: "nullable|email"},
	{Field: "phone", Rules: "nullable|string|max:20"},
}

func (h *AuthHandler) Register(c echo.Context) error {
	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, registerRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	out, err := h.uc.Register(c.Request().Context(), usecase.RegisterInput{
		FirstName: cast.ToString(data["first_name"]),
		LastName:  cast.ToString(data["last_name"]),
		Username:  cast.ToString(data["username"]),
		Email:     cast.ToString(data["email"]),
		Password:  cast.ToString(data["password"]),
		Phone:     cast.ToString(data["phone"]),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "User registered successfully",
		"user":    out.User,
		"token":   out.Token,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, loginRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	out, err := h.uc.Login(c.Request().Context(), usecase.LoginInput{
		Email:    cast.ToString(data["email"]),
		Password: cast.ToString(data["password"]),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Login successful",
		"user":    out.User,
		"token":   out.Token,
	})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
	}

	user, err := h.uc.Profile(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Access token required"})
	}

	data, err := bindJSON(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	if errs := validator.Validate(data, updateProfileRules); len(errs) > 0 {
		return validationFailed(c, errs)
	}

	user, err := h.uc.UpdateProfile(c.Request().Context(), userID, usecase.UpdateProfileInput{
		FirstName: strPtr(data, "first_name"),
		LastName:  strPtr(data, "last_name"),
		Username:  strPtr(data, "username"),
		Email:     strPtr(data, "email"),
		Phone:     strPtr(data, "phone"),
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"user": user})
}
