// Package handler contains the HTTP handlers for the application.
package handler

import (
	"strconv"

	"accounts/internal/delivery/api/response"
	domainerrors "accounts/internal/domain/errors"
	"accounts/internal/errors"
	"accounts/internal/usecase"

	"github.com/labstack/echo/v4"
)

// AccountHandler serves the /user routes.
type AccountHandler struct {
	uc usecase.AccountUsecase
}

// NewAccountHandler is the constructor for AccountHandler, injected by Fx.
func NewAccountHandler(uc usecase.AccountUsecase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// CreateAccount handles POST /user/create.
func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var input usecase.CreateAccountInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	id, err := h.uc.CreateAccount(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, "User created successfully", id)
}

// GetAccount handles GET /user/:id.
func (h *AccountHandler) GetAccount(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return err
	}

	output, err := h.uc.GetAccount(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, "User retrieved successfully", output)
}

// UpdateAccount handles PUT /user/:id. Failures report data false.
func (h *AccountHandler) UpdateAccount(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return response.WithData(err, false)
	}

	var input usecase.UpdateAccountInput
	if err := bindAndValidate(c, &input); err != nil {
		return response.WithData(err, false)
	}

	if err := h.uc.UpdateAccount(c.Request().Context(), id, &input); err != nil {
		return response.WithData(errors.WithStack(err), false)
	}

	return response.Success(c, "User updated successfully", true)
}

// DeleteAccount handles DELETE /user/:id. Failures report data false.
func (h *AccountHandler) DeleteAccount(c echo.Context) error {
	id, err := accountID(c)
	if err != nil {
		return response.WithData(err, false)
	}

	if err := h.uc.DeleteAccount(c.Request().Context(), id); err != nil {
		return response.WithData(errors.WithStack(err), false)
	}

	return response.Success(c, "User deleted successfully", true)
}

// ListAccounts handles GET /user/all.
func (h *AccountHandler) ListAccounts(c echo.Context) error {
	outputs, err := h.uc.ListAccounts(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, "Users retrieved successfully", outputs)
}

// Login handles POST /user/login.
func (h *AccountHandler) Login(c echo.Context) error {
	var input usecase.LoginInput
	if err := bindAndValidate(c, &input); err != nil {
		return err
	}

	output, err := h.uc.Login(c.Request().Context(), &input)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Success(c, "Login successful", output)
}

func accountID(c echo.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, domainerrors.ErrValidationFailed.WithDetails("user id must be an integer")
	}

	return id, nil
}

// bindAndValidate decodes the JSON body into input and runs the struct validation tags.
func bindAndValidate(c echo.Context, input any) error {
	if err := (&echo.DefaultBinder{}).BindBody(c, input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails("malformed JSON body")
	}
	if err := c.Validate(input); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
