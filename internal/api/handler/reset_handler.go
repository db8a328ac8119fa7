package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/surgassist/records-api/internal/api/metrics"
	"github.com/surgassist/records-api/internal/core/domain"
	"github.com/surgassist/records-api/internal/core/ports"
)

// resetRequestMessage is returned for every reset request, eligible or not.
// One fixed string: response differences are how usernames get enumerated.
const resetRequestMessage = "If the account exists, a reset link has been sent to its address on file."

// resetRedeemMessage is the generic success body for a redeemed reset.
const resetRedeemMessage = "Your password has been updated. You can now log in with it."

type ResetHandler struct {
	resetService ports.ResetService
}

func NewResetHandler(resetService ports.ResetService) *ResetHandler {
	return &ResetHandler{resetService: resetService}
}

type resetRequestBody struct {
	Username string `json:"username" validate:"required"`
}

type resetRedeemBody struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Request starts a password reset.
//
// @Summary      Request a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetRequestBody  true  "Account username"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset/request [post]
func (h *ResetHandler) Request(c echo.Context) error {
	var req resetRequestBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	metrics.ResetRequestsTotal.Inc()
	if err := h.resetService.RequestReset(c.Request().Context(), req.Username); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: resetRequestMessage})
}

// Redeem exchanges a reset token for a new password.
//
// @Summary      Redeem a password reset
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetRedeemBody  true  "Reset token and new password"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  map[string]string
// @Router       /auth/reset/redeem [post]
func (h *ResetHandler) Redeem(c echo.Context) error {
	var req resetRedeemBody
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.resetService.RedeemReset(c.Request().Context(), req.Token, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidResetToken):
			metrics.ResetRedemptionsTotal.WithLabelValues("invalid_token").Inc()
		case errors.Is(err, domain.ErrPasswordPolicy):
			metrics.ResetRedemptionsTotal.WithLabelValues("weak_password").Inc()
		}
		return err
	}

	metrics.ResetRedemptionsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: resetRedeemMessage})
}
