package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/pahanabooks/console-api/internal/application/service"
	"github.com/pahanabooks/console-api/internal/domain/repository"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/request"
	"github.com/pahanabooks/console-api/internal/presentation/http/dto/response"
)

// AuthHandler handles sign-in and session HTTP requests
type AuthHandler struct {
	authService    *service.AuthService
	billingService *service.BillingService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, billingService *service.BillingService) *AuthHandler {
	return &AuthHandler{authService: authService, billingService: billingService}
}

// AdminLogin handles operator sign-in
// @Summary Admin login
// @Description Authenticate an operator against the backend and open a console session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.AdminLogin(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginBody(output))
}

// CustomerLogin handles storefront customer sign-in
// @Summary Customer login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Router /auth/customer/login [post]
func (h *AuthHandler) CustomerLogin(c *gin.Context) {
	var req request.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	output, err := h.authService.CustomerLogin(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", loginBody(output))
}

// Register handles storefront customer sign-up
// @Summary Register
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse
// @Router /auth/customer/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	customer, err := h.authService.Register(c.Request.Context(), &repository.RegisterCustomerInput{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, "Registration successful", customer)
}

// Profile returns the signed-in account
func (h *AuthHandler) Profile(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	profile, err := h.authService.Profile(c.Request.Context(), p)
	if err != nil {
		response.Error(c, err)
		return
	}

	message := "Profile retrieved successfully"
	if profile.Cached {
		message = "Profile retrieved from cache"
	}
	response.OK(c, message, profile)
}

// Logout ends the session and discards its bill draft
func (h *AuthHandler) Logout(c *gin.Context) {
	p, ok := principal(c)
	if !ok {
		return
	}

	if err := h.authService.Logout(c.Request.Context(), p.SessionID); err != nil {
		response.Error(c, err)
		return
	}
	if h.billingService != nil {
		h.billingService.Forget(p)
	}

	response.OK(c, "Logout successful", nil)
}

func loginBody(output *service.LoginOutput) gin.H {
	body := gin.H{
		"session": gin.H{
			"id":             output.Session.ID,
			"role":           output.Session.Role,
			"display_name":   output.Session.DisplayName,
			"account_number": output.Session.AccountNumber,
			"profile_photo":  output.Session.ProfilePhoto,
		},
		"access_token": output.AccessToken,
		"token_type":   "Bearer",
		"expires_at":   output.ExpiresAt,
	}
	if output.Admin != nil {
		body["admin"] = output.Admin
	}
	if output.Customer != nil {
		body["customer"] = output.Customer
	}
	return body
}
