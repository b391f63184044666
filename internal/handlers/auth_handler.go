package handlers

import (
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/middleware"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/models"
	"github.com/Ohyesabhi28/Screenshot-Organizer/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	authService *services.AuthService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Post("/login", h.HandleLogin)

	authRequired := middleware.AuthRequired(h.authService)
	authRoutes.Get("/verify", authRequired, h.HandleVerify)
	authRoutes.Post("/rotate", authRequired, h.HandleRotate)
	authRoutes.Post("/logout", authRequired, h.HandleLogout)
}

// SignupRequest represents the request body for signup.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
	Name     string `json:"name" validate:"required,max=255"`
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token string            `json:"token"`
	User  models.PublicUser `json:"user"`
}

// HandleSignup registers a user and returns their token.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		return badRequest(c, "All fields required")
	}
	if err := h.validate.Struct(req); err != nil {
		return respondError(c, validationErrors(err))
	}

	user, err := h.authService.Signup(req.Email, req.Password, req.Name)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(authResponse{Token: user.Token, User: user.Public()})
}

// HandleLogin checks credentials and returns the user's token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return badRequest(c, "Email and password required")
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(authResponse{Token: user.Token, User: user.Public()})
}

// HandleVerify returns the user owning the bearer token.
func (h *AuthHandler) HandleVerify(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	return c.JSON(fiber.Map{"user": user.Public()})
}

// HandleRotate replaces the caller's token and returns the new one.
func (h *AuthHandler) HandleRotate(c *fiber.Ctx) error {
	token, err := h.authService.RotateToken(middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"token": token})
}

// HandleLogout invalidates the caller's token.
func (h *AuthHandler) HandleLogout(c *fiber.Ctx) error {
	if _, err := h.authService.RotateToken(middleware.CurrentUser(c).ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Logged out"})
}
