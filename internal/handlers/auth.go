package handlers

import (
	"github.com/shashibhushan21/Chat-App32/internal/apperr"
	"github.com/shashibhushan21/Chat-App32/internal/storage"
	"github.com/shashibhushan21/Chat-App32/internal/store"
	"github.com/shashibhushan21/Chat-App32/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const (
	accessCookieMaxAge  = 24 * 60 * 60     // 24 hours
	refreshCookieMaxAge = 7 * 24 * 60 * 60 // 7 days
)

// SignupRequest represents signup request body
type SignupRequest struct {
	Email         string `json:"email"`
	FullName      string `json:"fullName"`
	Password      string `json:"password"`
	ContactNumber string `json:"contactNumber"`
}

// LoginRequest represents login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest carries a new profile picture as a base64 data URI
type UpdateProfileRequest struct {
	ProfilePic string `json:"profilePic"`
}

// AuthHandler handles signup, login, session and profile endpoints
type AuthHandler struct {
	users    *store.UserStore
	tokens   *utils.TokenManager
	uploader *storage.Uploader
	log      zerolog.Logger
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(users *store.UserStore, tokens *utils.TokenManager, uploader *storage.Uploader, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, uploader: uploader, log: log}
}

// Signup handles account creation
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req SignupRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}

	if req.Email == "" || req.Password == "" || req.FullName == "" || req.ContactNumber == "" {
		return respondError(c, apperr.Validation("email, password, full name, and contact number are required"))
	}
	if len(req.Password) < utils.MinPasswordLength {
		return respondError(c, apperr.Validation("password must be at least 6 characters long"))
	}
	if !utils.ValidateContactNumber(req.ContactNumber) {
		return respondError(c, apperr.Validation("invalid contact number"))
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.users.Create(c.Context(), req.Email, req.FullName, hashed,
		utils.NormalizeContactNumber(req.ContactNumber))
	if err != nil {
		return respondError(c, err)
	}

	if err := h.issueCookies(c, user.ID, user.Email); err != nil {
		return respondError(c, err)
	}

	h.log.Info().Str("user_id", user.ID).Msg("user registered")

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if req.Email == "" || req.Password == "" {
		return respondError(c, apperr.Validation("email and password are required"))
	}

	user, err := h.users.GetByEmail(c.Context(), req.Email)
	if err != nil || !utils.CheckPassword(user.Password, req.Password) {
		// Same response for unknown email and wrong password
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid email or password",
		})
	}

	if err := h.issueCookies(c, user.ID, user.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// Logout clears the session cookies
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	clearCookie(c, "token")
	clearCookie(c, "refresh_token")

	return c.JSON(fiber.Map{
		"success": true,
		"message": "logged out successfully",
	})
}

// Me returns the currently authenticated user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	user, err := h.users.GetByID(c.Context(), userID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

// RefreshToken rotates the cookie pair from a valid refresh token
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "refresh token not found",
		})
	}

	claims, err := h.tokens.ValidateToken(refreshToken)
	if err != nil || claims.Type != "refresh" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"success": false,
			"error":   "invalid refresh token",
		})
	}

	if err := h.issueCookies(c, claims.UserID, claims.Email); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "tokens refreshed successfully",
	})
}

// UpdateProfile uploads a new profile picture and prepends it to the
// user's picture history.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID := c.Locals("userID").(string)

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return respondError(c, apperr.Validation("invalid request body"))
	}
	if req.ProfilePic == "" {
		return respondError(c, apperr.Validation("profile picture is required"))
	}

	url, err := h.uploader.UploadImage(c.Context(), "avatars/"+userID, req.ProfilePic)
	if err != nil {
		return respondError(c, apperr.Validation(err.Error()))
	}

	user, err := h.users.AddProfilePic(c.Context(), userID, url)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    user.ToResponse(),
	})
}

func (h *AuthHandler) issueCookies(c *fiber.Ctx, userID, email string) error {
	token, err := h.tokens.GenerateToken(userID, email)
	if err != nil {
		return err
	}
	refreshToken, err := h.tokens.GenerateRefreshToken(userID, email)
	if err != nil {
		return err
	}

	setCookie(c, "token", token, accessCookieMaxAge)
	setCookie(c, "refresh_token", refreshToken, refreshCookieMaxAge)
	return nil
}

func setCookie(c *fiber.Ctx, name, value string, maxAge int) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		HTTPOnly: true,
		Secure:   false, // Set to true in production with HTTPS
		SameSite: "Lax",
		MaxAge:   maxAge,
	})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		HTTPOnly: true,
		Secure:   false,
		SameSite: "Lax",
		MaxAge:   -1, // Delete cookie
	})
}
