package auth

import (
	"errors"
	"net/http"
	"time"

	"api/config"
	"api/database"
	"api/middleware"
	"api/models"
	"api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// tokenLifetime matches the 30-day session length of the web client
const tokenLifetime = 30 * 24 * time.Hour

// Login authenticates a user and issues a session token
// @Summary Log in
// @Description Authenticate with email and password, returning a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginRequest body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Router /auth/login [post]
func Login(c *gin.Context) {
	// Step 1: Parse the request body
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidCredentials)
		return
	}

	// Step 2: Look up the account
	var user models.User
	if err := database.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		respondWithError(c, http.StatusBadRequest, ErrInvalidCredentials)
		return
	}

	// Step 3: Verify the password
	if !utils.CheckPassword(user.Password, req.Password) {
		respondWithError(c, http.StatusBadRequest, ErrInvalidCredentials)
		return
	}

	// Step 4: Issue the session token
	token, err := GenerateToken(user.ID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}
	setCookieToken(c, token)

	c.JSON(http.StatusOK, AuthResponse{Token: token, User: userInfo(user)})
}

// RegisterUser creates a new account
// @Summary Register
// @Description Create a new account and return a session token
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerRequest body RegisterRequest true "Registration details"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} map[string]string
// @Router /auth/register [post]
func RegisterUser(c *gin.Context) {
	// Step 1: Parse the request body
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	// Step 2: Resolve the requested role; privileged roles cannot be
	// self-assigned through registration
	role := models.RoleUser
	switch req.Role {
	case "", models.RoleUser:
	case models.RoleStudent:
		role = models.RoleStudent
	default:
		respondWithError(c, http.StatusBadRequest, ErrInvalidRole)
		return
	}

	// Step 3: Hash the password and create the account
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrHashPasswordFailed)
		return
	}

	user := models.User{Email: req.Email, Password: hashed, Role: role}
	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondWithError(c, http.StatusBadRequest, ErrEmailInUse)
			return
		}
		respondWithError(c, http.StatusInternalServerError, ErrUserCreateFailed)
		return
	}

	// Step 4: Issue the session token
	token, err := GenerateToken(user.ID)
	if err != nil {
		respondWithError(c, http.StatusInternalServerError, ErrTokenGenerateFailed)
		return
	}
	setCookieToken(c, token)

	c.JSON(http.StatusCreated, AuthResponse{Token: token, User: userInfo(user)})
}

// CheckAuth returns the authenticated user's account details
// @Summary Check authentication
// @Description Return the account behind the presented token
// @Tags Auth
// @Produce json
// @Success 200 {object} UserInfo
// @Failure 401 {object} map[string]string
// @Router /auth/check [get]
// @Security Bearer
func CheckAuth(c *gin.Context) {
	user, err := middleware.GetUserFromRequest(c)
	if err != nil {
		return
	}
	c.JSON(http.StatusOK, userInfo(user))
}

// Logout clears the session cookie
// @Summary Log out
// @Description Clear the session cookie
// @Tags Auth
// @Produce json
// @Success 200 {object} map[string]string
// @Router /auth/logout [post]
func Logout(c *gin.Context) {
	c.SetCookie("auth_token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Successfully logged out"})
}

// GenerateToken signs a session token for the given user id
func GenerateToken(userID string) (string, error) {
	claims := middleware.Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.JWTSecret))
}

func userInfo(user models.User) UserInfo {
	return UserInfo{ID: user.ID, Email: user.Email, Role: user.Role, Avatar: user.Avatar}
}
