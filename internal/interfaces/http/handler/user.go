package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	identityapp "github.com/smarthomes/backend/internal/application/identity"
	"github.com/smarthomes/backend/internal/domain/identity"
)

// UserHandler handles storefront account endpoints. No session or token
// is issued; login only checks the credentials.
type UserHandler struct {
	BaseHandler
	userService *identityapp.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *identityapp.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// UserMessageResponse is a message plus the account profile
type UserMessageResponse struct {
	Message string            `json:"message"`
	User    *identity.Profile `json:"user"`
}

// List returns the account profiles
// GET /api/users
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if users == nil {
		users = []identity.Profile{}
	}
	c.JSON(http.StatusOK, users)
}

// Register creates an account
// POST /api/users
func (h *UserHandler) Register(c *gin.Context) {
	var req identityapp.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	if _, err := h.userService.Register(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "User added successfully")
}

// Login checks an email and password pair
// POST /api/users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req identityapp.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	profile, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, UserMessageResponse{Message: "Login successful", User: profile})
}

// RegisterRoutes mounts the account endpoints
func (h *UserHandler) RegisterRoutes(rg *gin.RouterGroup) {
	users := rg.Group("/users")
	users.GET("", h.List)
	users.POST("", h.Register)
	users.POST("/login", h.Login)
}
