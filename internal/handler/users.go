package handler

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dkoroteev/auth-service/internal/middleware"
	"github.com/dkoroteev/auth-service/internal/model"
	"github.com/dkoroteev/auth-service/internal/repository"
	"github.com/dkoroteev/auth-service/internal/service"
)

// UserDirectory is the read surface of the user store that the user
// endpoints need.
type UserDirectory interface {
	List(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id string) (model.User, error)
}

// UserHandler serves the protected user endpoints. Creation goes through
// the identity service so that hashing and id assignment stay in one
// place.
type UserHandler struct {
	Users    UserDirectory
	Identity *service.Identity
}

func NewUserHandler(users UserDirectory, identity *service.Identity) *UserHandler {
	return &UserHandler{Users: users, Identity: identity}
}

type createUserReq struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Age      *int   `json:"age"`
}

// List returns all users, newest first, without password hashes.
func (h *UserHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	users, err := h.Users.List(ctx)
	if err != nil {
		log.Printf("users: list failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]userPart, 0, len(users))
	for _, u := range users {
		out = append(out, publicProfile(u))
	}
	return c.JSON(http.StatusOK, out)
}

// Get returns a single user by id.
func (h *UserHandler) Get(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByID(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		log.Printf("users: get failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, publicProfile(u))
}

// Create adds a user account without establishing a session. Only admins
// may call it; the gate has already authenticated the request, so the role
// check here is the authorization step. Accounts created this way still
// get the default non-privileged role.
func (h *UserHandler) Create(c echo.Context) error {
	role, _ := c.Get(middleware.RoleKey).(string)
	if role != model.RoleAdmin {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}

	var req createUserReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Identity.Create(ctx, req.Name, req.Email, req.Password, req.Age)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "email already exists"})
		}
		log.Printf("users: create failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
	}
	return c.JSON(http.StatusCreated, publicProfile(u))
}
