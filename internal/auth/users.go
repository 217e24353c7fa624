package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// UsersHandler serves account management. Listing, creating and deleting
// accounts is admin only; an account may update itself.
type UsersHandler struct {
	Repo *Repo
}

func NewUsersHandler(repo *Repo) *UsersHandler {
	return &UsersHandler{Repo: repo}
}

func (h *UsersHandler) RegisterRoutes(rg *gin.RouterGroup, authed gin.HandlerFunc) {
	admin := RequireAdmin()
	rg.GET("", authed, admin, h.list)
	rg.POST("", authed, admin, h.create)
	rg.PUT("", authed, h.update)
	rg.DELETE("", authed, admin, h.remove)
}

type userView struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

func viewOf(u User) userView {
	return userView{ID: u.ID, Username: u.Username, Email: u.Email, Role: u.Role, CreatedAt: u.CreatedAt}
}

type createUserReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// updateUserReq fields left empty keep their current value.
type updateUserReq struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func validRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

func (h *UsersHandler) list(c *gin.Context) {
	users, err := h.Repo.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list users failed"})
		return
	}
	out := make([]userView, 0, len(users))
	for _, u := range users {
		out = append(out, viewOf(u))
	}
	c.JSON(http.StatusOK, out)
}

func (h *UsersHandler) create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Role == "" {
		req.Role = RoleUser
	}

	if msg := checkAccount(req.Username, req.Email); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if msg := checkPassword(req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if !validRole(req.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	ctx := c.Request.Context()
	if u, _ := h.Repo.GetByEmail(ctx, req.Email); u != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		return
	}
	if u, _ := h.Repo.GetByUsername(ctx, req.Username); u != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
		return
	}
	u := User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
	}
	if err := h.Repo.CreateUser(ctx, u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}
	created, err := h.Repo.GetByID(ctx, u.ID)
	if err != nil || created == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create user failed"})
		return
	}
	c.JSON(http.StatusCreated, viewOf(*created))
}

func (h *UsersHandler) update(c *gin.Context) {
	var req updateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.ID) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}

	claims := MustGetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}
	if !claims.IsAdmin() && claims.UserID != req.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "cannot update another user"})
		return
	}
	if req.Role != "" && !claims.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "admin only"})
		return
	}

	ctx := c.Request.Context()
	u, err := h.Repo.GetByID(ctx, req.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	if u == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if v := strings.TrimSpace(req.Username); v != "" {
		u.Username = v
	}
	if v := strings.TrimSpace(strings.ToLower(req.Email)); v != "" {
		u.Email = v
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
			return
		}
		u.Role = req.Role
	}
	if msg := checkAccount(u.Username, u.Email); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}
	if other, _ := h.Repo.GetByEmail(ctx, u.Email); other != nil && other.ID != u.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "email already exists"})
		return
	}
	if other, _ := h.Repo.GetByUsername(ctx, u.Username); other != nil && other.ID != u.ID {
		c.JSON(http.StatusConflict, gin.H{"error": "username already exists"})
		return
	}

	if req.Password != "" {
		if msg := checkPassword(req.Password); msg != "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": msg})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash failed"})
			return
		}
		if err := h.Repo.UpdatePasswordAndBumpTokenVersion(ctx, u.ID, string(hash)); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
			return
		}
	}
	if err := h.Repo.UpdateProfile(ctx, *u); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update user failed"})
		return
	}
	c.JSON(http.StatusOK, viewOf(*u))
}

func (h *UsersHandler) remove(c *gin.Context) {
	id := strings.TrimSpace(c.Query("id"))
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "id required"})
		return
	}
	if claims := MustGetClaims(c); claims != nil && claims.UserID == id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cannot delete your own account"})
		return
	}
	if err := h.Repo.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete user failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}
