package auth

import (
	"net/http"
	"strings"

	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/config"
	"github.com/tdaniel1925/botmakers-ai-campaign-dashboard-sub000/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	RoleAdmin = "admin"
	RoleSales = "sales"

	ctxRoleKey = "auth_role"
	ctxUserKey = "auth_user"
)

// Middleware resolves the bearer API key to a role and, for sales reps, the
// owning user row. The admin key comes from config; sales keys live on the
// users table.
type Middleware struct {
	cfg *config.Config
	db  *gorm.DB
}

func NewMiddleware(cfg *config.Config, db *gorm.DB) *Middleware {
	return &Middleware{cfg: cfg, db: db}
}

func (m *Middleware) resolve(c *gin.Context) (string, *models.User, bool) {
	key := c.GetHeader("Authorization")
	key = strings.TrimPrefix(key, "Bearer ")
	if key == "" {
		key = c.GetHeader("X-API-Key")
	}
	if key == "" {
		return "", nil, false
	}

	if m.cfg.AdminAPIKey != "" && key == m.cfg.AdminAPIKey {
		return RoleAdmin, nil, true
	}

	var user models.User
	if err := m.db.Where("api_key = ? AND active = ?", key, true).First(&user).Error; err != nil {
		return "", nil, false
	}
	return user.Role, &user, true
}

// RequireAdmin guards the admin portal routes.
func (m *Middleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, user, ok := m.resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid API key"})
			return
		}
		if role != RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Set(ctxRoleKey, role)
		if user != nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

// RequireSales guards the sales CRM routes. Admin keys pass too but carry no
// user identity, so user-scoped endpoints reject them.
func (m *Middleware) RequireSales() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, user, ok := m.resolve(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid API key"})
			return
		}
		c.Set(ctxRoleKey, role)
		if user != nil {
			c.Set(ctxUserKey, user)
		}
		c.Next()
	}
}

// CurrentUser returns the sales user resolved from the API key, if any.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Role returns the resolved role for the request.
func Role(c *gin.Context) string {
	return c.GetString(ctxRoleKey)
}
