package main

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"caseiq/models"
)

// authMiddleware resolves the bearer token to an active user on every
// request. Inactive accounts are treated as not found, so deactivation kills
// outstanding tokens immediately even before they expire.
func authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		email, err := parseToken(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		var user models.User
		if err := db.Where("email = ? AND status = ?", email, models.StatusActive).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}
		c.Set("user", user)
		c.Next()
	}
}

func currentUser(c *gin.Context) models.User {
	return c.MustGet("user").(models.User)
}

// requireAdmin gates admin-only endpoints.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireAnalyst gates analyst-only endpoints.
func requireAnalyst() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentUser(c).Role != models.RoleAnalyst {
			c.JSON(http.StatusForbidden, gin.H{"error": "analyst access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// requireClientAccess is the ownership gate run by every sub-resource
// handler: the client must exist (404 otherwise), and the requester must be
// an Admin or the client's currently assigned Analyst (403 otherwise). The
// check runs against the database each call, so a reassignment takes effect
// on the very next request. 404 and 403 are deliberately distinct: a missing
// client and a denied client must not be confusable.
func requireClientAccess(c *gin.Context) (models.Client, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return models.Client{}, false
	}
	var client models.Client
	if err := db.Where("id = ?", id).First(&client).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "client not found"})
		return models.Client{}, false
	}
	user := currentUser(c)
	if user.Role == models.RoleAnalyst && (client.AnalystID == nil || *client.AnalystID != user.ID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return models.Client{}, false
	}
	return client, true
}
