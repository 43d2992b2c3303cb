// internal/middleware/helpers.go
package middleware

import "github.com/gin-gonic/gin"

// GetAccountID gets the authenticated account ID from context.
func GetAccountID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("account_id")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// MustGetAccountID gets the account ID from context or panics. Only for
// handlers mounted behind Auth().
func MustGetAccountID(c *gin.Context) int64 {
	id, exists := GetAccountID(c)
	if !exists {
		panic("account_id not found in context")
	}
	return id
}

// GetJTI gets the token ID from context.
func GetJTI(c *gin.Context) (string, bool) {
	v, exists := c.Get("jti")
	if !exists {
		return "", false
	}
	jti, ok := v.(string)
	return jti, ok
}

// MustGetJTI gets the token ID from context or panics.
func MustGetJTI(c *gin.Context) string {
	jti, exists := GetJTI(c)
	if !exists {
		panic("jti not found in context")
	}
	return jti
}

// GetRole gets the token role from context, empty when unauthenticated.
func GetRole(c *gin.Context) string {
	v, exists := c.Get("role")
	if !exists {
		return ""
	}
	role, _ := v.(string)
	return role
}
