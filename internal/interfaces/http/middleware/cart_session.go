package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smarthomes/backend/internal/domain/cart"
	"github.com/smarthomes/backend/internal/infrastructure/logger"
	"github.com/smarthomes/backend/internal/interfaces/http/dto"
)

// CartSessionHeader selects the shopper's cart. Requests without it use
// the default cart.
const CartSessionHeader = "X-Cart-Session"

// IdempotencyKeyHeader makes a checkout retry-safe
const IdempotencyKeyHeader = "Idempotency-Key"

const cartSessionContextKey = "cart_session"

// CartSession resolves the cart session from the X-Cart-Session header
// and records it in the gin and request contexts. Malformed session names
// are rejected with 400.
func CartSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := cart.NormalizeSession(c.GetHeader(CartSessionHeader))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeValidation, "Invalid "+CartSessionHeader+" header", GetRequestID(c),
			))
			return
		}
		c.Set(cartSessionContextKey, session)
		c.Request = c.Request.WithContext(logger.WithCartSession(c.Request.Context(), session))
		c.Writer.Header().Set(CartSessionHeader, session)
		c.Next()
	}
}

// GetCartSession returns the session resolved by CartSession, or the
// default session when the middleware did not run
func GetCartSession(c *gin.Context) string {
	if session := c.GetString(cartSessionContextKey); session != "" {
		return session
	}
	return cart.DefaultSession
}
