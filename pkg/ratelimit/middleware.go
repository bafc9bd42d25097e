package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"

	"github.com/svstupireburgh/FeelmeTown-sub000/internal/shared/utils/response"
	"github.com/svstupireburgh/FeelmeTown-sub000/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the Redis sliding-window budget for the matched route
func Middleware(rateLimiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Get client IP
		clientIP := getClientIP(c)

		// Determine rate limit type from route
		limitType := getRateLimitType(c.FullPath())

		// Check rate limit
		result, err := rateLimiter.IsAllowed(c.Request.Context(), clientIP, limitType)
		if err != nil {
			response.RespondJSON(c, "error", http.StatusInternalServerError,
				"Rate limit check failed", nil, nil)
			c.Abort()
			return
		}

		// Set rate limit headers
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", result.ResetTime))

		// Check if rate limited
		if !result.Allowed {
			logger.GetDefault().LogRateLimitExceeded(c.Request.Context(), clientIP, c.FullPath())
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Rate limit exceeded", nil, map[string]interface{}{
					"limit":      result.Limit,
					"reset_time": result.ResetTime,
				})
			c.Abort()
			return
		}

		c.Next()
	}
}

// getRateLimitType classifies a route template into a request budget
func getRateLimitType(path string) RateLimitType {
	switch {
	case strings.HasPrefix(path, "/health"),
		strings.HasPrefix(path, "/ping"),
		strings.HasPrefix(path, "/status"):
		return RateLimitTypeHealth

	case strings.Contains(path, "/admin/"),
		strings.Contains(path, "/catalog/refresh"):
		return RateLimitTypeAdmin

	// Coupon validation is the easiest endpoint to brute force
	case strings.Contains(path, "/coupon"):
		return RateLimitTypeCoupon

	// Steps that reach the payment gateway or create bookings
	case strings.Contains(path, "/wizard/") && (strings.HasSuffix(path, "/checkout") ||
		strings.Contains(path, "/payment/")),
		strings.HasSuffix(path, "/bookings"):
		return RateLimitTypeWizardCritical

	// Every field edit in the wizard is a request, so this budget is generous
	case strings.Contains(path, "/wizard"):
		return RateLimitTypeWizard

	case strings.Contains(path, "/catalog"),
		strings.Contains(path, "/bookings/slots"):
		return RateLimitTypePublic

	default:
		return RateLimitTypeDefault
	}
}

// extracts real client IP
func getClientIP(c *gin.Context) string {
	// Check X-Forwarded-For header
	xForwardedFor := c.GetHeader("X-Forwarded-For")
	if xForwardedFor != "" {
		ips := strings.Split(xForwardedFor, ",")
		if len(ips) > 0 {
			ip := strings.TrimSpace(ips[0])
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	// Check X-Real-IP header
	xRealIP := c.GetHeader("X-Real-IP")
	if xRealIP != "" {
		if net.ParseIP(xRealIP) != nil {
			return xRealIP
		}
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}

	return ip
}
