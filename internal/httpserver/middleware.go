package httpserver

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"brassmart/internal/auth"
)

const (
	customerCookie = "customer_token"
	sessionCookie  = "cart_session"

	cookieMaxAge = 30 * 24 * 60 * 60

	ctxCustomerID    = "customerID"
	ctxCustomerEmail = "customerEmail"
	ctxSessionID     = "sessionID"
)

func setCustomerCookie(c *gin.Context, token string) {
	c.SetCookie(customerCookie, token, cookieMaxAge, "/", "", false, true)
}

func clearCustomerCookie(c *gin.Context) {
	c.SetCookie(customerCookie, "", -1, "/", "", false, true)
}

// requireCustomer guards routes behind a valid session token. A missing
// cookie is rejected; an invalid one is rejected and cleared so the browser
// stops presenting it.
func requireCustomer(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(customerCookie)
		if err != nil || token == "" {
			fail(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}
		claims, err := tokens.Validate(token)
		if err != nil {
			clearCustomerCookie(c)
			fail(c, http.StatusUnauthorized, "Session expired")
			c.Abort()
			return
		}
		c.Set(ctxCustomerID, claims.CustomerID)
		c.Set(ctxCustomerEmail, claims.Email)
		c.Next()
	}
}

// withSession assigns an anonymous session id cookie for cart and wishlist
// state, creating one on first contact.
func withSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || id == "" {
			id = uuid.NewString()
			c.SetCookie(sessionCookie, id, cookieMaxAge, "/", "", false, true)
		}
		c.Set(ctxSessionID, id)
		c.Next()
	}
}

// ipLimiter keeps a token bucket per client IP.
type ipLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPLimiter(limit rate.Limit, burst int) *ipLimiter {
	return &ipLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipLimiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	lim, ok := l.limiters[ip]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = lim
	}
	return lim.Allow()
}

// rateLimit throttles per client IP. Used on the OTP and verification send
// routes so a single client cannot spam the mailer.
func rateLimit(l *ipLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			fail(c, http.StatusTooManyRequests, "Too many requests, slow down")
			c.Abort()
			return
		}
		c.Next()
	}
}
