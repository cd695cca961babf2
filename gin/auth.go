package gin

import (
	"crypto/subtle"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CookieName holds the session token.
const CookieName = "auth_token"

// SessionTTL is how long a login stays valid.
const SessionTTL = 24 * time.Hour

// Sessions checks credentials and tracks issued tokens in memory. Tokens do
// not survive a restart.
type Sessions struct {
	username string
	password string

	// Secure marks the cookie Secure. Enable it behind TLS.
	Secure bool

	// Now defaults to time.Now.
	Now func() time.Time

	mu     sync.Mutex
	tokens map[string]session
}

type session struct {
	username string
	expires  time.Time
}

// NewSessions creates a Sessions accepting one username and password.
func NewSessions(username, password string) *Sessions {
	return &Sessions{
		username: username,
		password: password,
		tokens:   make(map[string]session),
	}
}

func (s *Sessions) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

// Login returns a new token when the credentials match. Empty configured
// credentials never match.
func (s *Sessions) Login(username, password string) (string, bool) {
	if s.username == "" || s.password == "" {
		return "", false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) == 1
	if !userOK || !passOK {
		return "", false
	}

	token := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prune()
	s.tokens[token] = session{username: username, expires: s.now().Add(SessionTTL)}
	return token, true
}

// User returns the username owning token.
func (s *Sessions) User(token string) (string, bool) {
	if token == "" {
		return "", false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.tokens[token]
	if !ok {
		return "", false
	}
	if !s.now().Before(sess.expires) {
		delete(s.tokens, token)
		return "", false
	}
	return sess.username, true
}

// Logout revokes token.
func (s *Sessions) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// prune drops expired tokens. Callers hold mu.
func (s *Sessions) prune() {
	now := s.now()
	for token, sess := range s.tokens {
		if !now.Before(sess.expires) {
			delete(s.tokens, token)
		}
	}
}

func (s *Server) setCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(CookieName, value, maxAge, "/", "", s.Sessions.Secure, true)
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and password are required"})
		return
	}
	token, ok := s.Sessions.Login(req.Username, req.Password)
	if !ok {
		s.Logger.Warn("login failed", "username", req.Username, "client_ip", c.ClientIP())
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	s.setCookie(c, token, int(SessionTTL.Seconds()))
	c.JSON(http.StatusOK, gin.H{"message": "logged in", "username": req.Username})
}

func (s *Server) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(CookieName); err == nil {
		s.Sessions.Logout(token)
	}
	s.setCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

func (s *Server) handleUser(c *gin.Context) {
	username, ok := s.currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"username": username})
}

func (s *Server) currentUser(c *gin.Context) (string, bool) {
	token, err := c.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	return s.Sessions.User(token)
}

// requireAuth rejects requests without a live session cookie.
func (s *Server) requireAuth(c *gin.Context) {
	username, ok := s.currentUser(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}
	c.Set("username", username)
	c.Next()
}
