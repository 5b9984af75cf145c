package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/urbanlens/mobilitydb/internal/store"
)

// sessionTTL is how long a login token stays valid.
const sessionTTL = 12 * time.Hour

type session struct {
	username string
	expires  time.Time
}

// sessionManager issues and resolves opaque bearer tokens. Tokens live only
// in memory; a restart logs everyone out.
type sessionManager struct {
	mu       sync.Mutex
	sessions map[string]session
}

func newSessionManager() *sessionManager {
	return &sessionManager{sessions: make(map[string]session)}
}

func (m *sessionManager) create(username string) string {
	token := uuid.NewString()
	m.mu.Lock()
	m.sessions[token] = session{username: username, expires: time.Now().Add(sessionTTL)}
	m.mu.Unlock()
	return token
}

func (m *sessionManager) resolve(token string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	if !ok {
		return "", false
	}
	if time.Now().After(sess.expires) {
		delete(m.sessions, token)
		return "", false
	}
	return sess.username, true
}

func (m *sessionManager) revoke(token string) {
	m.mu.Lock()
	delete(m.sessions, token)
	m.mu.Unlock()
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(auth, prefix))
}

// authMiddleware protects the API routes. Health, metrics and the auth
// endpoints themselves stay open. When no account has been registered yet
// the API is open too, so a fresh instance is usable before anyone sets up
// credentials.
func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if path == "/healthz" || path == "/metrics" || strings.HasPrefix(path, "/auth/") {
			next.ServeHTTP(w, r)
			return
		}
		if s.store.UserCount() == 0 {
			next.ServeHTTP(w, r)
			return
		}

		if _, ok := s.sessions.resolve(bearerToken(r)); !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			s.writeHTTPError(w, http.StatusUnauthorized, "missing or invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// handleRegister creates an account. When an admin token is configured the
// request must carry it; otherwise registration is open (useful for local
// setups).
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	if s.cfg.AdminToken != "" && bearerToken(r) != s.cfg.AdminToken {
		s.writeHTTPError(w, http.StatusForbidden, "registration requires the admin token")
		return
	}

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected username and password")
		return
	}
	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || len(req.Password) < 8 {
		s.writeHTTPError(w, http.StatusBadRequest, "username required and password must be at least 8 characters")
		return
	}
	if _, exists := s.store.UserByName(req.Username); exists {
		s.writeHTTPError(w, http.StatusConflict, "username already taken")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.writeHTTPError(w, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := store.User{Username: req.Username, PasswordHash: hash}
	s.store.PutUser(user)
	if s.log != nil {
		if err := store.LogUser(s.log, user); err != nil {
			slog.Error("could not persist user", "username", user.Username, "error", err)
		}
	}

	slog.Info("user registered", "username", user.Username)
	s.writeHTTPResponse(w, http.StatusCreated, map[string]string{"username": user.Username})
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeHTTPError(w, http.StatusBadRequest, "invalid JSON, expected username and password")
		return
	}

	user, ok := s.store.UserByName(strings.TrimSpace(req.Username))
	if !ok || bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(req.Password)) != nil {
		// Same answer for unknown user and wrong password.
		s.writeHTTPError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token := s.sessions.create(user.Username)
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{
		"token":      token,
		"token_type": "Bearer",
	})
}

// handleLogout revokes the caller's session token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		s.writeHTTPError(w, http.StatusBadRequest, "no bearer token supplied")
		return
	}
	s.sessions.revoke(token)
	s.writeHTTPResponse(w, http.StatusOK, map[string]string{"status": "OK"})
}
