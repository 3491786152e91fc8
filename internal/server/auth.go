package server

import (
	"log"
	"mime"
	"net/http"
	"strings"

	"makemystay/internal/services"
	apperrors "makemystay/pkg/errors"
)

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// requireAuth resolves the caller before next runs. Requests without a
// valid token never reach the handler.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			log.Printf("[AUTH] Missing bearer token on %s %s", r.Method, r.URL.Path)
			writeError(w, r, apperrors.Unauthorized(services.CredentialsErrorMessage))
			return
		}

		user, err := s.identity.Resolve(r.Context(), token)
		if err != nil {
			writeError(w, r, err)
			return
		}

		next(w, r.WithContext(services.WithUser(r.Context(), user)))
	}
}

type signupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginRequest accepts "username" as an alias for "email" so OAuth2
// password-flow clients work unchanged.
type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := s.auth.Signup(r.Context(), &services.SignupPayload{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	req, err := readLogin(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	result, err := s.auth.Login(r.Context(), &services.LoginPayload{
		Email:    email,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, result)
}

func readLogin(r *http.Request) (loginRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if err := r.ParseMultipartForm(1 << 20); err != nil && err != http.ErrNotMultipart {
			return loginRequest{}, apperrors.BadRequest("Malformed form body")
		}
		return loginRequest{
			Username: r.PostFormValue("username"),
			Password: r.PostFormValue("password"),
		}, nil
	}

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		return loginRequest{}, err
	}
	return req, nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	user, err := s.auth.Me(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, user)
}
