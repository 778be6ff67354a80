package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"fitquest/models"
)

// AuthError is a rejection from the hosted auth service, passed to the client as is.
type AuthError struct {
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth service: %d %s", e.Status, e.Message)
}

type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// Session is what sign-up (when confirmation is off) and login return.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int       `json:"expires_in"`
	RefreshToken string    `json:"refresh_token"`
	User         *AuthUser `json:"user"`
}

type SignUpRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Name     string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ProfileCreator interface {
	CreateProfile(ctx context.Context, userID, email, name string) (models.Profile, error)
}

// AuthService proxies sign-up, login and session lookups to the hosted auth REST API.
type AuthService struct {
	baseURL  string
	anonKey  string
	client   *http.Client
	profiles ProfileCreator
	logger   *slog.Logger
}

func NewAuthService(baseURL, anonKey string, profiles ProfileCreator, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		baseURL:  baseURL,
		anonKey:  anonKey,
		client:   &http.Client{Timeout: 15 * time.Second},
		profiles: profiles,
		logger:   logger.With("component", "auth"),
	}
}

// SignUp registers the account and creates its profile row. The session is nil when the
// project requires email confirmation.
func (s *AuthService) SignUp(ctx context.Context, req SignUpRequest) (*AuthUser, *Session, error) {
	body := map[string]any{
		"email":    req.Email,
		"password": req.Password,
		"data":     map[string]string{"name": req.Name},
	}
	raw, err := s.do(ctx, http.MethodPost, "/auth/v1/signup", "", body)
	if err != nil {
		return nil, nil, err
	}

	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, nil, fmt.Errorf("decode signup response: %w", err)
	}
	user := session.User
	if user == nil {
		user = &AuthUser{}
		if err := json.Unmarshal(raw, user); err != nil {
			return nil, nil, fmt.Errorf("decode signup user: %w", err)
		}
	}
	if user.ID == "" {
		return nil, nil, fmt.Errorf("signup response has no user id")
	}

	if s.profiles != nil {
		if _, err := s.profiles.CreateProfile(ctx, user.ID, user.Email, req.Name); err != nil {
			s.logger.ErrorContext(ctx, "could not create profile row", "user_id", user.ID, "error", err)
		}
	}
	if session.AccessToken == "" {
		return user, nil, nil
	}
	return user, &session, nil
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*Session, error) {
	raw, err := s.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", "", req)
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	return &session, nil
}

func (s *AuthService) Logout(ctx context.Context, accessToken string) error {
	_, err := s.do(ctx, http.MethodPost, "/auth/v1/logout", accessToken, nil)
	return err
}

func (s *AuthService) User(ctx context.Context, accessToken string) (*AuthUser, error) {
	raw, err := s.do(ctx, http.MethodGet, "/auth/v1/user", accessToken, nil)
	if err != nil {
		return nil, err
	}
	var user AuthUser
	if err := json.Unmarshal(raw, &user); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) do(ctx context.Context, method, path, accessToken string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")
	bearer := s.anonKey
	if accessToken != "" {
		bearer = accessToken
	}
	req.Header.Set("Authorization", "Bearer "+bearer)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("auth request error: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read auth response error: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &AuthError{Status: resp.StatusCode, Message: authMessage(raw)}
	}
	return raw, nil
}

// authMessage pulls the human readable message out of an auth error body.
func authMessage(raw []byte) string {
	var e struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
		Error            string `json:"error"`
	}
	if json.Unmarshal(raw, &e) == nil {
		for _, m := range []string{e.Msg, e.ErrorDescription, e.Message, e.Error} {
			if m != "" {
				return m
			}
		}
	}
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return string(raw)
}
