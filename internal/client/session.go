// Package client keeps a user's working set of job applications in sync with
// the job tracker API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/spec-kit/job-tracker/internal/api/dto"
	"github.com/spec-kit/job-tracker/internal/domain"
	"github.com/spec-kit/job-tracker/internal/filter"
	"github.com/spec-kit/job-tracker/internal/stats"
)

const (
	defaultTimeout = 10 * time.Second

	msgRequestFailed = "Request failed"
	msgSaveFailed    = "Failed to save application"
	msgDeleteFailed  = "Failed to delete application"
)

// Config points a Session at a server.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Session holds one user's credential and working set. Network operations
// run one at a time; a Load superseded by a newer Load is discarded.
type Session struct {
	baseURL string
	timeout time.Duration
	hc      *http.Client
	logger  *zap.Logger

	reqMu sync.Mutex

	mu      sync.RWMutex
	token   string
	user    *dto.UserSummary
	apps    []domain.Application
	loadSeq uint64
}

// NewSession builds a session. A nil logger disables logging.
func NewSession(cfg Config, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Session{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		timeout: timeout,
		hc:      hc,
		logger:  logger,
		apps:    []domain.Application{},
	}
}

// Authenticated reports whether the session holds a credential.
func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token != ""
}

// User returns the signed in user, if any.
func (s *Session) User() (dto.UserSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return dto.UserSummary{}, false
	}
	return *s.user, true
}

// Applications returns a copy of the working set.
func (s *Session) Applications() []domain.Application {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Application, len(s.apps))
	copy(out, s.apps)
	return out
}

// Filter narrows the working set without touching it.
func (s *Session) Filter(c filter.Criteria) []domain.Application {
	return filter.Apply(s.Applications(), c)
}

// Dashboard recomputes every statistic from the working set.
func (s *Session) Dashboard(ctx stats.Context) stats.Dashboard {
	return stats.BuildDashboard(ctx, s.Applications())
}

// Register creates an account and signs in with it.
func (s *Session) Register(ctx context.Context, name, email, password string) (dto.UserSummary, error) {
	return s.authenticate(ctx, "/api/auth/register", dto.RegisterRequest{Name: name, Email: email, Password: password})
}

// Login signs in and empties the previous user's working set.
func (s *Session) Login(ctx context.Context, email, password string) (dto.UserSummary, error) {
	return s.authenticate(ctx, "/api/auth/login", dto.LoginRequest{Email: email, Password: password})
}

func (s *Session) authenticate(ctx context.Context, path string, payload any) (dto.UserSummary, error) {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	var resp dto.AuthResponse
	if err := s.do(ctx, http.MethodPost, path, "", payload, &resp); err != nil {
		return dto.UserSummary{}, err
	}

	s.mu.Lock()
	s.token = resp.Token
	user := resp.User
	s.user = &user
	s.apps = []domain.Application{}
	s.loadSeq++
	s.mu.Unlock()

	s.logger.Debug("signed in", zap.String("user_id", user.ID))
	return user, nil
}

// Logout discards the credential and the working set. The server call is
// best effort since tokens are stateless.
func (s *Session) Logout(ctx context.Context) error {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	token := s.currentToken()
	var err error
	if token != "" {
		err = s.do(ctx, http.MethodPost, "/api/auth/logout", token, nil, nil)
	}

	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.apps = []domain.Application{}
	s.loadSeq++
	s.mu.Unlock()
	return err
}

// Me fetches the signed in user's profile.
func (s *Session) Me(ctx context.Context) (dto.UserResponse, error) {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	token := s.currentToken()
	if token == "" {
		return dto.UserResponse{}, ErrNotAuthenticated
	}
	var resp dto.UserResponse
	if err := s.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &resp); err != nil {
		return dto.UserResponse{}, err
	}
	return resp, nil
}

// Load replaces the working set with the server's records for status
// ("" or "all" for every record). Without a credential the working set is
// emptied and nil returned.
func (s *Session) Load(ctx context.Context, status string) error {
	s.mu.Lock()
	s.loadSeq++
	seq := s.loadSeq
	token := s.token
	if token == "" {
		s.apps = []domain.Application{}
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	path := "/api/applications"
	if status != "" && status != domain.StatusAll {
		path += "?status=" + url.QueryEscape(status)
	}

	var resp []dto.ApplicationResponse
	if err := s.do(ctx, http.MethodGet, path, token, nil, &resp); err != nil {
		return fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	apps := make([]domain.Application, 0, len(resp))
	for _, r := range resp {
		app, err := r.ToDomain()
		if err != nil {
			return fmt.Errorf("%w: decode %s: %w", ErrLoadFailed, r.ID, err)
		}
		apps = append(apps, app)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.loadSeq {
		s.logger.Debug("discarding superseded load", zap.Uint64("seq", seq))
		return nil
	}
	s.apps = apps
	return nil
}

// Create stores a record and appends the server's copy to the working set.
func (s *Session) Create(ctx context.Context, in dto.ApplicationRequest) (domain.Application, error) {
	if err := validateInput(in); err != nil {
		return domain.Application{}, err
	}
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	token := s.currentToken()
	if token == "" {
		return domain.Application{}, ErrNotAuthenticated
	}
	app, err := s.save(ctx, http.MethodPost, "/api/applications", token, in)
	if err != nil {
		return domain.Application{}, err
	}

	s.mu.Lock()
	s.apps = append(s.apps, app)
	s.mu.Unlock()
	return app, nil
}

// Update replaces a record and swaps the server's copy in at the same position.
func (s *Session) Update(ctx context.Context, id string, in dto.ApplicationRequest) (domain.Application, error) {
	if err := validateInput(in); err != nil {
		return domain.Application{}, err
	}
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	token := s.currentToken()
	if token == "" {
		return domain.Application{}, ErrNotAuthenticated
	}
	app, err := s.save(ctx, http.MethodPut, "/api/applications/"+url.PathEscape(id), token, in)
	if err != nil {
		return domain.Application{}, err
	}

	s.mu.Lock()
	for i := range s.apps {
		if s.apps[i].ID == app.ID {
			s.apps[i] = app
			break
		}
	}
	s.mu.Unlock()
	return app, nil
}

// Delete removes a record from the server and the working set.
func (s *Session) Delete(ctx context.Context, id string) error {
	s.reqMu.Lock()
	defer s.reqMu.Unlock()

	token := s.currentToken()
	if token == "" {
		return ErrNotAuthenticated
	}
	if err := s.do(ctx, http.MethodDelete, "/api/applications/"+url.PathEscape(id), token, nil, nil); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			apiErr.Message = msgDeleteFailed
		}
		return err
	}

	s.mu.Lock()
	for i := range s.apps {
		if s.apps[i].ID == id {
			s.apps = append(s.apps[:i:i], s.apps[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	return nil
}

func (s *Session) save(ctx context.Context, method, path, token string, in dto.ApplicationRequest) (domain.Application, error) {
	var resp dto.ApplicationResponse
	if err := s.do(ctx, method, path, token, in, &resp); err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && (apiErr.Message == "" || apiErr.Message == msgRequestFailed) {
			apiErr.Message = msgSaveFailed
		}
		return domain.Application{}, err
	}
	app, err := resp.ToDomain()
	if err != nil {
		return domain.Application{}, &APIError{Message: msgSaveFailed, Err: err}
	}
	return app, nil
}

func (s *Session) currentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func validateInput(in dto.ApplicationRequest) error {
	if strings.TrimSpace(in.JobTitle) == "" || strings.TrimSpace(in.Company) == "" || strings.TrimSpace(in.Date) == "" {
		return ErrInvalidInput
	}
	return nil
}

// do runs one request under the session timeout. Non-2xx responses become
// *APIError carrying the server's message when it sent one.
func (s *Session) do(ctx context.Context, method, path, token string, payload, out any) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := s.hc.Do(req)
	if err != nil {
		return &APIError{Message: msgRequestFailed, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return &APIError{Status: res.StatusCode, Message: msgRequestFailed, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		msg := gjson.GetBytes(raw, "message").String()
		if msg == "" {
			msg = msgRequestFailed
		}
		s.logger.Debug("request rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", res.StatusCode),
			zap.String("message", msg))
		return &APIError{Status: res.StatusCode, Message: msg}
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &APIError{Status: res.StatusCode, Message: msgRequestFailed, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
