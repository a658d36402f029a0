// Package auth talks to the remote account service. Credentials never touch
// local storage; only the issued token and user profile are kept.
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/purpleschool/purpleschool/internal/domain"
	"github.com/purpleschool/purpleschool/internal/infra/store"
)

// DefaultBaseURL is the hosted account service.
const DefaultBaseURL = "https://purpleschool-api.onrender.com"

// User is the profile the account service returns.
type User struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	School string `json:"school,omitempty"`
	Class  string `json:"className,omitempty"`
}

// Session is the persisted login state.
type Session struct {
	Token     string    `json:"token"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
}

// Credentials is the login request body. RegisterInfo extends it for signup.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	School   string `json:"school,omitempty"`
	Class    string `json:"className,omitempty"`
}

// Client is the account service client. Sessions round-trip through the
// same document store the progress engine uses, under a separate key.
type Client struct {
	baseURL string
	http    *http.Client
	kv      store.KV
	log     *logrus.Entry
}

func NewClient(baseURL string, kv store.KV) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
		kv:      kv,
		log:     logrus.StandardLogger().WithField("component", "auth"),
	}
}

// Login exchanges credentials for a session and persists it.
func (c *Client) Login(ctx context.Context, creds Credentials) (*Session, error) {
	return c.post(ctx, "/auth/login", creds)
}

// Register creates an account and persists the resulting session.
func (c *Client) Register(ctx context.Context, info RegisterInfo) (*Session, error) {
	return c.post(ctx, "/auth/register", info)
}

func (c *Client) post(ctx context.Context, path string, payload any) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode auth request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrAuthUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		var remote struct {
			Message string `json:"message"`
		}
		raw, _ := io.ReadAll(resp.Body)
		_ = json.Unmarshal(raw, &remote)
		if remote.Message == "" {
			remote.Message = http.StatusText(resp.StatusCode)
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %s", domain.ErrAuthUnavailable, remote.Message)
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrAuthRejected, remote.Message)
	}

	var result struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode auth response: %w", err)
	}
	if result.Token == "" {
		return nil, fmt.Errorf("%w: empty token in response", domain.ErrAuthUnavailable)
	}

	sess := &Session{Token: result.Token, User: result.User, CreatedAt: time.Now().UTC()}
	if err := c.saveSession(sess); err != nil {
		c.log.WithError(err).Warn("session not persisted, login valid for this run only")
	}
	c.log.WithField("user", sess.User.Name).Info("signed in")
	return sess, nil
}

// CurrentSession returns the persisted session, if any.
func (c *Client) CurrentSession() (*Session, bool) {
	data, found, err := c.kv.Load(store.KeyAuthSession)
	if err != nil || !found {
		return nil, false
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		c.log.WithError(err).Warn("stored session unreadable, treating as signed out")
		return nil, false
	}
	if sess.Token == "" {
		return nil, false
	}
	return &sess, true
}

// Logout drops the persisted session.
func (c *Client) Logout() error {
	if err := c.kv.Save(store.KeyAuthSession, []byte("{}")); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (c *Client) saveSession(sess *Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return c.kv.Save(store.KeyAuthSession, data)
}
