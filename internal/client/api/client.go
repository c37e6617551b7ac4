// Package api is a thin REST client for the account service. It keeps the
// bearer token obtained at login and attaches it to profile requests.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ErrUnauthorized is returned when the server rejects the credentials or the
// bearer token. The CLI uses it to prompt for a fresh login.
var ErrUnauthorized = errors.New("unauthorized")

// Profile is the account view returned by login and profile update.
type Profile struct {
	ID     string `json:"id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}

// AccountProfile additionally carries the verification flag.
type AccountProfile struct {
	Profile
	Verified bool `json:"isVerified"`
}

// LoginResult is the login response body.
type LoginResult struct {
	AccessToken string  `json:"access_token"`
	User        Profile `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Client talks to the account service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Token returns the bearer token stored by the last successful Login.
func (c *Client) Token() string { return c.token }

func (c *Client) Register(ctx context.Context, email, password, name string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/register",
		map[string]string{"email": email, "password": password, "name": name})
}

func (c *Client) VerifyOtp(ctx context.Context, email, otp string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/verify-otp",
		map[string]string{"email": email, "otp": otp})
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var result LoginResult
	err := c.post(ctx, "/v1/user/login",
		map[string]string{"email": email, "password": password}, &result)
	if err != nil {
		return nil, err
	}
	c.token = result.AccessToken
	return &result, nil
}

func (c *Client) ResendOtp(ctx context.Context, email string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/resend-otp", map[string]string{"email": email})
}

func (c *Client) ForgotPassword(ctx context.Context, email string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/forgot-password", map[string]string{"email": email})
}

func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/reset-password",
		map[string]string{"email": email, "otp": otp, "newPassword": newPassword})
}

func (c *Client) ResendResetPasswordOtp(ctx context.Context, email string) (string, error) {
	return c.postForMessage(ctx, "/v1/user/resend-reset-password-otp", map[string]string{"email": email})
}

func (c *Client) Profile(ctx context.Context) (*AccountProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/v1/user/profile", nil)
	if err != nil {
		return nil, err
	}

	var profile AccountProfile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile sends a multipart form with the optional new name and an
// optional avatar file read from avatarPath. The mime type is derived from
// the file extension.
func (c *Client) UpdateProfile(ctx context.Context, name, avatarPath string) (*Profile, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if name != "" {
		if err := w.WriteField("name", name); err != nil {
			return nil, err
		}
	}

	if avatarPath != "" {
		data, err := os.ReadFile(avatarPath)
		if err != nil {
			return nil, fmt.Errorf("read avatar: %w", err)
		}

		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="avatar"; filename=%q`, filepath.Base(avatarPath)))
		hdr.Set("Content-Type", mimeTypeByExtension(avatarPath))

		part, err := w.CreatePart(hdr)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/v1/user/profile", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var profile Profile
	if err := c.do(req, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

func mimeTypeByExtension(path string) string {
	if t := mime.TypeByExtension(filepath.Ext(path)); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (c *Client) postForMessage(ctx context.Context, path string, body map[string]string) (string, error) {
	var resp messageResponse
	if err := c.post(ctx, path, body, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		if resp.StatusCode == http.StatusUnauthorized {
			return ErrUnauthorized
		}
		var e errorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err == nil && e.Error != "" {
			return errors.New(e.Error)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	if out == nil {
		_, err := io.Copy(io.Discard, resp.Body)
		return err
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
