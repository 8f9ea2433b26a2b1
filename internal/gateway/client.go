// Package gateway is the typed HTTP client for the remote backend that owns
// users, lessons, grading and audio. It holds no state of its own: every
// call is at-most-once, runs under an explicit timeout, and reports any
// non-200 status as a *BackendError for the caller to handle.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/suracI-invert/mock-frontend/internal/models"
)

// BackendError reports a non-success status from a backend operation.
type BackendError struct {
	Op         string
	StatusCode int
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: unexpected status %d", e.Op, e.StatusCode)
}

type Client struct {
	baseURL       string
	httpClient    *http.Client
	timeout       time.Duration
	streamTimeout time.Duration
}

// NewClient builds a gateway client. timeout bounds every non-streaming
// call; streamTimeout bounds the whole lifetime of a chat stream.
func NewClient(baseURL string, timeout, streamTimeout time.Duration) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{},
		timeout:       timeout,
		streamTimeout: streamTimeout,
	}
}

func (c *Client) endpoint(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func newJSONRequest(ctx context.Context, method, url string, body any) (*http.Request, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

func (c *Client) doJSON(ctx context.Context, op, method, path string, body, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path), reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &BackendError{Op: op, StatusCode: resp.StatusCode}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%s: decode response: %w", op, err)
		}
	}
	return nil
}

func (c *Client) CreateUser(ctx context.Context, req models.CreateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "create user", http.MethodPost, "user/v1/create", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUser(ctx context.Context, req models.UpdateUserRequest) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "update user", http.MethodPost, "user/v1/update", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUser(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := c.doJSON(ctx, "get user", http.MethodGet, "user/v1/"+url.PathEscape(email), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListLessons(ctx context.Context) ([]models.Lesson, error) {
	var lessons []models.Lesson
	if err := c.doJSON(ctx, "list lessons", http.MethodGet, "lesson/v1/list", nil, &lessons); err != nil {
		return nil, err
	}
	return lessons, nil
}

func (c *Client) GetLesson(ctx context.Context, id int) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := c.doJSON(ctx, "get lesson", http.MethodGet, fmt.Sprintf("lesson/v1/%d", id), nil, &lesson); err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (c *Client) GenerateContent(ctx context.Context, req models.GenerateContentRequest) (*models.GeneratedContent, error) {
	var resp struct {
		Content models.GeneratedContent `json:"content"`
	}
	if err := c.doJSON(ctx, "generate lesson content", http.MethodPost, "lesson/v1/generate", req, &resp); err != nil {
		return nil, err
	}
	return &resp.Content, nil
}

func (c *Client) UploadLesson(ctx context.Context, req models.UploadLessonRequest) error {
	return c.doJSON(ctx, "upload lesson", http.MethodPost, "lesson/v1/upload", req, nil)
}

func (c *Client) GradeExercise(ctx context.Context, req models.GradeRequest) (*models.Grade, error) {
	var grade models.Grade
	if err := c.doJSON(ctx, "grade exercise", http.MethodPost, "exercise/v1/grade", req, &grade); err != nil {
		return nil, err
	}
	return &grade, nil
}

// SpeechToText uploads raw audio bytes and returns the transcript.
func (c *Client) SpeechToText(ctx context.Context, audio []byte) (string, error) {
	const op = "speech to text"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("resources/v1/audio/text"), bytes.NewReader(audio))
	if err != nil {
		return "", fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &BackendError{Op: op, StatusCode: resp.StatusCode}
	}

	var out struct {
		Transcript string `json:"transcript"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s: decode response: %w", op, err)
	}
	return out.Transcript, nil
}

// TextToSpeech asks the backend to synthesize audio for a transcript and
// returns the uid of the stored asset.
func (c *Client) TextToSpeech(ctx context.Context, transcript string) (string, error) {
	var out struct {
		UID string `json:"uid"`
	}
	body := map[string]string{"transcript": transcript}
	if err := c.doJSON(ctx, "text to speech", http.MethodPost, "resources/v1/audio/convert", body, &out); err != nil {
		return "", err
	}
	return out.UID, nil
}

// AudioURL returns the public URL of a synthesized audio asset.
func (c *Client) AudioURL(uid string) string {
	return c.endpoint("resources/v1/audio/" + url.PathEscape(uid))
}

// FetchAudio relays a stored audio asset. The caller owns the returned bytes.
func (c *Client) FetchAudio(ctx context.Context, uid string) ([]byte, string, error) {
	const op = "fetch audio"

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.AudioURL(uid), nil)
	if err != nil {
		return nil, "", fmt.Errorf("%s: build request: %w", op, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", &BackendError{Op: op, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%s: read body: %w", op, err)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
