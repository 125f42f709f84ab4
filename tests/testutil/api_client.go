package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/bivex/habitpass/internal/application/dto"
)

// NewTestRequest creates a new HTTP request for testing
func NewTestRequest(method, url string, body interface{}, token string) (*http.Request, error) {
	var req *http.Request
	var err error

	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		req, err = http.NewRequest(method, url, bytes.NewReader(bodyBytes))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")
	} else {
		req, err = http.NewRequest(method, url, nil)
		if err != nil {
			return nil, err
		}
	}

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req, nil
}

// DoRequest executes a request and returns the response
func DoRequest(client *http.Client, req *http.Request) (*http.Response, []byte, error) {
	if client == nil {
		client = &http.Client{}
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(resp.Body); err != nil {
		return nil, nil, err
	}
	return resp, buf.Bytes(), nil
}

// Envelope is the success body shape
type Envelope[T any] struct {
	Data T `json:"data"`
}

// ErrorBody is the error body shape
type ErrorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Field   string `json:"field"`
}

// Decode unwraps the data field of a success body
func Decode[T any](body []byte) (T, error) {
	var env Envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		var zero T
		return zero, fmt.Errorf("failed to decode %q: %w", body, err)
	}
	return env.Data, nil
}

// APIClient calls a test server as one signed-in user
type APIClient struct {
	BaseURL string
	Token   string
	Refresh string
	UserID  string
	client  *http.Client
}

// NewAPIClient returns an anonymous client for baseURL
func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{BaseURL: baseURL, client: &http.Client{}}
}

// Do sends a request to path with the client's token
func (a *APIClient) Do(method, path string, body interface{}) (*http.Response, []byte, error) {
	req, err := NewTestRequest(method, a.BaseURL+path, body, a.Token)
	if err != nil {
		return nil, nil, err
	}
	return DoRequest(a.client, req)
}

// Register signs up and keeps the returned tokens
func (a *APIClient) Register(email, name string) (*dto.RegisterResponse, error) {
	resp, body, err := a.Do(http.MethodPost, "/v1/auth/register", dto.RegisterRequest{Email: email, Name: name})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("register returned %d: %s", resp.StatusCode, body)
	}
	out, err := Decode[dto.RegisterResponse](body)
	if err != nil {
		return nil, err
	}
	a.Token = out.AccessToken
	a.Refresh = out.RefreshToken
	a.UserID = out.UserID
	return &out, nil
}
