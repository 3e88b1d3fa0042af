package elevenlabs

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/interviewkit/jordan/core/conversationalai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultAPIBase = "https://api.elevenlabs.io/v1"
	defaultWSBase  = "wss://api.elevenlabs.io/v1"
)

// Client holds the credentials and endpoints for the ElevenLabs
// Conversational AI service. One client can open any number of consecutive
// conversations against the same agent.
type Client struct {
	agentID string
	apiKey  string
	apiBase string
	wsBase  string

	httpClient *http.Client
}

type ClientOption func(*Client)

func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

func WithAPIBase(apiBase string) ClientOption {
	return func(c *Client) { c.apiBase = apiBase }
}

func WithWSBase(wsBase string) ClientOption {
	return func(c *Client) { c.wsBase = wsBase }
}

func NewClient(agentID string, opts ...ClientOption) (*Client, error) {
	if agentID == "" {
		return nil, fmt.Errorf("agent ID is required")
	}

	client := &Client{
		agentID: agentID,
		apiBase: defaultAPIBase,
		wsBase:  defaultWSBase,
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
	}
	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// RequiresAuth reports whether conversations are opened through a signed
// websocket URL. Auth is assumed required whenever an API key is configured.
func (c *Client) RequiresAuth() bool {
	return c.apiKey != ""
}

// NewConversation binds a conversation to an audio interface and the
// caller's callbacks. The provider session is not opened until StartSession.
func (c *Client) NewConversation(audioInterface conversationalai.AudioInterface, opts ...conversationalai.SessionOption) *Conversation {
	options := conversationalai.SessionOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	return &Conversation{
		client:         c,
		audioInterface: audioInterface,
		options:        options,
		tools:          newClientToolRegistry(options.ClientTools),
		done:           make(chan struct{}),
	}
}

func (c *Client) conversationURL(ctx context.Context) (string, error) {
	if !c.RequiresAuth() {
		conversationURL, err := url.Parse(c.wsBase + "/convai/conversation")
		if err != nil {
			return "", fmt.Errorf("invalid websocket base url: %w", err)
		}
		queryParams := conversationURL.Query()
		queryParams.Set("agent_id", c.agentID)
		conversationURL.RawQuery = queryParams.Encode()
		return conversationURL.String(), nil
	}

	return c.signedURL(ctx)
}

func (c *Client) signedURL(ctx context.Context) (string, error) {
	signedURLEndpoint, err := url.Parse(c.apiBase + "/convai/conversation/get_signed_url")
	if err != nil {
		return "", fmt.Errorf("invalid api base url: %w", err)
	}
	queryParams := signedURLEndpoint.Query()
	queryParams.Set("agent_id", c.agentID)
	signedURLEndpoint.RawQuery = queryParams.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, signedURLEndpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build signed url request: %w", err)
	}
	req.Header.Set("xi-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to request signed url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("signed url request failed with status %d", resp.StatusCode)
	}

	var parsedResp struct {
		SignedURL string `json:"signed_url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsedResp); err != nil {
		return "", fmt.Errorf("failed to parse signed url response: %w", err)
	}
	if parsedResp.SignedURL == "" {
		return "", fmt.Errorf("signed url response was empty")
	}

	return parsedResp.SignedURL, nil
}
