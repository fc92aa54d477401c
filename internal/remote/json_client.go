package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// JSONClient 通过 webmail JSON 接口访问远端
type JSONClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	calls      *inflight
}

// jsonEnvelope JSON 接口的响应结构
type jsonEnvelope struct {
	Action       Action          `json:"Action"`
	Result       json.RawMessage `json:"Result"`
	ErrorCode    Code            `json:"ErrorCode,omitempty"`
	ErrorMessage string          `json:"ErrorMessage,omitempty"`
}

// NewJSONClient 创建 JSON 客户端
func NewJSONClient(baseURL, token string, timeout time.Duration) *JSONClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JSONClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		calls: newInflight(),
	}
}

// Request 异步发起请求
func (c *JSONClient) Request(ctx context.Context, action Action, busy *Busy, params Params, callback Callback) {
	c.calls.run(ctx, action, busy, fallbackCode(action), callback, func(ctx context.Context) (*Response, error) {
		return c.post(ctx, action, params)
	})
}

// Abort 取消进行中的请求
func (c *JSONClient) Abort(action Action) {
	c.calls.abort(action)
}

// post 发送请求并解析响应
func (c *JSONClient) post(ctx context.Context, action Action, params Params) (*Response, error) {
	payload := make(map[string]interface{}, len(params)+1)
	for key, value := range params {
		payload[key] = value
	}
	payload["Action"] = action

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/?/Json/", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("X-SM-Token", c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &Error{Code: CodeConnectionError, Message: err.Error(), Cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("server returned status %d", resp.StatusCode)
		}
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if envelope.ErrorCode != 0 {
		return nil, &Error{Code: envelope.ErrorCode, Message: envelope.ErrorMessage}
	}
	if resp.StatusCode != http.StatusOK || isFalse(envelope.Result) {
		return nil, &Error{Code: fallbackCode(action), Message: envelope.ErrorMessage}
	}

	return &Response{Action: action, Result: envelope.Result}, nil
}

func isFalse(raw json.RawMessage) bool {
	return len(raw) == 0 || string(raw) == "false" || string(raw) == "null"
}
