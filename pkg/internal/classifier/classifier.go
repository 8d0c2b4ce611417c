// Package classifier 调用视觉语言模型对图片进行自然场景分类.
//
// 客户端向 Anthropic messages API 发送 base64 编码的图片与固定指令，
// 要求模型返回严格 JSON；响应经过防御性提取与校验，
// 任何解析失败都视为上游错误，绝不伪造分类结果.
package classifier

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bytedance/sonic"
	"github.com/sony/gobreaker"

	"github.com/yeisme/scenevault/pkg/configs"
	nlog "github.com/yeisme/scenevault/pkg/log"
	"github.com/yeisme/scenevault/pkg/metrics"
)

const (
	anthropicVersion = "2023-06-01"
	messagesPath     = "/v1/messages"

	systemPrompt = "You are a nature guide who identifies natural scenes in photographs. " +
		"You respond only with strict JSON, no markdown, no prose."

	instruction = "Identify the natural scene in this image. Respond with strict JSON only, " +
		"no markdown fences, in the shape " +
		`{"label": string, "description": string, "tags": [3-6 lowercase words], "confidence": number between 0 and 1}.`
)

// Classification 分类结果，与 API 响应中的 JSON 一一对应.
type Classification struct {
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Confidence  *float64 `json:"confidence,omitempty"`
}

// Client 视觉分类客户端.
type Client struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	cfg        configs.ClassifierConfig
}

// New 根据配置创建分类客户端.
func New(cfg configs.ClassifierConfig) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: cfg.GetTimeout()},
		cfg:        cfg,
	}

	if cfg.Breaker.Enabled {
		c.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "classifier",
			MaxRequests: uint32(cfg.Breaker.MaxRequestsInHalf),
			Interval:    time.Duration(cfg.Breaker.IntervalSeconds) * time.Second,
			Timeout:     time.Duration(cfg.Breaker.TimeoutSeconds) * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				if counts.Requests < uint32(cfg.Breaker.MinRequests) {
					return false
				}

				failureRate := float64(counts.TotalFailures) / float64(counts.Requests)

				return failureRate >= cfg.Breaker.FailureRate
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				nlog.Logger().Warn().
					Str("breaker", name).
					Str("from", from.String()).
					Str("to", to.String()).
					Msg("circuit breaker state changed")
			},
		})
	}

	return c
}

// Model 返回配置的模型名称.
func (c *Client) Model() string {
	return c.cfg.Model
}

// apiRequest 请求体结构，对应 messages API.
type apiRequest struct {
	Model     string       `json:"model"`
	MaxTokens int          `json:"max_tokens"`
	System    string       `json:"system"`
	Messages  []apiMessage `json:"messages"`
}

type apiMessage struct {
	Role    string        `json:"role"`
	Content []contentItem `json:"content"`
}

type contentItem struct {
	Type   string       `json:"type"`
	Text   string       `json:"text,omitempty"`
	Source *imageSource `json:"source,omitempty"`
}

type imageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

// apiResponse 响应体中我们关心的部分.
type apiResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Classify 对图片字节执行一次分类调用.
// 返回结构化结果与原始响应文本（用于审计留存）.
func (c *Client) Classify(ctx context.Context, data []byte, mime string) (*Classification, string, error) {
	call := func() (*Classification, string, error) {
		return c.classifyOnce(ctx, data, mime)
	}

	if c.breaker == nil {
		cls, raw, err := call()
		c.observe(err)

		return cls, raw, err
	}

	type result struct {
		cls *Classification
		raw string
	}

	res, err := c.breaker.Execute(func() (any, error) {
		cls, raw, err := call()
		if err != nil {
			return nil, err
		}

		return result{cls: cls, raw: raw}, nil
	})

	c.observe(err)

	if err != nil {
		return nil, "", err
	}

	r := res.(result)

	return r.cls, r.raw, nil
}

// observe 记录分类调用结果指标.
func (c *Client) observe(err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}

	metrics.ClassifierRequests.WithLabelValues(outcome).Inc()
}

func (c *Client) classifyOnce(ctx context.Context, data []byte, mime string) (*Classification, string, error) {
	reqBody := apiRequest{
		Model:     c.cfg.Model,
		MaxTokens: c.cfg.MaxTokens,
		System:    systemPrompt,
		Messages: []apiMessage{{
			Role: "user",
			Content: []contentItem{
				{
					Type: "image",
					Source: &imageSource{
						Type:      "base64",
						MediaType: mime,
						Data:      base64.StdEncoding.EncodeToString(data),
					},
				},
				{Type: "text", Text: instruction},
			},
		}},
	}

	payload, err := sonic.Marshal(reqBody)
	if err != nil {
		return nil, "", fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+messagesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("build classify request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.cfg.APIKey)
	req.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("classifier request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read classifier response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("classifier returned status %d: %s", resp.StatusCode, truncate(body, 512))
	}

	var apiResp apiResponse
	if err := sonic.Unmarshal(body, &apiResp); err != nil {
		return nil, "", fmt.Errorf("decode classifier response: %w", err)
	}

	text := ""

	for _, block := range apiResp.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}

	if text == "" {
		return nil, "", fmt.Errorf("classifier response contains no text block")
	}

	cls, err := ParseClassification(text)
	if err != nil {
		return nil, "", err
	}

	return cls, text, nil
}

// truncate 截断响应体用于错误信息，避免日志膨胀.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}

	return string(b[:n]) + "..."
}
