// Package llm 封装各家模型 SDK，统一返回经过 schema 校验的 JSON
package llm

import (
	"context"
	"encoding/json"
	"net/http"
)

// Provider 带 Schema 的请求返回经过校验的 JSON
type Provider interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	ModelID() string
}

type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema
	MaxTokens   int
	Temperature float64
}

type Message struct {
	Role    Role
	Content string
}

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Schema struct {
	Name        string // kebab-case，同时用作校验缓存的 key
	Description string
	Definition  map[string]any
}

type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // end / max_tokens / error
}

type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// 未登记的名称按原样作为模型 ID
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}

// output 是各家 SDK 响应归一后的结果
type output struct {
	text      string
	truncated bool
	usage     Usage
	model     string
}

func (o output) response(schema *Schema) (*Response, error) {
	content := json.RawMessage(o.text)
	if o.truncated {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if err := validateResponse(schema, content); err != nil {
		return nil, err
	}
	if o.usage.TotalTokens == 0 {
		o.usage.TotalTokens = o.usage.InputTokens + o.usage.OutputTokens
	}
	return &Response{Content: content, Usage: o.usage, Model: o.model, StopReason: "end"}, nil
}

func statusError(status int, err error) error {
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
