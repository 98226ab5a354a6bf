// Package compat provides a langchaingo llms.Model backed by any
// OpenAI-compatible chat completion endpoint.
package compat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/llms"
)

var ErrEmptyResponse = errors.New("no response")

// LLM is a client for OpenAI-compatible chat APIs (OpenAI itself, or any
// provider exposing the same wire format behind a custom base URL).
type LLM struct {
	client           *openai.Client
	model            ModelName
	CallbacksHandler callbacks.Handler
}

var _ llms.Model = (*LLM)(nil)

// New returns a new OpenAI-compatible LLM client.
//
// Authentication options:
// 1. WithAPIKey(apiKey) - pass API key directly
// 2. Set OPENAI_API_KEY environment variable
//
// Point it at a non-OpenAI provider with WithBaseURL or the
// OPENAI_BASE_URL environment variable.
//
// Example:
//
//	llm, err := compat.New(
//		compat.WithAPIKey("your-api-key"),
//		compat.WithModel(compat.ModelNameGPT4oMini),
//	)
func New(opts ...Option) (*LLM, error) {
	options := &options{
		apiKey:    getEnvOrDefault("OPENAI_API_KEY", ""),
		modelName: ModelNameGPT4oMini,
		baseURL:   getEnvOrDefault("OPENAI_BASE_URL", ""),
	}

	for _, opt := range opts {
		opt(options)
	}

	if options.apiKey == "" {
		return nil, fmt.Errorf(`api key is required
You can pass auth info by using compat.New(compat.WithAPIKey("{API Key}"))
or
export OPENAI_API_KEY={API Key}`)
	}

	config := openai.DefaultConfig(options.apiKey)
	if options.baseURL != "" {
		config.BaseURL = options.baseURL
	}
	if options.httpClient != nil {
		config.HTTPClient = options.httpClient
	}

	return &LLM{
		client:           openai.NewClientWithConfig(config),
		model:            options.modelName,
		CallbacksHandler: options.callbacksHandler,
	}, nil
}

// Call generates a response from the LLM for the given prompt.
func (o *LLM) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, o, prompt, options...)
}

// GenerateContent implements the Model interface.
func (o *LLM) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if o.CallbacksHandler != nil {
		o.CallbacksHandler.HandleLLMGenerateContentStart(ctx, messages)
	}

	opts := &llms.CallOptions{}
	for _, opt := range options {
		opt(opts)
	}

	req := openai.ChatCompletionRequest{
		Model:       o.getModelString(*opts),
		Messages:    toOpenAIMessages(messages),
		Temperature: float32(opts.Temperature),
		TopP:        float32(opts.TopP),
		MaxTokens:   opts.MaxTokens,
		Stop:        opts.StopWords,
	}

	var resp *llms.ContentResponse
	var err error
	if opts.StreamingFunc != nil {
		resp, err = o.generateStream(ctx, req, opts.StreamingFunc)
	} else {
		resp, err = o.generate(ctx, req)
	}
	if err != nil {
		if o.CallbacksHandler != nil {
			o.CallbacksHandler.HandleLLMError(ctx, err)
		}
		return nil, err
	}

	if o.CallbacksHandler != nil {
		o.CallbacksHandler.HandleLLMGenerateContentEnd(ctx, resp)
	}

	return resp, nil
}

func (o *LLM) generate(ctx context.Context, req openai.ChatCompletionRequest) (*llms.ContentResponse, error) {
	result, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(result.Choices) == 0 {
		return nil, ErrEmptyResponse
	}

	choice := result.Choices[0]
	generationInfo := make(map[string]any)
	if result.Usage.TotalTokens > 0 {
		generationInfo["prompt_tokens"] = result.Usage.PromptTokens
		generationInfo["completion_tokens"] = result.Usage.CompletionTokens
		generationInfo["total_tokens"] = result.Usage.TotalTokens
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:        choice.Message.Content,
				StopReason:     string(choice.FinishReason),
				GenerationInfo: generationInfo,
			},
		},
	}, nil
}

func (o *LLM) generateStream(ctx context.Context, req openai.ChatCompletionRequest, fn func(ctx context.Context, chunk []byte) error) (*llms.ContentResponse, error) {
	req.Stream = true
	stream, err := o.client.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	var content strings.Builder
	var stopReason string
	for {
		chunk, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(chunk.Choices) == 0 {
			continue
		}

		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			content.WriteString(delta)
			if err := fn(ctx, []byte(delta)); err != nil {
				return nil, err
			}
		}
		if reason := chunk.Choices[0].FinishReason; reason != "" {
			stopReason = string(reason)
		}
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{
			{
				Content:        content.String(),
				StopReason:     stopReason,
				GenerationInfo: make(map[string]any),
			},
		},
	}, nil
}

// toOpenAIMessages flattens langchaingo message parts into the role and
// content strings the chat completion API takes. Non-text parts are
// ignored.
func toOpenAIMessages(messages []llms.MessageContent) []openai.ChatCompletionMessage {
	converted := make([]openai.ChatCompletionMessage, 0, len(messages))
	for _, msg := range messages {
		var role string
		switch msg.Role {
		case llms.ChatMessageTypeSystem:
			role = openai.ChatMessageRoleSystem
		case llms.ChatMessageTypeAI:
			role = openai.ChatMessageRoleAssistant
		case llms.ChatMessageTypeTool:
			role = openai.ChatMessageRoleTool
		default:
			role = openai.ChatMessageRoleUser
		}

		var content strings.Builder
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				content.WriteString(text.Text)
			}
		}

		converted = append(converted, openai.ChatCompletionMessage{
			Role:    role,
			Content: content.String(),
		})
	}
	return converted
}

func (o *LLM) getModelString(opts llms.CallOptions) string {
	model := o.model

	if opts.Model != "" {
		model = ModelName(opts.Model)
	}

	return string(model)
}
