package agent

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAICompleter calls an OpenAI compatible chat completions endpoint.
type OpenAICompleter struct {
	client      openai.Client
	model       string
	temperature *float32
}

var _ Completer = (*OpenAICompleter)(nil)

func NewOpenAICompleter(opts CompleterOptions) (*OpenAICompleter, error) {
	if opts.APIKey == "" {
		return nil, errors.Wrap(ErrMissingAPIKey, "openai")
	}
	options := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		options = append(options, option.WithBaseURL(opts.BaseURL))
	}
	if opts.HTTPClient != nil {
		options = append(options, option.WithHTTPClient(opts.HTTPClient))
	}
	model := opts.Model
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAICompleter{
		client:      openai.NewClient(options...),
		model:       model,
		temperature: opts.Temperature,
	}, nil
}

func (o *OpenAICompleter) Model() string {
	return o.model
}

// Complete implements Completer.
func (o *OpenAICompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Entries)+1)
	if req.SystemInstruction != "" {
		messages = append(messages, openai.SystemMessage(req.SystemInstruction))
	}
	for _, e := range req.Entries {
		messages = append(messages, openai.UserMessage(e.Content))
	}

	params := openai.ChatCompletionNewParams{
		Model:    o.model,
		Messages: messages,
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{},
		},
	}
	if o.temperature != nil {
		params.Temperature = openai.Float(float64(*o.temperature))
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "llm error")
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}
