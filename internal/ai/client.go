package ai

import (
	"context"
	"fmt"

	"github.com/myrtti/sightline/internal/errors"
	"github.com/myrtti/sightline/internal/models"
	"github.com/sashabaranov/go-openai"
)

// ErrDisabled is returned when no API key is configured. Narrative reports are
// an enhancement, not a requirement, so callers should degrade gracefully.
var ErrDisabled = errors.NewSentinel("AI client disabled")

type Client struct {
	client *openai.Client
}

// NewClient creates a narrative report client. An empty apiKey yields a
// disabled client whose methods return ErrDisabled.
func NewClient(apiKey string) Client {
	if apiKey == "" {
		return Client{client: nil}
	}
	return Client{
		client: openai.NewClient(apiKey),
	}
}

const MaxTokens = 1024

// Enabled reports whether an API key was configured.
func (c Client) Enabled() bool {
	return c.client != nil
}

func reportMessages(result models.ClassificationResult) []openai.ChatCompletionMessage {
	system := "You are an assistant for a consumer eye-health app. Summarise colour-vision " +
		"screening results in plain, reassuring language. Always remind the reader that a " +
		"screening test is not a medical diagnosis and that concerns belong with an optometrist."
	user := fmt.Sprintf(
		"The user answered %d of %d plates correctly (%d%%). The screening classified the "+
			"pattern of mistakes as %q. Write a short narrative report of at most three paragraphs.",
		result.CorrectCount, result.TotalPlates, result.ScorePercent, result.Subtype)
	return []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}
}

// NarrativeReport turns a classification into a short narrative summary.
func (c Client) NarrativeReport(ctx context.Context, result models.ClassificationResult) (string, error) {
	if c.client == nil {
		return "", ErrDisabled
	}
	completion, err := c.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo1106,
			MaxTokens: MaxTokens,
			Messages:  reportMessages(result),
		},
	)
	if err != nil {
		return "", errors.Wrap(err, "create chat completion")
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return completion.Choices[0].Message.Content, nil
}

// StreamNarrativeReport streams the narrative as it is generated.
func (c Client) StreamNarrativeReport(
	ctx context.Context,
	result models.ClassificationResult,
) (*openai.ChatCompletionStream, error) {
	if c.client == nil {
		return nil, ErrDisabled
	}
	completion, err := c.client.CreateChatCompletionStream(
		ctx,
		openai.ChatCompletionRequest{ //nolint:exhaustruct // this is better for readability
			Model:     openai.GPT3Dot5Turbo1106,
			MaxTokens: MaxTokens,
			Messages:  reportMessages(result),
		},
	)
	if err != nil {
		return nil, errors.Wrap(err, "create chat completion stream")
	}
	return completion, nil
}
