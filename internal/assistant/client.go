package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/fitfood/internal/nutrition"
	"github.com/2beens/fitfood/internal/telemetry/tracing"

	"github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DefaultModel = openai.GPT4oMini
	maxTokens    = 600

	systemPrompt = "You are a fitness and nutrition coach. Answer briefly and practically, " +
		"taking the user's profile into account. Do not give medical diagnoses."
)

var ErrEmptyAnswer = errors.New("assistant returned no answer")

type Params struct {
	APIKey  string
	Model   string
	BaseURL string // optional, for proxies and tests
	Timeout time.Duration
}

// Client answers fitness questions with an OpenAI chat model.
type Client struct {
	client *openai.Client
	model  string
}

func NewClient(params Params) *Client {
	config := openai.DefaultConfig(params.APIKey)
	if params.BaseURL != "" {
		config.BaseURL = params.BaseURL
	}
	timeout := params.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	config.HTTPClient = &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   timeout,
	}

	model := params.Model
	if model == "" {
		model = DefaultModel
	}

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

func profilePrompt(profile nutrition.Profile, fitnessLevel, goal, question string) string {
	var sb strings.Builder
	sb.WriteString("My profile:\n")
	if profile.Gender != "" {
		fmt.Fprintf(&sb, "- gender: %s\n", profile.Gender)
	}
	if profile.Age > 0 {
		fmt.Fprintf(&sb, "- age: %d\n", profile.Age)
	}
	if profile.Height > 0 {
		fmt.Fprintf(&sb, "- height: %.0f cm\n", profile.Height)
	}
	if profile.Weight > 0 {
		fmt.Fprintf(&sb, "- weight: %.1f kg\n", profile.Weight)
	}
	if bmi, err := nutrition.BMI(profile.Weight, profile.Height); err == nil {
		fmt.Fprintf(&sb, "- BMI: %.1f (%s)\n", bmi, nutrition.BMICategory(bmi))
	}
	if calories, err := nutrition.DailyCalories(profile); err == nil {
		fmt.Fprintf(&sb, "- estimated daily calories: %d kcal\n", calories)
	}
	if fitnessLevel != "" {
		fmt.Fprintf(&sb, "- fitness level: %s\n", fitnessLevel)
	}
	if goal != "" {
		fmt.Fprintf(&sb, "- goal: %s\n", goal)
	}
	sb.WriteString("\nQuestion: ")
	sb.WriteString(question)
	return sb.String()
}

func (c *Client) Answer(
	ctx context.Context,
	profile nutrition.Profile,
	fitnessLevel, goal, question string,
) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "assistant.answer")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("model", c.model))

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: profilePrompt(profile, fitnessLevel, goal, question),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", ErrEmptyAnswer
	}
	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	if answer == "" {
		return "", ErrEmptyAnswer
	}

	return answer, nil
}
