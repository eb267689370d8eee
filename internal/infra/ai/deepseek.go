// Package ai implements the natural-language parsing collaborator on top of
// the DeepSeek chat API. The model only ever returns structured time and
// recurrence data; the cron expression itself is always synthesized locally.
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/wuchris-ch/notification-app/internal/domain/nlp"

	"github.com/go-deepseek/deepseek"
	"github.com/go-deepseek/deepseek/request"
	"github.com/sirupsen/logrus"
)

const (
	maxTokens   = 500
	temperature = float32(0.1)
)

const systemPromptFormat = `You are an AI assistant that converts natural language into structured reminder data for a family notification system.

Current time: %s
User timezone: %s

Parse the user's input and return a JSON object with this structure:
{
    "title": "Brief, clear title for the reminder (max 120 chars)",
    "body": "Optional detailed message (null if not needed)",
    "time": {"hour": 8, "minute": 0},
    "recurrence": {
        "type": "daily|weekly|monthly|yearly|once",
        "day_of_week": null,
        "day_of_month": null,
        "month": null,
        "weekdays_only": false
    },
    "confidence": "high|medium|low"
}

hour is 0-23, minute is 0-59. day_of_week is 0-6 (0=Sunday) or a list like [1,3,5].
"weekdays" means type="daily" with weekdays_only=true. "every Monday" means
type="weekly" with day_of_week=1. "every month on the 15th" means type="monthly"
with day_of_month=15.

Return only valid JSON. If you cannot parse confidently, set confidence to "low"
and make reasonable assumptions.`

// DeepseekParser implements nlp.Parser using the DeepSeek chat completion API.
type DeepseekParser struct {
	client deepseek.Client
	logger *logrus.Logger
}

func NewDeepseekParser(apiKey string, logger *logrus.Logger) (*DeepseekParser, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("DeepSeek API key is required")
	}
	client, err := deepseek.NewClient(apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create DeepSeek client: %w", err)
	}
	return &DeepseekParser{client: client, logger: logger}, nil
}

func (p *DeepseekParser) Parse(ctx context.Context, text, timezone string) (*nlp.Draft, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("unknown timezone %q: %w", timezone, err)
	}
	now := time.Now().In(loc).Format("2006-01-02 15:04 MST")

	temp := temperature
	req := &request.ChatCompletionsRequest{
		Model: deepseek.DEEPSEEK_CHAT_MODEL,
		Messages: []*request.Message{
			{Role: "system", Content: fmt.Sprintf(systemPromptFormat, now, timezone)},
			{Role: "user", Content: "Parse this reminder request: " + text},
		},
		MaxTokens:   maxTokens,
		Temperature: &temp,
		Stream:      false,
	}

	resp, err := p.client.CallChatCompletionsChat(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("DeepSeek API request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("DeepSeek returned no choices")
	}
	content := resp.Choices[0].Message.Content
	p.logger.Debugf("DeepSeek response: %s", content)

	payload, err := extractJSON(content)
	if err != nil {
		return nil, err
	}

	draft := &nlp.Draft{}
	if err := json.Unmarshal([]byte(payload), draft); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}
	if draft.Title == "" {
		return nil, fmt.Errorf("model did not produce a title")
	}
	return draft, nil
}

// extractJSON strips any prose or markdown fencing the model wrapped around
// the JSON object.
func extractJSON(content string) (string, error) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("model response contains no JSON object")
	}
	return content[start : end+1], nil
}
