package openai

import (
	"context"
	"fmt"
	"strings"

	oa "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"portfolioAnalytics/internal/analytics"
	"portfolioAnalytics/internal/report"
)

const DefaultModel = "gpt-4"

const systemPrompt = `You are a financial analyst commenting on a portfolio of equities for a retail investor.
You receive per-asset statistics computed from daily close prices: average daily simple return, annualized volatility, a Sharpe-style ratio with no risk-free rate, and final growth of one unit invested, plus the correlation matrix of daily returns.

Write a short plain-text commentary:
- Which assets had the best and worst risk-adjusted return
- Which pairs move together most and least, and what that means for diversification
- Any values reported as NaN or inf and why they occur

Do not give buy or sell advice. No markdown headings. Keep it under 250 words.`

// completer is the subset of the chat completions service used here.
type completer interface {
	New(ctx context.Context, body oa.ChatCompletionNewParams, opts ...option.RequestOption) (*oa.ChatCompletion, error)
}

// Commentator asks a chat model for a plain-language reading of an analysis.
type Commentator struct {
	cli   completer
	model string
}

func NewCommentator(apiKey, model string) *Commentator {
	client := oa.NewClient(option.WithAPIKey(apiKey))
	return newCommentator(&client.Chat.Completions, model)
}

func newCommentator(cli completer, model string) *Commentator {
	if model == "" {
		model = DefaultModel
	}
	return &Commentator{cli: cli, model: model}
}

// Comment returns the model's commentary on a.
func (c *Commentator) Comment(ctx context.Context, a *analytics.Analysis) (string, error) {
	resp, err := c.cli.New(ctx, oa.ChatCompletionNewParams{
		Model: oa.ChatModel(c.model),
		Messages: []oa.ChatCompletionMessageParamUnion{
			oa.SystemMessage(systemPrompt),
			oa.UserMessage(userPrompt(a)),
		},
		MaxTokens: oa.Int(600),
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func userPrompt(a *analytics.Analysis) string {
	var b strings.Builder
	b.WriteString("Per-asset statistics:\n")
	for j, s := range a.Summary {
		fmt.Fprintf(&b, "- %s: avg daily return %s%%, annualized volatility %s%%, sharpe %s, growth of 1 = %s\n",
			s.Symbol,
			report.Number(s.MeanDailyReturn*100, 4),
			report.Number(s.AnnualizedVolatility*100, 2),
			report.Number(s.SharpeRatio, 3),
			report.Number(a.Growth.Final(j), 3),
		)
	}
	b.WriteString("\nCorrelation of daily returns:\n")
	m := a.Correlation
	for i := range m.Symbols {
		for j := i + 1; j < len(m.Symbols); j++ {
			fmt.Fprintf(&b, "- %s / %s: %s\n", m.Symbols[i], m.Symbols[j], report.Number(m.Values[i][j], 3))
		}
	}
	return b.String()
}
