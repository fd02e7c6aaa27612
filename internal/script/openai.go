// Package script turns a user prompt into reel narration and stock-search
// keywords through OpenAI chat completions.
package script

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const defaultModel = "gpt-4o-mini"

// Generator produces narration scripts and search keywords.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a generator. An empty model uses the default.
func NewGenerator(apiKey, model string) *Generator {
	if model == "" {
		model = defaultModel
	}
	return &Generator{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// GenerateScript writes a short narration script for the prompt. Quotes are
// stripped so the script reads cleanly when spoken.
func (g *Generator) GenerateScript(ctx context.Context, prompt string, durationSec int) (string, error) {
	systemPrompt := fmt.Sprintf(
		"You write scripts for short narrated videos. Write a single engaging narration of roughly %d seconds when spoken aloud. Return only the narration text, no stage directions.",
		durationSec)

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}

	script := strings.ReplaceAll(resp.Choices[0].Message.Content, `"`, "")
	log.Printf("[Script] generated script (%d chars)", len(script))
	return script, nil
}

type keywordResponse struct {
	Keywords []string `json:"keywords"`
}

// GenerateKeywords extracts stock-footage search terms for a script, at most
// maxKeywords entries, hash signs stripped.
func (g *Generator) GenerateKeywords(ctx context.Context, script string, maxKeywords int) ([]string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: `You pick stock-video search terms for a narration script. Respond with JSON: {"keywords": ["term", ...]}. Terms are short, visual, and concrete.`,
			},
			{Role: openai.ChatMessageRoleUser, Content: script},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from openai")
	}

	var parsed keywordResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse keywords: %w", err)
	}

	keywords := make([]string, 0, len(parsed.Keywords))
	for _, kw := range parsed.Keywords {
		kw = strings.TrimSpace(strings.ReplaceAll(kw, "#", ""))
		if kw != "" {
			keywords = append(keywords, kw)
		}
	}
	if len(keywords) > maxKeywords {
		log.Printf("[Script] truncated search terms to %d tags", maxKeywords)
		keywords = keywords[:maxKeywords]
	}
	return keywords, nil
}
