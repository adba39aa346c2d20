package ai

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// ContentGenerator produces file bodies for the file_creation intent.
// Without a TextGenerator it degrades to placeholder content, so file
// creation keeps working offline.
type ContentGenerator struct {
	gen    TextGenerator
	logger *zap.Logger
}

// NewContentGenerator creates a content generator. gen may be nil.
func NewContentGenerator(gen TextGenerator, logger *zap.Logger) *ContentGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentGenerator{gen: gen, logger: logger}
}

// Generate returns content about topic suitable for the given file
// type ("json", "code", or anything else for prose).
func (c *ContentGenerator) Generate(ctx context.Context, topic, fileType string) string {
	if c.gen == nil {
		return placeholder(topic, fileType)
	}

	prompt := contentPrompt(topic, fileType)
	reply, err := c.gen.Generate(ctx, prompt)
	if err != nil {
		c.logger.Warn("content generation failed, using placeholder", zap.Error(err))
		return placeholder(topic, fileType)
	}

	content := strings.TrimSpace(reply)
	if fileType == "code" {
		content = stripCodeFence(content)
	}
	return content
}

func contentPrompt(topic, fileType string) string {
	switch fileType {
	case "json":
		return fmt.Sprintf("Generate a realistic and useful JSON structure about '%s'. The JSON should have 'headers' (a list of strings) and 'rows' (a list of lists). Respond with only the raw JSON content.", topic)
	case "code":
		return fmt.Sprintf("Write a complete, well-documented Python script for: '%s'. Include error handling and comments. The script should be functional and stand-alone. Respond with only the raw Python code.", topic)
	default:
		return fmt.Sprintf("Write a comprehensive, well-structured document about '%s'. Use Markdown for formatting (e.g., # Headings, **bold**, * bullets).", topic)
	}
}

func placeholder(topic, fileType string) string {
	return fmt.Sprintf("This is a placeholder %s file about %s.", fileType, topic)
}

// stripCodeFence removes markdown code fences the model sometimes
// wraps around code replies despite the raw-output instruction.
func stripCodeFence(content string) string {
	if strings.HasPrefix(content, "```") {
		if idx := strings.IndexByte(content, '\n'); idx >= 0 {
			content = content[idx+1:]
		}
		content = strings.ReplaceAll(content, "```", "")
	}
	return strings.TrimSpace(content)
}
