package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/FayezBast/jarvis/internal/ai"
	"github.com/FayezBast/jarvis/internal/security"
)

// binaryFormats cannot be produced without a document library, which
// is out of scope; they degrade to a plain-text file with a notice.
var binaryFormats = map[string]bool{
	"docx": true,
	"xlsx": true,
	"pdf":  true,
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Writer creates files in the workspace directory, with content from
// the generator (or placeholders offline).
type Writer struct {
	workspace string
	content   *ai.ContentGenerator
	logger    *zap.Logger
}

// NewWriter creates a workspace file writer.
func NewWriter(workspace string, content *ai.ContentGenerator, logger *zap.Logger) *Writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Writer{workspace: workspace, content: content, logger: logger}
}

// Create writes a file about topic with the given extension and
// returns the path written. Binary document formats fall back to .txt.
func (w *Writer) Create(ctx context.Context, topic, fileType string) (string, error) {
	if topic == "" {
		topic = "general topic"
	}
	if fileType == "" {
		fileType = "txt"
	}

	body := w.content.Generate(ctx, topic, contentKind(fileType))
	body = security.SanitizeContent(body)

	ext := fileType
	if binaryFormats[fileType] {
		w.logger.Info("binary format degraded to text", zap.String("requested", fileType))
		body = fmt.Sprintf("[%s rendering is not supported; plain-text content follows]\n\n%s", fileType, body)
		ext = "txt"
	}

	name := slugify(topic) + "." + ext
	name, err := security.ValidateFilename(name)
	if err != nil {
		return "", fmt.Errorf("invalid file name: %w", err)
	}

	if err := os.MkdirAll(w.workspace, 0755); err != nil {
		return "", fmt.Errorf("failed to create workspace: %w", err)
	}

	path, err := security.ValidatePath(filepath.Join(w.workspace, name), w.workspace)
	if err != nil {
		return "", err
	}

	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return path, nil
}

// contentKind maps a file extension to a content-generation prompt
// family.
func contentKind(fileType string) string {
	switch fileType {
	case "json":
		return "json"
	case "py":
		return "code"
	default:
		return "text"
	}
}

// slugify turns a topic into a safe filename stem.
func slugify(topic string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(topic), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "untitled"
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
