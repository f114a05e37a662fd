package weaver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/axiom"
	"github.com/Julienne-Malabago/Archivist-of-Moirai/internal/services/archivist/domain/deception"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// GeminiWeaver generates fragments through the Gemini API with a constrained
// JSON response schema.
type GeminiWeaver struct {
	client *genai.Client
	model  string
}

// NewGeminiWeaver creates a Gemini-backed weaver.
func NewGeminiWeaver(ctx context.Context, apiKey, model string) (*GeminiWeaver, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultModel
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	return &GeminiWeaver{client: client, model: model}, nil
}

// geminiPayload mirrors the required two-field response schema.
type geminiPayload struct {
	Fragment       string `json:"fragment"`
	RevelationText string `json:"revelationText"`
}

// Generate implements Generator.
func (w *GeminiWeaver) Generate(ctx context.Context, secret axiom.Axiom, tier int, directive deception.Directive) (Result, error) {
	if w == nil || w.client == nil {
		return Result{}, ErrUnavailable
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(SystemPrompt(tier, directive), genai.RoleUser),
		ResponseMIMEType:  "application/json",
		ResponseSchema: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"fragment":       {Type: genai.TypeString},
				"revelationText": {Type: genai.TypeString},
			},
			Required: []string{"fragment", "revelationText"},
		},
	}

	response, err := w.client.Models.GenerateContent(ctx, w.model, genai.Text(UserPrompt(secret)), config)
	if err != nil {
		return Result{}, fmt.Errorf("generate content: %w", err)
	}

	return decodePayload(response.Text())
}

func decodePayload(raw string) (Result, error) {
	var payload geminiPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if strings.TrimSpace(payload.Fragment) == "" || strings.TrimSpace(payload.RevelationText) == "" {
		return Result{}, fmt.Errorf("%w: missing required fields", ErrMalformedResponse)
	}

	return Result{
		Fragment:       payload.Fragment,
		RevelationText: payload.RevelationText,
	}, nil
}
