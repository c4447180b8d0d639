package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GeminiClient invokes a Gemini model in JSON mode. The underlying client is
// created once and shared; a model handle is built per call.
type GeminiClient struct {
	client      *genai.Client
	model       string
	temperature float32
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY is empty")
	}
	cl, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiClient{
		client:      cl,
		model:       strings.TrimSpace(model),
		temperature: 0.2,
	}, nil
}

func (g *GeminiClient) Name() string { return "gemini" }

func (g *GeminiClient) Close() error {
	return g.client.Close()
}

// InvokeStructured sends prompt with schema as the response schema and
// returns the raw JSON text of the first candidate.
func (g *GeminiClient) InvokeStructured(ctx context.Context, prompt string, schema Schema) ([]byte, error) {
	m := g.client.GenerativeModel(g.model)
	if m == nil {
		return nil, fmt.Errorf("gemini: model is nil")
	}
	m.GenerationConfig = genai.GenerationConfig{
		Temperature:      ptrFloat32(g.temperature),
		ResponseMIMEType: "application/json",
		ResponseSchema:   toGenaiSchema(schema),
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("gemini: generate: %w", err)
	}

	txt := firstText(resp)
	if txt == "" {
		return nil, ErrEmptyResponse
	}
	return []byte(StripCodeFences(txt)), nil
}

func toGenaiSchema(s Schema) *genai.Schema {
	out := &genai.Schema{
		Type:        genai.TypeObject,
		Description: s.Description,
		Properties:  make(map[string]*genai.Schema, len(s.Fields)),
	}
	for _, f := range s.Fields {
		p := &genai.Schema{
			Description: f.Description,
			Nullable:    !f.Required,
		}
		switch f.Type {
		case TypeNumber:
			p.Type = genai.TypeNumber
		default:
			p.Type = genai.TypeString
		}
		out.Properties[f.Name] = p
		if f.Required {
			out.Required = append(out.Required, f.Name)
		}
	}
	return out
}

func firstText(resp *genai.GenerateContentResponse) string {
	if resp == nil || len(resp.Candidates) == 0 {
		return ""
	}
	for _, c := range resp.Candidates {
		if c.Content == nil {
			continue
		}
		var b strings.Builder
		for _, p := range c.Content.Parts {
			if t, ok := p.(genai.Text); ok {
				b.WriteString(string(t))
			}
		}
		if b.Len() > 0 {
			return b.String()
		}
	}
	return ""
}

func ptrFloat32(f float32) *float32 { return &f }
