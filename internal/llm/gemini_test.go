package llm

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToGenaiSchema(t *testing.T) {
	gs := toGenaiSchema(testSchema())

	assert.Equal(t, genai.TypeObject, gs.Type)
	assert.Equal(t, "a result", gs.Description)
	assert.Equal(t, []string{"suggestion"}, gs.Required)
	require.Len(t, gs.Properties, 2)

	assert.Equal(t, genai.TypeString, gs.Properties["suggestion"].Type)
	assert.False(t, gs.Properties["suggestion"].Nullable)
	assert.Equal(t, "advice", gs.Properties["suggestion"].Description)
	assert.Equal(t, genai.TypeNumber, gs.Properties["savings"].Type)
	assert.True(t, gs.Properties["savings"].Nullable)
}

func TestFirstText(t *testing.T) {
	assert.Equal(t, "", firstText(nil))
	assert.Equal(t, "", firstText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: nil},
			{Content: &genai.Content{Parts: []genai.Part{genai.Text(`{"suggestion":`), genai.Text(`"ok"}`)}}},
		},
	}
	assert.Equal(t, `{"suggestion":"ok"}`, firstText(resp))
}

func TestNewGeminiClient_RequiresKey(t *testing.T) {
	_, err := NewGeminiClient(context.Background(), "", "gemini-2.5-flash")
	assert.Error(t, err)
}
