package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ejjsharpe/cook-club-sub004/config"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// completionServer fakes the chat-completions API, replying with content as
// the first choice's message.
func completionServer(t *testing.T, status int, content string, sawRequest *map[string]any) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		if sawRequest != nil {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			*sawRequest = body
		}

		if status != http.StatusOK {
			w.WriteHeader(status)
			fmt.Fprint(w, `{"error": "upstream unavailable"}`)
			return
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func testLLMService(t *testing.T, apiURL string) *LLMService {
	svc, err := NewLLMService(&config.Config{
		LLMAPIKey:      "test-key",
		LLMAPIURL:      apiURL,
		LLMModel:       "deepseek-chat",
		LLMVisionModel: "deepseek-vl",
	})
	require.NoError(t, err)
	svc.client = &http.Client{Timeout: 5 * time.Second}
	return svc
}

const validRecipeJSON = `{
	"name": "Classic Chocolate Chip Cookies",
	"description": "The recipe everyone asks for",
	"prepTime": "PT15M",
	"cookTime": "PT12M",
	"totalTime": null,
	"servings": 24,
	"sourceUrl": null,
	"ingredients": [
		{"index": 0, "quantity": 2, "unit": "cups", "name": "flour"},
		{"index": 1, "quantity": null, "unit": null, "name": "salt to taste"}
	],
	"instructions": [
		{"index": 0, "instruction": "Mix the dry ingredients"},
		{"index": 1, "instruction": "Bake at 180C"}
	],
	"suggestedTags": [{"type": "meal_type", "name": "dessert"}]
}`

func TestNewLLMServiceRequiresKey(t *testing.T) {
	_, err := NewLLMService(&config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LLM_API_KEY")
}

func TestInterpretText(t *testing.T) {
	t.Run("decodes and stamps the source url", func(t *testing.T) {
		var req map[string]any
		srv := completionServer(t, http.StatusOK, validRecipeJSON, &req)
		defer srv.Close()

		recipe, err := testLLMService(t, srv.URL).InterpretText(context.Background(), "some recipe text", "https://example.com/cookies")
		require.NoError(t, err)

		assert.Equal(t, "Classic Chocolate Chip Cookies", recipe.Name)
		require.NotNil(t, recipe.SourceURL)
		assert.Equal(t, "https://example.com/cookies", *recipe.SourceURL)
		require.NotNil(t, recipe.Servings)
		assert.Equal(t, 24.0, *recipe.Servings)

		assert.Equal(t, "deepseek-chat", req["model"])
		rf, ok := req["response_format"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "json_object", rf["type"])
	})

	t.Run("malformed model JSON fails", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, "this is not json {", nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).InterpretText(context.Background(), "text", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse recipe JSON")
	})

	t.Run("schema-invalid model JSON fails", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"name": "", "ingredients": [], "instructions": []}`, nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).InterpretText(context.Background(), "text", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "schema validation")
	})

	t.Run("upstream failure fails", func(t *testing.T) {
		srv := completionServer(t, http.StatusBadGateway, "", nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).InterpretText(context.Background(), "text", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "502")
	})

	t.Run("empty choices fails", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"choices": []}`)
		}))
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).InterpretText(context.Background(), "text", "")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no response")
	})
}

func TestInterpretImageUsesVisionModel(t *testing.T) {
	var req map[string]any
	srv := completionServer(t, http.StatusOK, validRecipeJSON, &req)
	defer srv.Close()

	recipe, err := testLLMService(t, srv.URL).InterpretImage(context.Background(), []byte("image bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "Classic Chocolate Chip Cookies", recipe.Name)

	assert.Equal(t, "deepseek-vl", req["model"])

	// The user message carries the photo as a data URL content part.
	messages := req["messages"].([]any)
	last := messages[len(messages)-1].(map[string]any)
	parts := last["content"].([]any)
	var foundImage bool
	for _, p := range parts {
		part := p.(map[string]any)
		if part["type"] == "image_url" {
			foundImage = true
			url := part["image_url"].(map[string]any)["url"].(string)
			assert.Contains(t, url, "data:image/png;base64,")
		}
	}
	assert.True(t, foundImage)
}

func TestChatTurnDecoding(t *testing.T) {
	t.Run("complete turn must carry a valid recipe", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"reply": "done!", "phase": "complete", "recipe": null}`, nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).Chat(context.Background(), []types.ChatMessage{{Role: "user", Content: "thanks"}}, types.RecipeConversationState{Phase: types.PhaseRefining})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "without a recipe")
	})

	t.Run("unknown phase fails", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"reply": "hm", "phase": "confused"}`, nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).Chat(context.Background(), []types.ChatMessage{{Role: "user", Content: "hi"}}, types.RecipeConversationState{Phase: types.PhaseGathering})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown phase")
	})

	t.Run("gathering turn succeeds", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"reply": "What do you have in the fridge?", "phase": "gathering"}`, nil)
		defer srv.Close()

		turn, err := testLLMService(t, srv.URL).Chat(context.Background(), []types.ChatMessage{{Role: "user", Content: "help me cook"}}, types.RecipeConversationState{Phase: types.PhaseGathering})
		require.NoError(t, err)
		assert.Equal(t, types.PhaseGathering, turn.Phase)
		assert.NotEmpty(t, turn.Reply)
	})
}

func TestSuggestRecipesDecoding(t *testing.T) {
	t.Run("decodes suggestions", func(t *testing.T) {
		content := `{"suggestions": [{"name": "Shakshuka", "description": "Eggs in spiced tomato", "usesIngredients": ["eggs", "tomatoes"], "additionalIngredients": ["cumin"]}]}`
		srv := completionServer(t, http.StatusOK, content, nil)
		defer srv.Close()

		suggestions, err := testLLMService(t, srv.URL).SuggestRecipes(context.Background(), []string{"eggs", "tomatoes"}, 3)
		require.NoError(t, err)
		require.Len(t, suggestions, 1)
		assert.Equal(t, "Shakshuka", suggestions[0].Name)
		assert.Equal(t, []string{"eggs", "tomatoes"}, suggestions[0].UsesIngredients)
	})

	t.Run("empty suggestion list fails", func(t *testing.T) {
		srv := completionServer(t, http.StatusOK, `{"suggestions": []}`, nil)
		defer srv.Close()

		_, err := testLLMService(t, srv.URL).SuggestRecipes(context.Background(), []string{"eggs"}, 3)
		require.Error(t, err)
	})
}

func TestIdentifyIngredientsDecoding(t *testing.T) {
	content := `{"ingredients": [{"name": "eggs", "confidence": "high"}, {"name": "parsley", "confidence": "low"}]}`
	srv := completionServer(t, http.StatusOK, content, nil)
	defer srv.Close()

	ingredients, err := testLLMService(t, srv.URL).IdentifyIngredients(context.Background(), []byte("photo"), "image/jpeg")
	require.NoError(t, err)
	require.Len(t, ingredients, 2)
	assert.Equal(t, "eggs", ingredients[0].Name)
	assert.Equal(t, types.ConfidenceHigh, ingredients[0].Confidence)
}
