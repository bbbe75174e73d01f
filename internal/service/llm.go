package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ejjsharpe/cook-club-sub004/config"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// LLMService is the structured-data interpreter. It speaks the DeepSeek
// chat-completions wire format with a strict-JSON response contract.
type LLMService struct {
	apiKey      string
	apiURL      string
	model       string
	visionModel string
	client      *http.Client
}

// NewLLMService creates an LLMService from configuration.
func NewLLMService(cfg *config.Config) (*LLMService, error) {
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("LLM_API_KEY or LLM_API_KEY_FILE must be set")
	}

	return &LLMService{
		apiKey:      cfg.LLMAPIKey,
		apiURL:      cfg.LLMAPIURL,
		model:       cfg.LLMModel,
		visionModel: cfg.LLMVisionModel,
		client:      &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Message represents a message in the chat. Content is a string for text
// messages or a []ContentPart for multimodal messages.
type Message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

// ContentPart is one part of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image as a data URL.
type ImageURL struct {
	URL string `json:"url"`
}

// Request represents a chat-completions request.
type Request struct {
	Model          string            `json:"model"`
	Messages       []Message         `json:"messages"`
	ResponseFormat map[string]string `json:"response_format"`
	Temperature    float64           `json:"temperature"`
}

const recipeSystemPrompt = `You are a recipe extraction engine. Given recipe content, respond ONLY with JSON in exactly this structure:
{
    "name": "Recipe name",
    "description": "Brief description or null",
    "prepTime": "ISO-8601 duration like PT15M, or null",
    "cookTime": "ISO-8601 duration like PT30M, or null",
    "totalTime": "ISO-8601 duration like PT45M, or null",
    "servings": 4,
    "sourceUrl": null,
    "ingredients": [
        {"index": 0, "quantity": 2, "unit": "cups", "name": "flour"},
        {"index": 1, "quantity": null, "unit": null, "name": "salt to taste"}
    ],
    "instructions": [
        {"index": 0, "instruction": "Mix the dry ingredients"},
        {"index": 1, "instruction": "Bake at 180C for 30 minutes"}
    ],
    "images": [],
    "suggestedTags": [
        {"type": "cuisine", "name": "italian"},
        {"type": "meal_type", "name": "dinner"}
    ]
}

Rules:
- name is required and must not be empty.
- ingredients and instructions must each contain at least one element, preserving the order they appear in the source.
- quantity and servings must be numbers or null, never strings.
- suggestedTags types must be one of: cuisine, meal_type, occasion.
- If the content contains no recipe, respond with {"name": ""}.`

// InterpretText sends normalized text content to the model and decodes the
// claimed recipe. sourceURL, when non-empty, is stamped onto the result.
func (s *LLMService) InterpretText(ctx context.Context, content, sourceURL string) (*types.ParsedRecipe, error) {
	messages := []Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: "Extract the recipe from the following content:\n\n" + content},
	}

	raw, err := s.completion(ctx, s.model, messages)
	if err != nil {
		return nil, err
	}

	recipe, err := decodeRecipe(raw)
	if err != nil {
		return nil, err
	}

	if sourceURL != "" && recipe.SourceURL == nil {
		recipe.SourceURL = &sourceURL
	}
	return recipe, nil
}

// InterpretImage sends a recipe photo to the vision model.
func (s *LLMService) InterpretImage(ctx context.Context, image []byte, mimeType string) (*types.ParsedRecipe, error) {
	messages := []Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: []ContentPart{
			{Type: "text", Text: "Extract the recipe from this photo."},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURL(image, mimeType)}},
		}},
	}

	raw, err := s.completion(ctx, s.visionModel, messages)
	if err != nil {
		return nil, err
	}

	return decodeRecipe(raw)
}

const chatSystemPrompt = `You are a friendly cooking assistant helping a user design a recipe through conversation. The conversation moves through phases: "gathering" (collecting what the user wants), "refining" (adjusting a draft), "complete" (the user is happy with the recipe).

Respond ONLY with JSON:
{
    "reply": "your conversational reply to the user",
    "phase": "gathering|refining|complete",
    "recipe": null
}

Once you have enough to propose or adjust a recipe, include it in "recipe" using the standard recipe JSON structure (name, description, prepTime, cookTime, totalTime, servings, sourceUrl, ingredients with index/quantity/unit/name, instructions with index/instruction, images, suggestedTags). Set phase to "complete" only when the user confirms they are satisfied.`

// Chat advances a recipe-building conversation one turn.
func (s *LLMService) Chat(ctx context.Context, messages []types.ChatMessage, state types.RecipeConversationState) (*types.ChatTurn, error) {
	stateJSON, err := json.Marshal(state)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal conversation state: %w", err)
	}

	llmMessages := []Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "system", Content: "Current conversation state: " + string(stateJSON)},
	}
	for _, m := range messages {
		llmMessages = append(llmMessages, Message{Role: m.Role, Content: m.Content})
	}

	raw, err := s.completion(ctx, s.model, llmMessages)
	if err != nil {
		return nil, err
	}

	var turn types.ChatTurn
	if err := json.Unmarshal([]byte(raw), &turn); err != nil {
		return nil, fmt.Errorf("failed to parse chat turn: %w", err)
	}
	switch turn.Phase {
	case types.PhaseGathering, types.PhaseRefining, types.PhaseComplete:
	default:
		return nil, fmt.Errorf("chat turn has unknown phase %q", turn.Phase)
	}
	if turn.Phase == types.PhaseComplete {
		if turn.Recipe == nil {
			return nil, fmt.Errorf("chat turn marked complete without a recipe")
		}
		if err := turn.Recipe.Validate(); err != nil {
			return nil, fmt.Errorf("chat recipe failed validation: %w", err)
		}
	}
	return &turn, nil
}

const identifySystemPrompt = `You are an ingredient identification engine. Given a photo of a fridge, pantry or counter, list the food ingredients you can see. Respond ONLY with JSON:
{"ingredients": [{"name": "eggs", "confidence": "high"}, {"name": "parsley", "confidence": "low"}]}
confidence must be one of: high, medium, low. Do not invent ingredients you cannot see.`

// IdentifyIngredients lists the ingredients visible in a photo.
func (s *LLMService) IdentifyIngredients(ctx context.Context, image []byte, mimeType string) ([]types.IdentifiedIngredient, error) {
	messages := []Message{
		{Role: "system", Content: identifySystemPrompt},
		{Role: "user", Content: []ContentPart{
			{Type: "text", Text: "What ingredients are in this photo?"},
			{Type: "image_url", ImageURL: &ImageURL{URL: dataURL(image, mimeType)}},
		}},
	}

	raw, err := s.completion(ctx, s.visionModel, messages)
	if err != nil {
		return nil, err
	}

	var result struct {
		Ingredients []types.IdentifiedIngredient `json:"ingredients"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse ingredient list: %w", err)
	}
	return result.Ingredients, nil
}

const suggestSystemPrompt = `You are a professional chef. Given a list of ingredients a user has available, suggest recipes they could cook. Respond ONLY with JSON:
{"suggestions": [{"name": "...", "description": "...", "usesIngredients": ["..."], "additionalIngredients": ["..."]}]}
usesIngredients must only contain ingredients from the user's list; additionalIngredients are the extras they would need to buy.`

// SuggestRecipes proposes recipe ideas from available ingredients.
func (s *LLMService) SuggestRecipes(ctx context.Context, ingredients []string, count int) ([]types.RecipeSuggestion, error) {
	prompt := fmt.Sprintf("Suggest %d recipes using these ingredients:\n%s", count, strings.Join(ingredients, "\n"))
	messages := []Message{
		{Role: "system", Content: suggestSystemPrompt},
		{Role: "user", Content: prompt},
	}

	raw, err := s.completion(ctx, s.model, messages)
	if err != nil {
		return nil, err
	}

	var result struct {
		Suggestions []types.RecipeSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, fmt.Errorf("failed to parse suggestions: %w", err)
	}
	if len(result.Suggestions) == 0 {
		return nil, fmt.Errorf("model returned no suggestions")
	}
	return result.Suggestions, nil
}

// GenerateFromSuggestion expands one suggestion into a full recipe,
// preferring the caller's available ingredients.
func (s *LLMService) GenerateFromSuggestion(ctx context.Context, suggestion types.RecipeSuggestion, available []string) (*types.ParsedRecipe, error) {
	prompt := fmt.Sprintf("Generate the full recipe for %q (%s). The user has these ingredients available, prefer them where possible:\n%s",
		suggestion.Name, suggestion.Description, strings.Join(available, "\n"))
	messages := []Message{
		{Role: "system", Content: recipeSystemPrompt},
		{Role: "user", Content: prompt},
	}

	raw, err := s.completion(ctx, s.model, messages)
	if err != nil {
		return nil, err
	}

	return decodeRecipe(raw)
}

// completion posts a chat-completions request and returns the first choice's
// message content.
func (s *LLMService) completion(ctx context.Context, model string, messages []Message) (string, error) {
	reqBody := Request{
		Model:          model,
		Messages:       messages,
		ResponseFormat: map[string]string{"type": "json_object"},
		Temperature:    0.2,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from API")
	}

	return result.Choices[0].Message.Content, nil
}

// decodeRecipe parses the model's raw JSON and checks it against the recipe
// schema. Malformed JSON and schema violations are both model-output
// failures; callers do not distinguish them.
func decodeRecipe(raw string) (*types.ParsedRecipe, error) {
	var recipe types.ParsedRecipe
	if err := json.Unmarshal([]byte(raw), &recipe); err != nil {
		return nil, fmt.Errorf("failed to parse recipe JSON: %w", err)
	}
	if err := recipe.Validate(); err != nil {
		return nil, fmt.Errorf("recipe failed schema validation: %w", err)
	}
	return &recipe, nil
}

func dataURL(image []byte, mimeType string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(image))
}
