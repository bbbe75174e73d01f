package service

import (
	"context"

	"github.com/ejjsharpe/cook-club-sub004/internal/model"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// ContentFetcher retrieves the raw document behind a URL.
type ContentFetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// RecipeInterpreter turns normalized content into a structured recipe via
// the inference capability.
type RecipeInterpreter interface {
	InterpretText(ctx context.Context, content, sourceURL string) (*types.ParsedRecipe, error)
	InterpretImage(ctx context.Context, image []byte, mimeType string) (*types.ParsedRecipe, error)
}

// RecipeGenerator covers the auxiliary generation flows that share the
// interpreter's transport but use different prompts and output shapes.
type RecipeGenerator interface {
	Chat(ctx context.Context, messages []types.ChatMessage, state types.RecipeConversationState) (*types.ChatTurn, error)
	IdentifyIngredients(ctx context.Context, image []byte, mimeType string) ([]types.IdentifiedIngredient, error)
	SuggestRecipes(ctx context.Context, ingredients []string, count int) ([]types.RecipeSuggestion, error)
	GenerateFromSuggestion(ctx context.Context, suggestion types.RecipeSuggestion, available []string) (*types.ParsedRecipe, error)
}

// ParseCache is the content-addressed store of previously parsed recipes.
// Get returns ErrCacheMiss when the key is absent.
type ParseCache interface {
	Get(ctx context.Context, key string) (*CachedParse, error)
	Put(ctx context.Context, key string, entry *CachedParse) error
}

// ParseHistory records completed parse attempts for auditing. Implementations
// must tolerate being called on every request; failures are logged, never
// surfaced.
type ParseHistory interface {
	Record(ctx context.Context, rec *model.ParseRecord) error
}
