// Package mocks provides hand-rolled test doubles for the parse pipeline's
// collaborators. Call counters let tests assert that cached parses perform
// no acquisition or inference work.
package mocks

import (
	"context"

	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// Fetcher is a ContentFetcher double.
type Fetcher struct {
	HTML    string
	Err     error
	Calls   int
	LastURL string
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.Calls++
	f.LastURL = url
	if f.Err != nil {
		return "", f.Err
	}
	return f.HTML, nil
}

// Interpreter is a RecipeInterpreter double. When Panic is set, calls panic
// to exercise the orchestrator's safety net.
type Interpreter struct {
	Recipe        *types.ParsedRecipe
	Err           error
	Panic         bool
	TextCalls     int
	ImageCalls    int
	LastContent   string
	LastSourceURL string
	LastMimeType  string
}

func (i *Interpreter) InterpretText(ctx context.Context, content, sourceURL string) (*types.ParsedRecipe, error) {
	i.TextCalls++
	i.LastContent = content
	i.LastSourceURL = sourceURL
	return i.result()
}

func (i *Interpreter) InterpretImage(ctx context.Context, image []byte, mimeType string) (*types.ParsedRecipe, error) {
	i.ImageCalls++
	i.LastMimeType = mimeType
	return i.result()
}

func (i *Interpreter) result() (*types.ParsedRecipe, error) {
	if i.Panic {
		panic("interpreter exploded")
	}
	if i.Err != nil {
		return nil, i.Err
	}
	recipe := *i.Recipe
	return &recipe, nil
}

// Generator is a RecipeGenerator double for the auxiliary flows.
type Generator struct {
	Turn        *types.ChatTurn
	Ingredients []types.IdentifiedIngredient
	Suggestions []types.RecipeSuggestion
	Recipe      *types.ParsedRecipe
	Err         error

	ChatCalls     int
	IdentifyCalls int
	SuggestCalls  int
	GenerateCalls int
	LastCount     int
}

func (g *Generator) Chat(ctx context.Context, messages []types.ChatMessage, state types.RecipeConversationState) (*types.ChatTurn, error) {
	g.ChatCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Turn, nil
}

func (g *Generator) IdentifyIngredients(ctx context.Context, image []byte, mimeType string) ([]types.IdentifiedIngredient, error) {
	g.IdentifyCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Ingredients, nil
}

func (g *Generator) SuggestRecipes(ctx context.Context, ingredients []string, count int) ([]types.RecipeSuggestion, error) {
	g.SuggestCalls++
	g.LastCount = count
	if g.Err != nil {
		return nil, g.Err
	}
	return g.Suggestions, nil
}

func (g *Generator) GenerateFromSuggestion(ctx context.Context, suggestion types.RecipeSuggestion, available []string) (*types.ParsedRecipe, error) {
	g.GenerateCalls++
	if g.Err != nil {
		return nil, g.Err
	}
	recipe := *g.Recipe
	return &recipe, nil
}
