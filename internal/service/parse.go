package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/ejjsharpe/cook-club-sub004/internal/model"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// ParserService is the parse orchestrator. It sequences cache lookup,
// acquisition, normalization and interpretation per input type and returns
// every outcome as a response envelope, never an error.
type ParserService struct {
	fetcher     ContentFetcher
	normalizer  *ContentNormalizer
	interpreter RecipeInterpreter
	generator   RecipeGenerator
	cache       ParseCache
	history     ParseHistory
}

// NewParserService wires the orchestrator. generator and history may be nil;
// the auxiliary flows and the audit trail are then disabled.
func NewParserService(
	fetcher ContentFetcher,
	normalizer *ContentNormalizer,
	interpreter RecipeInterpreter,
	generator RecipeGenerator,
	cache ParseCache,
	history ParseHistory,
) *ParserService {
	return &ParserService{
		fetcher:     fetcher,
		normalizer:  normalizer,
		interpreter: interpreter,
		generator:   generator,
		cache:       cache,
		history:     history,
	}
}

// Parse runs the full pipeline for one input. All failures, including
// panics in collaborators, come back as {success:false} envelopes.
func (s *ParserService) Parse(ctx context.Context, input types.ParseInput) (resp types.ParseResponse) {
	start := time.Now()
	sourceKey := ""

	defer func() {
		if r := recover(); r != nil {
			resp = types.ErrorResponse(types.ErrInternalError, fmt.Sprintf("%v", r))
		}
		s.record(ctx, input, sourceKey, resp, time.Since(start))
	}()

	switch input.Type {
	case types.InputTypeURL:
		resp, sourceKey = s.parseURL(ctx, input)
	case types.InputTypeText:
		resp = s.parseText(ctx, input)
		sourceKey = payloadHash(input.Data)
	case types.InputTypeImage:
		resp = s.parseImage(ctx, input)
		sourceKey = payloadHash(input.Data)
	default:
		resp = types.ErrorResponse(types.ErrInvalidInputType, fmt.Sprintf("unrecognized input type %q", input.Type))
	}
	return resp
}

func (s *ParserService) parseURL(ctx context.Context, input types.ParseInput) (types.ParseResponse, string) {
	key, err := NormalizeURL(input.Data)
	if err != nil {
		return types.ErrorResponse(types.ErrInvalidInput, err.Error()), ""
	}

	if entry, err := s.cache.Get(ctx, key); err == nil {
		return types.ParseResponse{
			Success: true,
			Data:    &entry.Recipe,
			Metadata: &types.ParseMetadata{
				Source:      types.InputTypeURL,
				ParseMethod: types.ParseMethodAIOnly,
				Confidence:  entry.Confidence,
				Cached:      true,
			},
		}, key
	} else if !errors.Is(err, ErrCacheMiss) {
		// A broken cache degrades to a miss; the parse still proceeds.
		log.Printf("cache read failed for %s: %v", key, err)
	}

	rawHTML, err := s.fetcher.Fetch(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			return types.ErrorResponse(types.ErrNoContent, "the page had no parseable content"), key
		}
		return types.ErrorResponse(types.ErrFetchFailed, err.Error()), key
	}

	content, err := s.normalizer.Normalize(rawHTML)
	if err != nil {
		if errors.Is(err, ErrNoContent) {
			return types.ErrorResponse(types.ErrNoContent, "no recipe-like content could be extracted from the page"), key
		}
		return types.ErrorResponse(types.ErrNoContent, err.Error()), key
	}

	recipe, err := s.interpret(ctx, content, key)
	if err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error()), key
	}

	if err := s.cache.Put(ctx, key, &CachedParse{Recipe: *recipe, Confidence: types.ConfidenceMedium}); err != nil {
		log.Printf("cache write failed for %s: %v", key, err)
	}

	return successResponse(recipe, types.InputTypeURL), key
}

func (s *ParserService) parseText(ctx context.Context, input types.ParseInput) types.ParseResponse {
	length := utf8.RuneCountInString(input.Data)
	if length < types.MinTextLength {
		return types.ErrorResponse(types.ErrInvalidInput,
			fmt.Sprintf("text input must be at least %d characters, got %d", types.MinTextLength, length))
	}
	if length > types.MaxTextLength {
		return types.ErrorResponse(types.ErrInputTooLong,
			fmt.Sprintf("text input must be at most %d characters, got %d", types.MaxTextLength, length))
	}

	recipe, err := s.interpret(ctx, input.Data, "")
	if err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error())
	}

	return successResponse(recipe, types.InputTypeText)
}

func (s *ParserService) parseImage(ctx context.Context, input types.ParseInput) types.ParseResponse {
	if !types.AllowedImageMimeTypes[input.MimeType] {
		return types.ErrorResponse(types.ErrInvalidMimeType,
			fmt.Sprintf("mime type %q is not supported; use image/jpeg, image/png or image/webp", input.MimeType))
	}

	image, err := base64.StdEncoding.DecodeString(input.Data)
	if err != nil {
		return types.ErrorResponse(types.ErrInvalidBase64, "image data is not valid base64")
	}

	recipe, err := s.interpreter.InterpretImage(ctx, image, input.MimeType)
	if err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error())
	}
	if err := recipe.Validate(); err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error())
	}

	return successResponse(recipe, types.InputTypeImage)
}

// interpret runs the text interpreter and re-checks the schema at the
// orchestrator boundary.
func (s *ParserService) interpret(ctx context.Context, content, sourceURL string) (*types.ParsedRecipe, error) {
	recipe, err := s.interpreter.InterpretText(ctx, content, sourceURL)
	if err != nil {
		return nil, err
	}
	if err := recipe.Validate(); err != nil {
		return nil, err
	}
	return recipe, nil
}

// Chat advances a recipe-building conversation one turn.
func (s *ParserService) Chat(ctx context.Context, req types.ChatRequest) (resp types.ChatResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = types.ChatResponse{Success: false, Error: &types.ParseError{Code: types.ErrInternalError, Message: fmt.Sprintf("%v", r)}}
		}
	}()

	if len(req.Messages) == 0 {
		return types.ChatResponse{Success: false, Error: &types.ParseError{Code: types.ErrInvalidInput, Message: "at least one message is required"}}
	}

	turn, err := s.generator.Chat(ctx, req.Messages, req.ConversationState)
	if err != nil {
		return types.ChatResponse{Success: false, Error: &types.ParseError{Code: types.ErrAIParseFailed, Message: err.Error()}}
	}

	state := &types.RecipeConversationState{Phase: turn.Phase, Draft: turn.Recipe}
	return types.ChatResponse{
		Success:           true,
		Reply:             turn.Reply,
		ConversationState: state,
		Recipe:            turn.Recipe,
	}
}

// IdentifyIngredients lists ingredients visible in a photo.
func (s *ParserService) IdentifyIngredients(ctx context.Context, req types.IdentifyIngredientsRequest) (resp types.IdentifyIngredientsResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = types.IdentifyIngredientsResponse{Success: false, Error: &types.ParseError{Code: types.ErrInternalError, Message: fmt.Sprintf("%v", r)}}
		}
	}()

	if !types.AllowedImageMimeTypes[req.MimeType] {
		return types.IdentifyIngredientsResponse{Success: false, Error: &types.ParseError{
			Code:    types.ErrInvalidMimeType,
			Message: fmt.Sprintf("mime type %q is not supported", req.MimeType),
		}}
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		return types.IdentifyIngredientsResponse{Success: false, Error: &types.ParseError{
			Code:    types.ErrInvalidBase64,
			Message: "image data is not valid base64",
		}}
	}

	ingredients, err := s.generator.IdentifyIngredients(ctx, image, req.MimeType)
	if err != nil {
		return types.IdentifyIngredientsResponse{Success: false, Error: &types.ParseError{Code: types.ErrAIParseFailed, Message: err.Error()}}
	}

	return types.IdentifyIngredientsResponse{Success: true, Ingredients: ingredients}
}

const (
	defaultSuggestionCount = 3
	maxSuggestionCount     = 10
)

// SuggestRecipes proposes recipe ideas from available ingredients.
func (s *ParserService) SuggestRecipes(ctx context.Context, req types.SuggestRecipesRequest) (resp types.SuggestRecipesResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = types.SuggestRecipesResponse{Success: false, Error: &types.ParseError{Code: types.ErrInternalError, Message: fmt.Sprintf("%v", r)}}
		}
	}()

	if len(req.Ingredients) == 0 {
		return types.SuggestRecipesResponse{Success: false, Error: &types.ParseError{
			Code:    types.ErrInvalidInput,
			Message: "at least one ingredient is required",
		}}
	}
	count := req.Count
	if count <= 0 {
		count = defaultSuggestionCount
	}
	if count > maxSuggestionCount {
		count = maxSuggestionCount
	}

	suggestions, err := s.generator.SuggestRecipes(ctx, req.Ingredients, count)
	if err != nil {
		return types.SuggestRecipesResponse{Success: false, Error: &types.ParseError{Code: types.ErrAIParseFailed, Message: err.Error()}}
	}

	return types.SuggestRecipesResponse{Success: true, Suggestions: suggestions}
}

// GenerateFromSuggestion expands a suggestion into a full recipe, returned
// in the standard parse envelope.
func (s *ParserService) GenerateFromSuggestion(ctx context.Context, req types.GenerateFromSuggestionRequest) (resp types.ParseResponse) {
	defer func() {
		if r := recover(); r != nil {
			resp = types.ErrorResponse(types.ErrInternalError, fmt.Sprintf("%v", r))
		}
	}()

	if req.Suggestion.Name == "" {
		return types.ErrorResponse(types.ErrInvalidInput, "suggestion name is required")
	}

	recipe, err := s.generator.GenerateFromSuggestion(ctx, req.Suggestion, req.AvailableIngredients)
	if err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error())
	}
	if err := recipe.Validate(); err != nil {
		return types.ErrorResponse(types.ErrAIParseFailed, err.Error())
	}

	return successResponse(recipe, types.InputTypeText)
}

func successResponse(recipe *types.ParsedRecipe, source string) types.ParseResponse {
	return types.ParseResponse{
		Success: true,
		Data:    recipe,
		Metadata: &types.ParseMetadata{
			Source:      source,
			ParseMethod: types.ParseMethodAIOnly,
			Confidence:  types.ConfidenceMedium,
			Cached:      false,
		},
	}
}

// record writes the audit-trail row for a completed parse. Best effort.
func (s *ParserService) record(ctx context.Context, input types.ParseInput, sourceKey string, resp types.ParseResponse, elapsed time.Duration) {
	if s.history == nil {
		return
	}

	rec := &model.ParseRecord{
		ID:         uuid.New(),
		CreatedAt:  time.Now(),
		Source:     input.Type,
		SourceKey:  sourceKey,
		Success:    resp.Success,
		DurationMs: elapsed.Milliseconds(),
	}
	if resp.Error != nil {
		rec.ErrorCode = string(resp.Error.Code)
	}
	if resp.Metadata != nil {
		rec.CacheHit = resp.Metadata.Cached
	}
	if resp.Data != nil {
		rec.RecipeName = resp.Data.Name
	}

	if err := s.history.Record(ctx, rec); err != nil {
		log.Printf("failed to record parse history: %v", err)
	}
}

// payloadHash derives a stable identity for inline payloads, used only for
// the audit trail. Inline content is not cached.
func payloadHash(data string) string {
	sum := sha256.Sum256([]byte(data))
	return hex.EncodeToString(sum[:])
}
