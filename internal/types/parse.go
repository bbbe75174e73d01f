package types

import (
	"fmt"
	"strings"
)

// Input type discriminators for ParseInput.
const (
	InputTypeURL   = "url"
	InputTypeText  = "text"
	InputTypeImage = "image"
)

// Bounds shared by direct text input and normalized page extracts.
const (
	MinTextLength = 10
	MaxTextLength = 12000
)

// AllowedImageMimeTypes is the accepted mime allow-list for image inputs.
var AllowedImageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// ParseInput is the tagged union accepted by the parse endpoint. Exactly one
// shape is valid per Type: url inputs carry an absolute URL in Data, text
// inputs carry raw recipe text, image inputs carry base64 data plus MimeType.
type ParseInput struct {
	Type           string `json:"type"`
	Data           string `json:"data"`
	StructuredOnly bool   `json:"structuredOnly,omitempty"`
	MimeType       string `json:"mimeType,omitempty"`
}

// Ingredient is a single ingredient line in presentation order.
type Ingredient struct {
	Index    int      `json:"index"`
	Quantity *float64 `json:"quantity"`
	Unit     *string  `json:"unit"`
	Name     string   `json:"name"`
}

// Instruction is a single preparation step in presentation order.
type Instruction struct {
	Index       int    `json:"index"`
	Instruction string `json:"instruction"`
}

// Tag type discriminators for suggested tags.
const (
	TagTypeCuisine  = "cuisine"
	TagTypeMealType = "meal_type"
	TagTypeOccasion = "occasion"
)

// Tag is a suggested classification attached to a parsed recipe.
type Tag struct {
	Type string `json:"type"`
	Name string `json:"name"`
}

// ParsedRecipe is the structured recipe produced by a successful parse.
// Time fields hold ISO-8601 duration text (e.g. "PT15M").
type ParsedRecipe struct {
	Name          string        `json:"name"`
	Description   *string       `json:"description"`
	PrepTime      *string       `json:"prepTime"`
	CookTime      *string       `json:"cookTime"`
	TotalTime     *string       `json:"totalTime"`
	Servings      *float64      `json:"servings"`
	SourceURL     *string       `json:"sourceUrl"`
	Ingredients   []Ingredient  `json:"ingredients"`
	Instructions  []Instruction `json:"instructions"`
	Images        []string      `json:"images,omitempty"`
	SuggestedTags []Tag         `json:"suggestedTags,omitempty"`
}

// Validate checks the schema invariants a recipe must satisfy before it may
// be surfaced as a success: non-empty name, at least one ingredient and one
// instruction, non-negative indices, known tag types.
func (r *ParsedRecipe) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("recipe name is required")
	}
	if len(r.Ingredients) == 0 {
		return fmt.Errorf("recipe must have at least one ingredient")
	}
	for i, ing := range r.Ingredients {
		if strings.TrimSpace(ing.Name) == "" {
			return fmt.Errorf("ingredient %d: name is required", i)
		}
		if ing.Index < 0 {
			return fmt.Errorf("ingredient %d: index must not be negative", i)
		}
	}
	if len(r.Instructions) == 0 {
		return fmt.Errorf("recipe must have at least one instruction")
	}
	for i, step := range r.Instructions {
		if strings.TrimSpace(step.Instruction) == "" {
			return fmt.Errorf("instruction %d: text is required", i)
		}
		if step.Index < 0 {
			return fmt.Errorf("instruction %d: index must not be negative", i)
		}
	}
	for i, tag := range r.SuggestedTags {
		switch tag.Type {
		case TagTypeCuisine, TagTypeMealType, TagTypeOccasion:
		default:
			return fmt.Errorf("tag %d: unknown type %q", i, tag.Type)
		}
	}
	return nil
}

// Confidence levels attached to parse results.
const (
	ConfidenceHigh   = "high"
	ConfidenceMedium = "medium"
	ConfidenceLow    = "low"
)

// ParseMethodAIOnly records that the model was the sole source of structure.
// Kept as a field rather than a constant response value so a structured-data
// first strategy can slot in later.
const ParseMethodAIOnly = "ai_only"

// ParseMetadata describes how a parse result was produced.
type ParseMetadata struct {
	Source      string `json:"source"`
	ParseMethod string `json:"parseMethod"`
	Confidence  string `json:"confidence"`
	Cached      bool   `json:"cached"`
}

// ParseResponse is the envelope returned by every parse operation. Exactly
// one branch is populated: Data+Metadata on success, Error on failure.
type ParseResponse struct {
	Success  bool           `json:"success"`
	Data     *ParsedRecipe  `json:"data,omitempty"`
	Metadata *ParseMetadata `json:"metadata,omitempty"`
	Error    *ParseError    `json:"error,omitempty"`
}
