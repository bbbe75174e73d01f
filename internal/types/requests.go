package types

// Conversation phases for the chat-to-recipe flow.
const (
	PhaseGathering = "gathering"
	PhaseRefining  = "refining"
	PhaseComplete  = "complete"
)

// ChatMessage is one turn of a recipe-building conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// RecipeConversationState is client-held conversation state, echoed back on
// every turn. The service itself stays stateless between requests.
type RecipeConversationState struct {
	Phase string        `json:"phase"`
	Draft *ParsedRecipe `json:"draft,omitempty"`
}

// ChatRequest is the input to the chat-to-recipe flow.
type ChatRequest struct {
	Messages          []ChatMessage           `json:"messages"`
	ConversationState RecipeConversationState `json:"conversationState"`
}

// ChatTurn is one model response in the conversation: a reply to show the
// user, the updated phase, and the recipe once the model marks it complete.
type ChatTurn struct {
	Reply  string        `json:"reply"`
	Phase  string        `json:"phase"`
	Recipe *ParsedRecipe `json:"recipe,omitempty"`
}

// ChatResponse is the envelope for the chat flow.
type ChatResponse struct {
	Success           bool                     `json:"success"`
	Reply             string                   `json:"reply,omitempty"`
	ConversationState *RecipeConversationState `json:"conversationState,omitempty"`
	Recipe            *ParsedRecipe            `json:"recipe,omitempty"`
	Error             *ParseError              `json:"error,omitempty"`
}

// IdentifyIngredientsRequest carries a fridge/pantry photo.
type IdentifyIngredientsRequest struct {
	ImageBase64 string `json:"imageBase64"`
	MimeType    string `json:"mimeType"`
}

// IdentifiedIngredient is one ingredient the model spotted in a photo.
type IdentifiedIngredient struct {
	Name       string `json:"name"`
	Confidence string `json:"confidence"`
}

// IdentifyIngredientsResponse is the envelope for ingredient identification.
type IdentifyIngredientsResponse struct {
	Success     bool                   `json:"success"`
	Ingredients []IdentifiedIngredient `json:"ingredients,omitempty"`
	Error       *ParseError            `json:"error,omitempty"`
}

// SuggestRecipesRequest asks for recipe ideas from available ingredients.
type SuggestRecipesRequest struct {
	Ingredients []string `json:"ingredients"`
	Count       int      `json:"count,omitempty"`
}

// RecipeSuggestion is a lightweight recipe idea; a follow-up call turns one
// suggestion into a full recipe.
type RecipeSuggestion struct {
	Name                  string   `json:"name"`
	Description           string   `json:"description"`
	UsesIngredients       []string `json:"usesIngredients"`
	AdditionalIngredients []string `json:"additionalIngredients"`
}

// SuggestRecipesResponse is the envelope for suggestion generation.
type SuggestRecipesResponse struct {
	Success     bool               `json:"success"`
	Suggestions []RecipeSuggestion `json:"suggestions,omitempty"`
	Error       *ParseError        `json:"error,omitempty"`
}

// GenerateFromSuggestionRequest turns one suggestion into a full recipe,
// preferring the caller's available ingredients.
type GenerateFromSuggestionRequest struct {
	Suggestion           RecipeSuggestion `json:"suggestion"`
	AvailableIngredients []string         `json:"availableIngredients"`
}
