package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ejjsharpe/cook-club-sub004/internal/service"
	"github.com/ejjsharpe/cook-club-sub004/internal/types"
)

// ParseHandler exposes the parser service over the RPC surface.
type ParseHandler struct {
	parser *service.ParserService
}

// NewParseHandler creates a ParseHandler.
func NewParseHandler(parser *service.ParserService) *ParseHandler {
	return &ParseHandler{parser: parser}
}

// RegisterRoutes registers the RPC routes. When devTest is true the raw
// /test endpoint is also mounted; it exists only for manual local testing
// and must never be relied on by production callers.
func (h *ParseHandler) RegisterRoutes(router *gin.Engine, rateLimit gin.HandlerFunc, devTest bool) {
	v1 := router.Group("/api/v1")
	if rateLimit != nil {
		v1.Use(rateLimit)
	}
	{
		v1.POST("/parse", h.Parse)
		v1.POST("/chat", h.Chat)
		v1.POST("/identify-ingredients", h.IdentifyIngredients)
		v1.POST("/suggest-recipes", h.SuggestRecipes)
		v1.POST("/generate-from-suggestion", h.GenerateFromSuggestion)
	}

	if devTest {
		router.POST("/test", h.Parse)
	}

	// Everything outside the RPC surface is rejected outright.
	rejected := func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "direct HTTP access is not supported; invoke this service through the RPC surface",
		})
	}
	router.NoRoute(rejected)
	router.NoMethod(rejected)
}

// Parse handles the main parse RPC.
func (h *ParseHandler) Parse(c *gin.Context) {
	var input types.ParseInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON ParseInput: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.parser.Parse(c.Request.Context(), input))
}

// Chat handles the chat-to-recipe RPC.
func (h *ParseHandler) Chat(c *gin.Context) {
	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON ChatRequest: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.parser.Chat(c.Request.Context(), req))
}

// IdentifyIngredients handles the fridge-photo RPC.
func (h *ParseHandler) IdentifyIngredients(c *gin.Context) {
	var req types.IdentifyIngredientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON IdentifyIngredientsRequest: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.parser.IdentifyIngredients(c.Request.Context(), req))
}

// SuggestRecipes handles the suggestion RPC.
func (h *ParseHandler) SuggestRecipes(c *gin.Context) {
	var req types.SuggestRecipesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON SuggestRecipesRequest: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.parser.SuggestRecipes(c.Request.Context(), req))
}

// GenerateFromSuggestion handles the suggestion-to-recipe RPC.
func (h *ParseHandler) GenerateFromSuggestion(c *gin.Context) {
	var req types.GenerateFromSuggestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "request body must be a JSON GenerateFromSuggestionRequest: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, h.parser.GenerateFromSuggestion(c.Request.Context(), req))
}
