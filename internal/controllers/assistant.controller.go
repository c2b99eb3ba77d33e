package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vehicledash/internal/services"
)

type AssistantController struct {
	source      TelemetrySource
	assistant   *services.Assistant
	transcriber services.Transcriber
}

// NewAssistantController wires the chat endpoint; transcriber may be nil,
// in which case speech requests fall back to their typed text.
func NewAssistantController(source TelemetrySource, assistant *services.Assistant, transcriber services.Transcriber) *AssistantController {
	return &AssistantController{source: source, assistant: assistant, transcriber: transcriber}
}

type askRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"` // "typed" (default) or "speech"
	Audio  []byte `json:"audio,omitempty"`
}

// GetGreeting returns the assistant's opening message
func (ac *AssistantController) GetGreeting(c *gin.Context) {
	c.JSON(http.StatusOK, ac.assistant.Greeting())
}

// PostMessage answers one question about the current vehicle state
func (ac *AssistantController) PostMessage(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	var sources []services.InputSource
	if req.Source == "speech" {
		sources = append(sources, services.SpeechInput{Transcriber: ac.transcriber, Audio: req.Audio})
	}
	sources = append(sources, services.TypedInput{Value: req.Text})

	question, answer, err := ac.assistant.Ask(c.Request.Context(), ac.source.CurrentSample(), sources...)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is empty"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"question": question,
		"answer":   answer,
	})
}
