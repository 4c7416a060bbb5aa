package main

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/regulationlab/counterfact/counterfactual"
)

const apiVersion = "1.0.0"

type server struct {
	gen           *counterfactual.Generator
	log           *zap.SugaredLogger
	keyConfigured bool
}

func newRouter(s *server) *gin.Engine {
	router := gin.Default()

	// Callable from any browser-based client.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
	}))

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)
	router.POST("/counterfactual", s.handleCounterfactual)
	router.POST("/debug-input", s.handleDebugInput)
	return router
}

type textInput struct {
	Text     string                         `json:"text" binding:"required"`
	Metadata *counterfactual.SessionContext `json:"metadata"`
}

type counterfactualResponse struct {
	Counterfactuals []string `json:"counterfactuals"`
	OriginalText    string   `json:"original_text"`
	Metadata        gin.H    `json:"metadata,omitempty"`
}

func (s *server) handleCounterfactual(c *gin.Context) {
	var in textInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if md := in.Metadata; md != nil {
		s.log.Infow("processing counterfactual request",
			"session_id", md.SessionID,
			"user_id", md.UserID,
			"timestamp", md.Timestamp,
			"questions", len(md.Questions),
			"has_weekly_plan", md.WeeklyPlan != nil,
			"complete_context", md.Complete(),
		)
	}

	cfs, err := s.gen.Generate(c.Request.Context(), in.Text, in.Metadata)
	if err != nil {
		if errors.Is(err, counterfactual.ErrNoUsableInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		s.log.Errorw("generate counterfactuals", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "counterfactual generation failed"})
		return
	}

	resp := counterfactualResponse{
		Counterfactuals: cfs,
		OriginalText:    in.Text,
	}
	if md := in.Metadata; md != nil {
		resp.Metadata = gin.H{
			"processed_at":        md.Timestamp,
			"session_id":          md.SessionID,
			"user_id":             md.UserID,
			"questions_processed": len(md.Questions),
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) handleDebugInput(c *gin.Context) {
	var in textInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview := in.Text
	if len(preview) > 200 {
		preview = preview[:200] + "..."
	}
	c.JSON(http.StatusOK, gin.H{
		"received_text_length": len(in.Text),
		"text_preview":         preview,
		"has_metadata":         in.Metadata != nil,
		"metadata":             in.Metadata,
	})
}

func (s *server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":                        "healthy",
		"api_version":                   apiVersion,
		"completion_api_key_configured": s.keyConfigured,
	})
}

func (s *server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "Counterfactual API is running",
	})
}
