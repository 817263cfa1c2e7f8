package api

import (
	"encoding/base64"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/stegavox/stegavox/domain/entities"
	"github.com/stegavox/stegavox/internal/auth"
	ws "github.com/stegavox/stegavox/internal/websocket"
	"github.com/stegavox/stegavox/usecase"
)

// Server wires the pipeline into the collaborator-facing JSON API
type Server struct {
	pipeline  *usecase.PipelineService
	voiceGate *usecase.VoiceGate
	logger    *zap.Logger
}

// InitRoutes initializes all API routes
func InitRoutes(e *echo.Echo, pipeline *usecase.PipelineService, voiceGate *usecase.VoiceGate, logger *zap.Logger) {
	s := &Server{pipeline: pipeline, voiceGate: voiceGate, logger: logger}

	// Health check
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "stegavox-server",
		})
	})

	e.POST("/api/v1/auth", s.clientAuth)

	// API v1 routes behind bearer auth
	v1 := e.Group("/api/v1", requireToken(logger))
	v1.POST("/hide", s.hide)
	v1.POST("/reveal", s.reveal)
	v1.POST("/capacity", s.capacity)
	v1.POST("/metrics", s.metrics)

	// WebSocket endpoint for streamed voice verification
	e.GET("/ws/verify", func(c echo.Context) error {
		return s.verifyWebSocket(c)
	})
}

// requireToken validates the Authorization header on protected routes
func requireToken(logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "missing_token",
					Message: "JWT token is required in Authorization header",
				})
			}

			claims, err := auth.ValidateToken(token)
			if err != nil {
				logger.Warn("Request rejected: invalid token", zap.Error(err))
				return c.JSON(http.StatusUnauthorized, ErrorResponse{
					Error:   "invalid_token",
					Message: "Invalid or expired JWT token",
				})
			}

			c.Set("client_id", claims.ClientID)
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if len(header) > 7 && header[:7] == "Bearer " {
		return header[7:]
	}
	return ""
}

func (s *Server) clientAuth(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}
	if req.ClientID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "missing_fields",
			Message: "client_id is required",
		})
	}

	token, err := auth.GenerateClientToken(req.ClientID)
	if err != nil {
		s.logger.Error("Failed to generate client token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{Token: token})
}

func (s *Server) hide(c echo.Context) error {
	var req HideRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	cover, err := base64.StdEncoding.DecodeString(req.Cover)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_cover",
			Message: "cover must be base64 encoded",
		})
	}
	voiceSample, err := base64.StdEncoding.DecodeString(req.VoiceSample)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_voice_sample",
			Message: "voice_sample must be base64 encoded",
		})
	}

	result, err := s.pipeline.Hide(c.Request().Context(), usecase.HideRequest{
		MediaType:      entities.MediaType(req.MediaType),
		Cover:          cover,
		Plaintext:      req.Message,
		Password:       req.Password,
		PassphraseText: req.PassphraseText,
		VoiceSample:    voiceSample,
		Threshold:      req.Threshold,
	})
	if err != nil {
		return s.pipelineError(c, err)
	}

	return c.JSON(http.StatusOK, HideResponse{
		Stego:        base64.StdEncoding.EncodeToString(result.Stego),
		Filename:     result.Filename,
		SessionID:    result.SessionID,
		Verification: result.Verification,
		Metrics:      result.Metrics,
	})
}

func (s *Server) reveal(c echo.Context) error {
	var req RevealRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	stego, err := base64.StdEncoding.DecodeString(req.Stego)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_stego",
			Message: "stego must be base64 encoded",
		})
	}
	voiceSample, err := base64.StdEncoding.DecodeString(req.VoiceSample)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_voice_sample",
			Message: "voice_sample must be base64 encoded",
		})
	}

	result, err := s.pipeline.Reveal(c.Request().Context(), usecase.RevealRequest{
		MediaType:         entities.MediaType(req.MediaType),
		Stego:             stego,
		Password:          req.Password,
		VoiceSample:       voiceSample,
		OriginalPlaintext: req.OriginalMessage,
		SessionID:         req.SessionID,
	})
	if err != nil {
		return s.pipelineError(c, err)
	}

	return c.JSON(http.StatusOK, RevealResponse{
		Message:    result.Plaintext,
		Transcript: result.Transcript,
		Integrity:  result.Integrity,
	})
}

func (s *Server) capacity(c echo.Context) error {
	var req CapacityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	data, err := base64.StdEncoding.DecodeString(req.Carrier)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_carrier",
			Message: "carrier must be base64 encoded",
		})
	}

	report, err := s.pipeline.Capacity(entities.MediaType(req.MediaType), data)
	if err != nil {
		return s.pipelineError(c, err)
	}

	return c.JSON(http.StatusOK, report)
}

func (s *Server) metrics(c echo.Context) error {
	var req MetricsRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	return c.JSON(http.StatusOK, usecase.EstimateSecurityMetrics(req.Message, req.Password))
}

func (s *Server) verifyWebSocket(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		token = c.QueryParam("token")
	}
	if token == "" {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}
	if _, err := auth.ValidateToken(token); err != nil {
		s.logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	return ws.HandleVerify(c, s.voiceGate, s.logger)
}

// pipelineError maps domain errors onto HTTP statuses with structured detail
// and without leaking passwords or plaintext.
func (s *Server) pipelineError(c echo.Context, err error) error {
	var authErr *entities.AuthenticationError
	var capErr *entities.CapacityError
	var decErr *entities.DecryptionError

	switch {
	case errors.As(err, &authErr):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: authErr.Error(),
			Details: map[string]any{
				"expected_text":    authErr.ExpectedText,
				"transcribed_text": authErr.TranscribedText,
				"similarity":       authErr.Score,
				"threshold":        authErr.Threshold,
			},
		})
	case errors.As(err, &capErr):
		return c.JSON(http.StatusRequestEntityTooLarge, ErrorResponse{
			Error:   "capacity_exceeded",
			Message: capErr.Error(),
			Details: map[string]any{
				"required_bits":  capErr.RequiredBits,
				"available_bits": capErr.AvailableBits,
			},
		})
	case errors.As(err, &decErr):
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "decryption_failed",
			Message: decErr.Error(),
		})
	case errors.Is(err, entities.ErrMarkerNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "marker_not_found",
			Message: err.Error(),
		})
	case errors.Is(err, entities.ErrUnsupportedMedia):
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "unsupported_media",
			Message: err.Error(),
		})
	default:
		s.logger.Error("Pipeline operation failed", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "Operation failed",
		})
	}
}
