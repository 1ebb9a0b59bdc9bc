package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *AppConfig) Validate() []ValidationError {
	var errors []ValidationError

	switch c.Embedder.Type {
	case "tfidf":
	case "openai":
		if c.Embedder.OpenAI == nil || c.Embedder.OpenAI.APIKeyEnv == "" {
			errors = append(errors, ValidationError{
				Field:   "embedder.openai.api_key_env",
				Message: "api_key_env is required for the openai embedder",
			})
		} else if _, err := url.ParseRequestURI(c.Embedder.OpenAI.BaseURL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "embedder.openai.base_url",
				Message: "invalid base URL",
			})
		}
	case "ollama":
		if c.Embedder.Ollama != nil && c.Embedder.Ollama.BaseURL != "" {
			if _, err := url.ParseRequestURI(c.Embedder.Ollama.BaseURL); err != nil {
				errors = append(errors, ValidationError{
					Field:   "embedder.ollama.base_url",
					Message: "invalid Ollama base URL",
				})
			}
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "embedder.type",
			Message: fmt.Sprintf("unknown embedder: %s", c.Embedder.Type),
		})
	}

	switch c.Answerer.Type {
	case "local":
	case "ollama":
		if c.Answerer.Ollama != nil && c.Answerer.Ollama.BaseURL != "" {
			if _, err := url.ParseRequestURI(c.Answerer.Ollama.BaseURL); err != nil {
				errors = append(errors, ValidationError{
					Field:   "answerer.ollama.base_url",
					Message: "invalid Ollama base URL",
				})
			}
		}
	default:
		errors = append(errors, ValidationError{
			Field:   "answerer.type",
			Message: fmt.Sprintf("unknown answerer: %s", c.Answerer.Type),
		})
	}

	if c.Retrieval.SimilarityThreshold < -1 || c.Retrieval.SimilarityThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.similarity_threshold",
			Message: "similarity_threshold must be between -1 and 1",
		})
	}

	if c.Retrieval.MinSharedTokens < 1 {
		errors = append(errors, ValidationError{
			Field:   "retrieval.min_shared_tokens",
			Message: "min_shared_tokens must be positive",
		})
	}

	if c.Answer.MaxAnswerLength < 1 {
		errors = append(errors, ValidationError{
			Field:   "answer.max_answer_length",
			Message: "max_answer_length must be positive",
		})
	}

	if c.Feedback.MaxRefinements < 0 {
		errors = append(errors, ValidationError{
			Field:   "feedback.max_refinements",
			Message: "max_refinements must not be negative",
		})
	}

	if c.Models.RequestsPerSecond < 0 {
		errors = append(errors, ValidationError{
			Field:   "models.requests_per_second",
			Message: "requests_per_second must not be negative",
		})
	}

	if c.Models.TimeoutSecs < 0 {
		errors = append(errors, ValidationError{
			Field:   "models.timeout_secs",
			Message: "timeout_secs must not be negative",
		})
	}

	if c.Log.Path == "" {
		errors = append(errors, ValidationError{
			Field:   "log.path",
			Message: "log path is required",
		})
	}

	if c.Server.SessionTTLMins < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.session_ttl_mins",
			Message: "session_ttl_mins must be positive",
		})
	}

	if c.Server.MaxUploadMB < 1 {
		errors = append(errors, ValidationError{
			Field:   "server.max_upload_mb",
			Message: "max_upload_mb must be positive",
		})
	}

	return errors
}
