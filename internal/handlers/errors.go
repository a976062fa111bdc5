package handlers

import (
	"context"
	"errors"
	"net/http"
	"todoTracker/internal/logger"
	"todoTracker/internal/service"

	"go.uber.org/zap"
)

// handleBusinessError writes the response for a *service.BusinessError and
// reports whether err was one. notFoundID names the message of a 404.
func handleBusinessError(w http.ResponseWriter, r *http.Request, err error, notFoundID string) bool {
	businessErr, ok := service.AsBusinessError(err)
	if !ok {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Code)

	logger.Warn("HTTP: business error",
		zap.String("error_code", businessErr.Code),
		zap.String("error", businessErr.Message),
		zap.Int("http_status", statusCode))

	switch businessErr.Code {
	case service.CodeValidation:
		responseWithMessage(w, r, statusCode, false, "validation_failed", nil,
			toPayload("errors", fieldMessages(r, businessErr.Fields)),
		)
	case service.CodeNotFound:
		responseWithMessage(w, r, statusCode, false, notFoundID, nil)
	default:
		responseWithMessage(w, r, statusCode, false, businessErr.Code, nil,
			toPayload("details", businessErr.Details),
		)
	}
	return true
}

func mapBusinessErrorToHTTP(code string) int {
	switch code {
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

// fieldMessages groups localized rule messages by field name.
func fieldMessages(r *http.Request, fields []service.FieldError) map[string][]string {
	messages := make(map[string][]string, len(fields))
	for _, f := range fields {
		msg := localize(r, "rule_"+ruleMessage(f.Rule), map[string]any{
			"Field": f.Field,
			"Param": f.Param,
		})
		messages[f.Field] = append(messages[f.Field], msg)
	}
	return messages
}

func ruleMessage(rule string) string {
	switch rule {
	case "required", "max", "min", "oneof", "exists", "datetime", "not_past",
		"after_or_equal", "gte_field", "integer", "numeric", "developer", "json":
		return rule
	default:
		return "invalid"
	}
}

// handleFailure answers unexpected errors with a generic 500. A store call
// that ran past the request deadline answers 504 instead.
func handleFailure(w http.ResponseWriter, r *http.Request, err error, messageID string) {
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Warn("HTTP: service deadline exceeded",
			zap.Error(err),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path))
		responseWithMessage(w, r, http.StatusGatewayTimeout, false, "request_timeout", nil)
		return
	}

	logger.Error("HTTP: service error", err,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path))
	responseWithError(w, r, http.StatusInternalServerError, messageID, err)
}
