package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/gitforge/backend/services"
	"github.com/gitforge/backend/utils"
)

// HandleServiceError maps domain errors to HTTP responses. Handlers stay
// thin: they return domain errors and this single translation point decides
// status and payload.
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	code := services.GetErrorCode(err)

	switch {
	case services.IsValidationError(err):
		if werr := utils.WriteBadRequest(w, code, err.Error()); werr != nil {
			logger.Error("failed to write bad request response", zap.Error(werr))
		}

	case services.IsUnauthorizedError(err):
		if werr := utils.WriteUnauthorized(w, code, err.Error()); werr != nil {
			logger.Error("failed to write unauthorized response", zap.Error(werr))
		}

	case services.IsForbiddenError(err):
		if werr := utils.WriteForbidden(w, code, err.Error()); werr != nil {
			logger.Error("failed to write forbidden response", zap.Error(werr))
		}

	case services.IsNotFoundError(err):
		if werr := utils.WriteNotFound(w, code, err.Error()); werr != nil {
			logger.Error("failed to write not found response", zap.Error(werr))
		}

	case services.IsConflictError(err):
		if werr := utils.WriteError(w, http.StatusConflict, code, err.Error()); werr != nil {
			logger.Error("failed to write conflict response", zap.Error(werr))
		}

	default:
		// Log internal errors but return a generic message
		logger.Error("internal server error", zap.Error(err))
		if werr := utils.WriteInternalServerError(w, "an internal error occurred"); werr != nil {
			logger.Error("failed to write internal error response", zap.Error(werr))
		}
	}
}
