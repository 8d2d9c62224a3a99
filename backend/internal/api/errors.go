package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "jackut/backend/pkg/errors"
)

var statusByCode = map[apperrors.Code]int{
	apperrors.CodeDuplicateAccount:       http.StatusConflict,
	apperrors.CodeInvalidCredentials:     http.StatusUnauthorized,
	apperrors.CodeUnknownAccount:         http.StatusNotFound,
	apperrors.CodeUnknownSession:         http.StatusUnauthorized,
	apperrors.CodeMissingAttribute:       http.StatusNotFound,
	apperrors.CodeSelfRelation:           http.StatusUnprocessableEntity,
	apperrors.CodeAlreadyRelated:         http.StatusConflict,
	apperrors.CodeDuplicateRequest:       http.StatusConflict,
	apperrors.CodeBlocked:                http.StatusForbidden,
	apperrors.CodeSelfSend:               http.StatusUnprocessableEntity,
	apperrors.CodeEmptyQueue:             http.StatusNotFound,
	apperrors.CodeDuplicateCommunityName: http.StatusConflict,
	apperrors.CodeUnknownCommunity:       http.StatusNotFound,
	apperrors.CodeAlreadyMember:          http.StatusConflict,
	apperrors.CodeInvalidCommunityName:   http.StatusUnprocessableEntity,
}

// statusFor maps a taxonomy code to an HTTP status; anything else is a 500
func statusFor(err error) int {
	if status, ok := statusByCode[apperrors.CodeOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

func (s *Server) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error(), "code": apperrors.CodeOf(err)})
}
