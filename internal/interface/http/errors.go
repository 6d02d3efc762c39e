package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Gabriel-Moraes12/Kinisi2/internal/application"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/response"
	"github.com/Gabriel-Moraes12/Kinisi2/pkg/validation"
)

type errorKind struct {
	err    error
	status int
	code   string
}

var errorKinds = []errorKind{
	{application.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
	{application.ErrNotFound, http.StatusNotFound, "not_found"},
	{application.ErrAlreadyFriends, http.StatusConflict, "already_friends"},
	{application.ErrDuplicateRequest, http.StatusConflict, "duplicate_request"},
	{application.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},
	{application.ErrEmailNotFound, http.StatusUnauthorized, "email_not_found"},
	{application.ErrEmailNotVerified, http.StatusForbidden, "email_not_verified"},
	{application.ErrEmailTaken, http.StatusConflict, "email_taken"},
	{application.ErrInvalidToken, http.StatusBadRequest, "invalid_token"},
	{application.ErrProviderUnavailable, http.StatusBadGateway, "provider_unavailable"},
	{application.ErrNoNovelQuestion, http.StatusTooManyRequests, "no_novel_question"},
	{application.ErrInternal, http.StatusInternalServerError, "internal_error"},
}

// StatusFor maps a service error to its HTTP status and message code.
// Unknown errors are internal.
func StatusFor(err error) (int, string) {
	for _, k := range errorKinds {
		if errors.Is(err, k.err) {
			return k.status, k.code
		}
	}
	return http.StatusInternalServerError, "internal_error"
}

// fail writes the envelope for err. Internal details stay in the log.
func fail(c *gin.Context, logger *logrus.Logger, err error) {
	status, code := StatusFor(err)
	if status >= http.StatusInternalServerError {
		if logger != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": c.GetString(response.RequestIDKey),
				"path":       c.FullPath(),
			}).Error("request failed")
		}
		if status == http.StatusInternalServerError {
			response.Error[any](c, status, code, nil)
			return
		}
	}
	response.Error[any](c, status, code, err.Error())
}

func badPayload(c *gin.Context, err error) {
	response.Error[any](c, http.StatusBadRequest, "invalid_input", validation.ToDetails(err))
}
