package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is where the request id middleware leaves the id.
const RequestIDKey = "request_id"

// APIResponse is the envelope of every JSON reply.
type APIResponse[T any] struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Data      T         `json:"data,omitempty"`
	Meta      any       `json:"meta,omitempty"`
	Error     any       `json:"error,omitempty"`
}

func write[T any](ctx *gin.Context, resp APIResponse[T]) APIResponse[T] {
	resp.Timestamp = time.Now().UTC()
	resp.RequestID = ctx.GetString(RequestIDKey)
	ctx.JSON(resp.Status, resp)
	return resp
}

// Success writes data with status (200 when 0) and returns the envelope.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta any) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	return write(ctx, APIResponse[T]{Status: status, Success: true, Message: message, Data: data, Meta: meta})
}

// Error writes a failed envelope (400 when status is 0). The caller aborts
// the chain if needed.
func Error[T any](ctx *gin.Context, status int, message string, err any) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return write(ctx, APIResponse[T]{Status: status, Message: message, Error: err})
}
