// Package response writes the JSON bodies shared by every handler.
package response

import (
	"github.com/gin-gonic/gin"
)

// ErrorBody is the shape of every non-2xx response.
type ErrorBody struct {
	Message   string            `json:"message"`
	RequestID string            `json:"request_id,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// MessageBody is a 2xx response that only carries a human-readable message.
type MessageBody struct {
	Message string `json:"message"`
}

// JSON writes data as the body, unwrapped.
func JSON(ctx *gin.Context, status int, data any) {
	ctx.JSON(status, data)
}

func Message(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, MessageBody{Message: message})
}

// Error aborts the chain with an ErrorBody. details may be nil.
func Error(ctx *gin.Context, status int, message string, details map[string]string) {
	ctx.AbortWithStatusJSON(status, ErrorBody{
		Message:   message,
		RequestID: ctx.GetString("request_id"),
		Details:   details,
	})
}
