package utils

import "github.com/gin-gonic/gin"

// JSONResponse defines the uniform structure for API responses.
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// Success returns a standard success response with the payload under data.
func Success(ctx *gin.Context, data interface{}) {
	ctx.JSON(200, JSONResponse{Success: true, Data: data})
}

// Error returns a standard error response with a human-readable message.
func Error(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, JSONResponse{Success: false, Message: message})
}
