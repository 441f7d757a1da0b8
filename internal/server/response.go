package server

import (
	"time"

	"github.com/gin-gonic/gin"
)

// apiResponse is the JSON body of every HTTP endpoint.
type apiResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     *apiError   `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// acceptedCallback is the data of a stored callback response.
type acceptedCallback struct {
	ID       string `json:"id,omitempty"`
	Kind     string `json:"kind"`
	APIMsgID string `json:"apiMsgId"`
}

func respondJSON(c *gin.Context, status int, data interface{}) {
	c.JSON(status, apiResponse{
		Success:   status < 400,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, apiResponse{
		Success:   false,
		Error:     &apiError{Code: code, Message: message},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
