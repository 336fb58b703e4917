package api

import "github.com/gin-gonic/gin"

// Envelope is the uniform response shape of every endpoint
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, Envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, status int, msg string, err error) {
	env := Envelope{Success: false, Error: msg}
	if err != nil {
		env.Details = err.Error()
	}
	c.JSON(status, env)
}
