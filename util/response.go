package util

import (
	"log"
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

/*
* Build the success envelope
* Payload keys are merged next to success and message
 */
func SuccessResponse(message string, payload gin.H) gin.H {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	for k, v := range payload {
		body[k] = v
	}
	return body
}

func FailedResponse(message string) gin.H {
	return gin.H{"success": false, "message": message}
}

func RespondSuccess(c *gin.Context, message string, payload gin.H) {
	c.JSON(http.StatusOK, SuccessResponse(message, payload))
}

/*
* Map the error to its status and message
* Anything unexpected is logged and reported, the client only sees the generic message
 */
func RespondError(c *gin.Context, err error) {
	status := StatusOf(err)
	if status >= http.StatusInternalServerError {
		log.Println("Error while handling", c.Request.Method, c.Request.URL.Path, ":", err)
		if hub := sentry.CurrentHub(); hub.Client() != nil {
			hub.CaptureException(err)
		}
	}
	c.AbortWithStatusJSON(status, FailedResponse(MessageOf(err)))
}
