package controllers

import (
	"Cywala/util"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Chat(router *gin.Engine) {
	router.POST("/api/chat", h.ChatReply)
}

type chatRequest struct {
	Message string `json:"message"`
}

// ChatReply always includes a reply, the fallback text when the provider fails.
func (h *Handler) ChatReply(c *gin.Context) {
	var req chatRequest
	if !bind(c, &req) {
		return
	}
	reply, err := h.svc.Chat(c.Request.Context(), req.Message)
	if err != nil {
		body := util.FailedResponse(util.MessageOf(err))
		if reply != "" {
			body["reply"] = reply
		}
		c.JSON(util.StatusOf(err), body)
		return
	}
	util.RespondSuccess(c, "", gin.H{"reply": reply})
}
