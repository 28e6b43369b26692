package services

import (
	"context"
	"log"
	"net/http"
	"strings"

	"Cywala/assistant"
	"Cywala/util"
)

// Chat returns the assistant reply. On provider failure the fallback reply is
// returned together with the error so the client still has something to show.
func (s *Service) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", util.BadRequest(util.CHAT_MESSAGE_REQUIRED)
	}
	reply, err := s.assistant.Reply(ctx, message)
	if err != nil {
		log.Println("Error from assistant Reply:", err)
		return assistant.FallbackReply, util.NewAppError(http.StatusInternalServerError, util.CHAT_PROVIDER_FAILED, err)
	}
	return reply, nil
}
