package controllers

import (
	"mime/multipart"

	"Cywala/auth"
	"Cywala/services"
	"Cywala/util"

	"github.com/casbin/casbin/v2"
	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc      *services.Service
	tokens   *auth.TokenIssuer
	enforcer *casbin.Enforcer
}

func NewHandler(svc *services.Service, tokens *auth.TokenIssuer, enforcer *casbin.Enforcer) *Handler {
	return &Handler{svc: svc, tokens: tokens, enforcer: enforcer}
}

func (h *Handler) guard() []gin.HandlerFunc {
	return []gin.HandlerFunc{auth.Authenticate(h.tokens), auth.Authorize(h.enforcer)}
}

func bind(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		util.RespondError(c, util.BadRequest(util.INVALID_REQUEST_BODY))
		return false
	}
	return true
}

func withWarning(payload gin.H, warning string) gin.H {
	if warning != "" {
		payload["warning"] = warning
	}
	return payload
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type signup struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

/*
* Read the multipart image field
* Hand the open file to the upload callback
 */
func withImage(c *gin.Context, upload func(file multipart.File, header *multipart.FileHeader)) {
	header, err := c.FormFile("image")
	if err != nil {
		util.RespondError(c, util.BadRequest(util.IMAGE_REQUIRED))
		return
	}
	file, err := header.Open()
	if err != nil {
		util.RespondError(c, util.BadRequest(util.IMAGE_REQUIRED))
		return
	}
	defer file.Close()
	upload(file, header)
}
