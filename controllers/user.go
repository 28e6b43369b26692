package controllers

import (
	"mime/multipart"

	"Cywala/auth"
	"Cywala/models"
	"Cywala/util"

	"github.com/gin-gonic/gin"
)

func (h *Handler) User(router *gin.Engine) {
	public := router.Group("/api/user")
	public.POST("/register", h.UserRegister)
	public.POST("/login", h.UserLogin)

	user := router.Group("/api/user", h.guard()...)
	user.GET("/profile", h.UserProfile)
	user.PUT("/profile", h.UpdateUserProfile)
	user.POST("/profile/image", h.UpdateUserImage)
	user.POST("/consultations", h.BookConsultation)
	user.POST("/consultations/verify-payment", h.VerifyPayment)
	user.GET("/consultations", h.UserConsultations)
	user.GET("/consultations/:id", h.UserConsultation)
	user.POST("/consultations/:id/messages", h.SendMessage)
}

func (h *Handler) UserRegister(c *gin.Context) {
	var req signup
	if !bind(c, &req) {
		return
	}
	token, err := h.svc.RegisterUser(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"token": token})
}

func (h *Handler) UserLogin(c *gin.Context) {
	var req credentials
	if !bind(c, &req) {
		return
	}
	token, err := h.svc.LoginUser(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"token": token})
}

func (h *Handler) UserProfile(c *gin.Context) {
	user, err := h.svc.GetUser(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"userData": user})
}

func (h *Handler) UpdateUserProfile(c *gin.Context) {
	var req models.UserProfileUpdate
	if !bind(c, &req) {
		return
	}
	user, err := h.svc.UpdateUserProfile(c.Request.Context(), auth.Subject(c), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.PROFILE_UPDATED, gin.H{"userData": user})
}

func (h *Handler) UpdateUserImage(c *gin.Context) {
	withImage(c, func(file multipart.File, header *multipart.FileHeader) {
		user, warning, err := h.svc.UpdateUserImage(c.Request.Context(), auth.Subject(c), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			util.RespondError(c, err)
			return
		}
		util.RespondSuccess(c, util.IMAGE_UPDATED, withWarning(gin.H{"image": user.Image}, warning))
	})
}

type bookRequest struct {
	DocID string `json:"docId"`
}

func (h *Handler) BookConsultation(c *gin.Context) {
	var req bookRequest
	if !bind(c, &req) {
		return
	}
	consultation, order, err := h.svc.BookConsultation(c.Request.Context(), auth.Subject(c), req.DocID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.CONSULTATION_CREATED, gin.H{"consultation": consultation, "order": order})
}

func (h *Handler) VerifyPayment(c *gin.Context) {
	var req models.PaymentVerification
	if !bind(c, &req) {
		return
	}
	consultation, err := h.svc.VerifyPayment(c.Request.Context(), auth.Subject(c), req)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.PAYMENT_VERIFIED, gin.H{"consultation": consultation})
}

func (h *Handler) UserConsultations(c *gin.Context) {
	consultations, err := h.svc.UserConsultations(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"consultations": consultations})
}

func (h *Handler) UserConsultation(c *gin.Context) {
	consultation, err := h.svc.UserConsultation(c.Request.Context(), auth.Subject(c), c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"consultation": consultation})
}

type messageRequest struct {
	Text string `json:"text"`
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req messageRequest
	if !bind(c, &req) {
		return
	}
	consultation, err := h.svc.SendUserMessage(c.Request.Context(), auth.Subject(c), c.Param("id"), req.Text)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.MESSAGE_SENT, gin.H{"consultation": consultation})
}
