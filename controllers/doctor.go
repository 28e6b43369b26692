package controllers

import (
	"mime/multipart"

	"Cywala/auth"
	"Cywala/models"
	"Cywala/util"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Doctor(router *gin.Engine) {
	public := router.Group("/api/doctor")
	public.POST("/register", h.DoctorRegister)
	public.POST("/verify-otp", h.DoctorVerifyOTP)
	public.POST("/login", h.DoctorLogin)
	public.GET("/list", h.DoctorList)

	doctor := router.Group("/api/doctor", h.guard()...)
	doctor.GET("/profile", h.DoctorProfile)
	doctor.PUT("/profile", h.UpdateDoctorProfile)
	doctor.POST("/profile/image", h.UpdateDoctorImage)
	doctor.POST("/change-availability", h.DoctorChangeAvailability)
	doctor.GET("/dashboard", h.DoctorDashboard)
	doctor.GET("/chats", h.DoctorChats)
	doctor.GET("/chats/:chatId", h.DoctorChat)
	doctor.POST("/reply", h.DoctorReply)
}

/*
* Bind the signup fields
* The service stores the pending doctor and mails the OTP
 */
func (h *Handler) DoctorRegister(c *gin.Context) {
	var req signup
	if !bind(c, &req) {
		return
	}
	if err := h.svc.RequestRegistrationOTP(c.Request.Context(), req.Name, req.Email, req.Password); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.OTP_SENT, nil)
}

type verifyOTPRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

func (h *Handler) DoctorVerifyOTP(c *gin.Context) {
	var req verifyOTPRequest
	if !bind(c, &req) {
		return
	}
	if err := h.svc.VerifyOTP(c.Request.Context(), req.Email, req.OTP); err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.EMAIL_VERIFIED, nil)
}

func (h *Handler) DoctorLogin(c *gin.Context) {
	var req credentials
	if !bind(c, &req) {
		return
	}
	token, profileStatus, err := h.svc.LoginDoctor(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"token": token, "profileStatus": profileStatus})
}

func (h *Handler) DoctorList(c *gin.Context) {
	doctors, err := h.svc.ListPublicDoctors(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"doctors": doctors})
}

func (h *Handler) DoctorProfile(c *gin.Context) {
	doctor, err := h.svc.GetDoctor(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"profileData": doctor})
}

func (h *Handler) UpdateDoctorProfile(c *gin.Context) {
	var req models.DoctorProfileUpdate
	if !bind(c, &req) {
		return
	}
	doctor, err := h.svc.UpdateDoctorProfile(c.Request.Context(), auth.Subject(c), req, true)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.PROFILE_UPDATED, gin.H{"profileData": doctor})
}

func (h *Handler) UpdateDoctorImage(c *gin.Context) {
	withImage(c, func(file multipart.File, header *multipart.FileHeader) {
		doctor, warning, err := h.svc.UpdateDoctorImage(c.Request.Context(), auth.Subject(c), header.Filename, header.Header.Get("Content-Type"), file)
		if err != nil {
			util.RespondError(c, err)
			return
		}
		util.RespondSuccess(c, util.IMAGE_UPDATED, withWarning(gin.H{"image": doctor.Image}, warning))
	})
}

func (h *Handler) DoctorChangeAvailability(c *gin.Context) {
	doctor, err := h.svc.ToggleDoctorAvailability(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.AVAILABILITY_CHANGED, gin.H{"available": doctor.Available})
}

func (h *Handler) DoctorDashboard(c *gin.Context) {
	dash, err := h.svc.DoctorDashboard(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"dashData": dash})
}

func (h *Handler) DoctorChats(c *gin.Context) {
	chats, err := h.svc.DoctorChats(c.Request.Context(), auth.Subject(c))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"chats": chats})
}

func (h *Handler) DoctorChat(c *gin.Context) {
	chat, err := h.svc.DoctorChat(c.Request.Context(), auth.Subject(c), c.Param("chatId"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"chat": chat})
}

type replyRequest struct {
	ChatID string `json:"chatId"`
	Text   string `json:"text"`
}

func (h *Handler) DoctorReply(c *gin.Context) {
	var req replyRequest
	if !bind(c, &req) {
		return
	}
	chat, err := h.svc.DoctorReply(c.Request.Context(), auth.Subject(c), req.ChatID, req.Text)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.MESSAGE_SENT, gin.H{"chat": chat})
}
