package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"Cywala/export"
	"Cywala/models"
	"Cywala/services"
	"Cywala/util"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Admin(router *gin.Engine) {
	router.POST("/api/admin/login", h.AdminLogin)

	admin := router.Group("/api/admin", h.guard()...)
	admin.GET("/dashboard", h.AdminDashboard)
	admin.GET("/settings", h.GetSettings)
	admin.PUT("/settings", h.UpdateSettings)
	admin.GET("/monthly-payments", h.MonthlyPayments)
	admin.GET("/monthly-payments/export", h.ExportMonthlyPayments)
	admin.GET("/consultations/:id/payout-preview", h.PayoutPreview)
	admin.POST("/payouts/process", h.ProcessPayout)
	admin.POST("/add-doctor", h.AddDoctor)
	admin.GET("/all-doctors", h.AllDoctors)
	admin.GET("/all-Users", h.AllUsers)
	admin.GET("/doctors/:id", h.AdminGetDoctor)
	admin.PUT("/doctors/:id", h.AdminUpdateDoctor)
	admin.DELETE("/doctors/:id", h.AdminDeleteDoctor)
	admin.DELETE("/users/:id", h.AdminDeleteUser)
	admin.POST("/users/:id/block", h.BlockUser)
	admin.POST("/users/:id/unblock", h.UnblockUser)
	admin.POST("/change-availability", h.AdminChangeAvailability)
	admin.GET("/chats", h.AllChats)
}

func (h *Handler) AdminLogin(c *gin.Context) {
	var req credentials
	if !bind(c, &req) {
		return
	}
	token, err := h.svc.LoginAdmin(req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"token": token})
}

func (h *Handler) AdminDashboard(c *gin.Context) {
	dash, err := h.svc.AdminDashboard(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"dashData": dash})
}

func (h *Handler) GetSettings(c *gin.Context) {
	settings, err := h.svc.GetSettings(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"settings": settings})
}

type settingsRequest struct {
	PayoutInterestPercentage *float64 `json:"payoutInterestPercentage"`
	PayoutDate               string   `json:"payoutDate"`
}

/*
* Percentage is required, the payout date is optional
* Validation happens in the service
 */
func (h *Handler) UpdateSettings(c *gin.Context) {
	var req settingsRequest
	if !bind(c, &req) {
		return
	}
	if req.PayoutInterestPercentage == nil {
		util.RespondError(c, util.BadRequest(util.INVALID_PERCENTAGE))
		return
	}
	payoutDate, err := services.ParsePayoutDate(req.PayoutDate, time.Local)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	settings, err := h.svc.UpdateSettings(c.Request.Context(), *req.PayoutInterestPercentage, payoutDate)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.SETTINGS_UPDATED, gin.H{"settings": settings})
}

func (h *Handler) MonthlyPayments(c *gin.Context) {
	report, err := h.svc.ComputeMonthlyPayouts(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	message := ""
	if len(report.Payments) == 0 {
		message = util.NO_PAYMENTS_THIS_MONTH
	}
	util.RespondSuccess(c, message, gin.H{
		"payments":         report.Payments,
		"month":            report.Month,
		"totalDoctors":     report.TotalDoctors,
		"totalGrossAmount": report.TotalGrossAmount,
		"totalNetPayout":   report.TotalNetPayout,
	})
}

func (h *Handler) ExportMonthlyPayments(c *gin.Context) {
	report, err := h.svc.ComputeMonthlyPayouts(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	c.Header("Content-Type", export.ContentType)
	c.Header("Content-Disposition", "attachment; filename="+export.Filename(report.Start))
	c.Status(http.StatusOK)
	if err := export.WritePayouts(c.Writer, report); err != nil {
		log.Println("Error from WritePayouts:", err)
	}
}

func (h *Handler) PayoutPreview(c *gin.Context) {
	var percentage *float64
	if raw := c.Query("percentage"); raw != "" {
		p, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			util.RespondError(c, util.BadRequest(util.INVALID_PERCENTAGE))
			return
		}
		percentage = &p
	}
	preview, err := h.svc.PreviewPayout(c.Request.Context(), c.Param("id"), percentage)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"preview": preview})
}

type processPayoutRequest struct {
	ConsultationID             string   `json:"consultationId"`
	DoctorID                   string   `json:"doctorId"`
	InterestDeductedPercentage *float64 `json:"interestDeductedPercentage"`
}

func (h *Handler) ProcessPayout(c *gin.Context) {
	var req processPayoutRequest
	if !bind(c, &req) {
		return
	}
	result, err := h.svc.ProcessPayout(c.Request.Context(), req.ConsultationID, req.DoctorID, req.InterestDeductedPercentage)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.PAYOUT_PROCESSED, gin.H{
		"transactionId": result.TransactionID,
		"amount":        result.Amount,
		"percentage":    result.Percentage,
	})
}

func (h *Handler) AddDoctor(c *gin.Context) {
	var req signup
	if !bind(c, &req) {
		return
	}
	doctor, err := h.svc.AddDoctor(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.DOCTOR_ADDED, gin.H{"doctor": doctor})
}

func (h *Handler) AllDoctors(c *gin.Context) {
	doctors, err := h.svc.ListDoctors(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"doctors": doctors})
}

func (h *Handler) AllUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"users": users})
}

func (h *Handler) AdminGetDoctor(c *gin.Context) {
	doctor, err := h.svc.GetDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"doctor": doctor})
}

func (h *Handler) AdminUpdateDoctor(c *gin.Context) {
	var req models.DoctorProfileUpdate
	if !bind(c, &req) {
		return
	}
	doctor, err := h.svc.UpdateDoctorProfile(c.Request.Context(), c.Param("id"), req, false)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.PROFILE_UPDATED, gin.H{"doctor": doctor})
}

func (h *Handler) AdminDeleteDoctor(c *gin.Context) {
	warning, err := h.svc.DeleteDoctor(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.DOCTOR_DELETED, withWarning(gin.H{}, warning))
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	warning, err := h.svc.DeleteUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.USER_DELETED, withWarning(gin.H{}, warning))
}

func (h *Handler) BlockUser(c *gin.Context) {
	user, err := h.svc.SetUserBlocked(c.Request.Context(), c.Param("id"), true)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.USER_BLOCKED, gin.H{"user": user})
}

func (h *Handler) UnblockUser(c *gin.Context) {
	user, err := h.svc.SetUserBlocked(c.Request.Context(), c.Param("id"), false)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.USER_UNBLOCKED, gin.H{"user": user})
}

type availabilityRequest struct {
	DocID string `json:"docId"`
}

func (h *Handler) AdminChangeAvailability(c *gin.Context) {
	var req availabilityRequest
	if !bind(c, &req) {
		return
	}
	doctor, err := h.svc.ToggleDoctorAvailability(c.Request.Context(), req.DocID)
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, util.AVAILABILITY_CHANGED, gin.H{"available": doctor.Available})
}

func (h *Handler) AllChats(c *gin.Context) {
	chats, err := h.svc.AllConsultations(c.Request.Context())
	if err != nil {
		util.RespondError(c, err)
		return
	}
	util.RespondSuccess(c, "", gin.H{"chats": chats})
}
