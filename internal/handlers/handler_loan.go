package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maxborn/loan_management_app/internal/core/domain"
	portssvc "github.com/maxborn/loan_management_app/internal/core/ports/services"
	"github.com/maxborn/loan_management_app/internal/dto"
	"github.com/maxborn/loan_management_app/internal/middleware"
)

// loanHandler handles HTTP requests for the loan lifecycle and ledger.
type loanHandler struct {
	loanService portssvc.LoanSvcFacade
}

func newLoanHandler(ls portssvc.LoanSvcFacade) *loanHandler {
	return &loanHandler{loanService: ls}
}

// RegisterLoanRoutes registers all loan-related routes. Role gates follow
// the panel split: shopkeepers submit, verifiers review, admins decide, and
// the collections team works the ledger.
func RegisterLoanRoutes(rg *gin.RouterGroup, loanService portssvc.LoanSvcFacade) {
	h := newLoanHandler(loanService)

	loans := rg.Group("/loans")
	{
		loans.GET("", h.listLoans)
		loans.GET("/statistics", middleware.RequireRoles(domain.RoleAdmin, domain.RoleVerifier, domain.RoleCollections, domain.RoleShopkeeper), h.getStatistics)
		loans.GET("/:id", h.getLoan)
		loans.POST("", middleware.RequireRoles(domain.RoleShopkeeper, domain.RoleAdmin), h.createLoan)
		loans.PATCH("/:id/status", middleware.RequireRoles(domain.RoleVerifier, domain.RoleAdmin), h.updateStatus)
		loans.PATCH("/:id/kyc", middleware.RequireRoles(domain.RoleVerifier, domain.RoleAdmin), h.updateKYCStatus)
		loans.PATCH("/:id/due-date", middleware.RequireRoles(domain.RoleCollections, domain.RoleAdmin), h.setNextDueDate)
		loans.POST("/:id/payments", middleware.RequireRoles(domain.RoleCollections, domain.RoleAdmin), h.collectPayment)
		loans.POST("/:id/penalties", middleware.RequireRoles(domain.RoleCollections, domain.RoleAdmin), h.applyPenalty)
		loans.DELETE("/:id", middleware.RequireRoles(domain.RoleAdmin, domain.RoleShopkeeper), h.deleteLoan)
	}
}

// createLoan godoc
// @Summary Submit a loan application
// @Description Creates a new loan application. Shopkeeper submissions deduct one application token.
// @Tags loans
// @Accept json
// @Produce json
// @Param loan body dto.CreateLoanRequest true "Loan application"
// @Success 201 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [post]
func (h *loanHandler) createLoan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.CreateLoan(c.Request.Context(), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to create loan")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan application created",
		slog.String("loan_id", loan.LoanID), slog.String("submitted_by", actor.UserID))
	c.JSON(http.StatusCreated, dto.ToLoanResponse(loan))
}

// getLoan godoc
// @Summary Get a loan
// @Description Retrieves a loan with its full payment and penalty ledger. Accepts either the internal id or the LN loan number.
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 200 {object} dto.LoanResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id} [get]
func (h *loanHandler) getLoan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	loan, err := h.loanService.GetLoanByID(c.Request.Context(), c.Param("id"), actor)
	if err != nil {
		respondWithError(c, err, "Failed to retrieve loan")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// listLoans godoc
// @Summary List loans
// @Description Retrieves a filtered, paginated list of loans. Shopkeepers only see their own submissions.
// @Tags loans
// @Produce json
// @Param status query string false "Lifecycle status filter"
// @Param kycStatus query string false "KYC status filter"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {object} dto.ListLoansResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans [get]
func (h *loanHandler) listLoans(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var params dto.ListLoansParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.loanService.ListLoans(c.Request.Context(), params, actor)
	if err != nil {
		respondWithError(c, err, "Failed to list loans")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateStatus godoc
// @Summary Change loan status
// @Description Performs a lifecycle transition (verify, approve, reject) with an optional reviewer comment.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param status body dto.UpdateLoanStatusRequest true "Target status"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/status [patch]
func (h *loanHandler) updateStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.UpdateLoanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.UpdateStatus(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to update loan status")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Loan status updated",
		slog.String("loan_id", loan.LoanID), slog.String("status", string(loan.Status)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// updateKYCStatus godoc
// @Summary Update KYC status
// @Description Sets the identity-verification status independently of the loan lifecycle.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param kyc body dto.UpdateKYCRequest true "KYC status"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/kyc [patch]
func (h *loanHandler) updateKYCStatus(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.UpdateKYCRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.UpdateKYCStatus(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to update KYC status")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// setNextDueDate godoc
// @Summary Set next due date
// @Description Records the next installment due date for collections follow-up.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param dueDate body dto.SetNextDueDateRequest true "Next due date"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/due-date [patch]
func (h *loanHandler) setNextDueDate(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.SetNextDueDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.SetNextDueDate(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to set next due date")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// collectPayment godoc
// @Summary Record an EMI payment
// @Description Appends a payment to the loan ledger and updates the installment counters. The final installment marks the loan Paid.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param payment body dto.CollectPaymentRequest true "Payment details"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/payments [post]
func (h *loanHandler) collectPayment(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.CollectPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.CollectPayment(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to record payment")
		return
	}

	middleware.GetLoggerFromCtx(c.Request.Context()).Info("Payment recorded",
		slog.String("loan_id", loan.LoanID),
		slog.Int("emis_remaining", loan.EMIsRemaining),
		slog.String("status", string(loan.Status)))
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// applyPenalty godoc
// @Summary Apply a late fee
// @Description Appends a penalty to the loan ledger. Amount and reason fall back to configured defaults.
// @Tags loans
// @Accept json
// @Produce json
// @Param id path string true "Loan ID"
// @Param penalty body dto.ApplyPenaltyRequest true "Penalty details"
// @Success 200 {object} dto.LoanResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id}/penalties [post]
func (h *loanHandler) applyPenalty(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	var req dto.ApplyPenaltyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	loan, err := h.loanService.ApplyPenalty(c.Request.Context(), c.Param("id"), req, actor)
	if err != nil {
		respondWithError(c, err, "Failed to apply penalty")
		return
	}
	c.JSON(http.StatusOK, dto.ToLoanResponse(loan))
}

// deleteLoan godoc
// @Summary Delete a loan
// @Description Removes a loan application and its ledger entries. Admins may delete any loan, shopkeepers only their own.
// @Tags loans
// @Produce json
// @Param id path string true "Loan ID"
// @Success 204 "No Content"
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/{id} [delete]
func (h *loanHandler) deleteLoan(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	if err := h.loanService.DeleteLoan(c.Request.Context(), c.Param("id"), actor); err != nil {
		respondWithError(c, err, "Failed to delete loan")
		return
	}
	c.Status(http.StatusNoContent)
}

// getStatistics godoc
// @Summary Loan book statistics
// @Description Returns per-status counts and monetary aggregates for the dashboard. Shopkeepers see their own loans only.
// @Tags loans
// @Produce json
// @Success 200 {object} dto.LoanStatisticsResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /loans/statistics [get]
func (h *loanHandler) getStatistics(c *gin.Context) {
	actor, ok := mustActor(c)
	if !ok {
		return
	}
	stats, err := h.loanService.GetStatistics(c.Request.Context(), actor)
	if err != nil {
		respondWithError(c, err, "Failed to compute statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}
