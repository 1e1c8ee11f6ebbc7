package handler

import (
	billingapp "github.com/invoicehub/backend/internal/application/billing"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProposalHandler handles proposal API endpoints
type ProposalHandler struct {
	BaseHandler
	proposalService *billingapp.ProposalService
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalService *billingapp.ProposalService) *ProposalHandler {
	return &ProposalHandler{
		proposalService: proposalService,
	}
}

// Create godoc
// @Summary      Create proposal
// @Description  Create a new draft proposal with an auto-assigned document number
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        request body billingapp.CreateProposalRequest true "Proposal data"
// @Success      201 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals [post]
func (h *ProposalHandler) Create(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req billingapp.CreateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, proposal)
}

// List godoc
// @Summary      List proposals
// @Description  Retrieve a paginated list of proposals with filtering
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        search query string false "Search term (number, client name, client email)"
// @Param        client_id query string false "Client ID" format(uuid)
// @Param        status query string false "Status" Enums(draft, generated, sent, viewed, accepted, rejected)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]billingapp.ProposalResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals [get]
func (h *ProposalHandler) List(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var filter billingapp.ProposalListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindingError(c, err)
		return
	}

	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	proposals, total, err := h.proposalService.ListProposals(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, proposals, total, filter.Page, filter.PageSize)
}

// Get godoc
// @Summary      Get proposal by ID
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id} [get]
func (h *ProposalHandler) Get(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.GetProposal(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Update godoc
// @Summary      Update proposal
// @Description  Update proposal content; line item amounts and totals are recomputed
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body billingapp.UpdateProposalRequest true "Updated proposal data"
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id} [put]
func (h *ProposalHandler) Update(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req billingapp.UpdateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proposal, err := h.proposalService.UpdateProposal(c.Request.Context(), tenantID, proposalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Generate godoc
// @Summary      Generate proposal document
// @Description  Mark the proposal document as generated and ready to share
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/generate [post]
func (h *ProposalHandler) Generate(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.GenerateProposal(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Send godoc
// @Summary      Send proposal
// @Description  Record a delivery to recipients; the proposal moves to sent
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body billingapp.SendProposalRequest true "Recipients"
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/send [post]
func (h *ProposalHandler) Send(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req billingapp.SendProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proposal, err := h.proposalService.SendProposal(c.Request.Context(), tenantID, proposalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// View godoc
// @Summary      Record proposal view
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/view [post]
func (h *ProposalHandler) View(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.ViewProposal(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Download godoc
// @Summary      Record proposal download
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/download [post]
func (h *ProposalHandler) Download(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.DownloadProposal(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Accept godoc
// @Summary      Accept proposal
// @Description  Record the client accepting the proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body billingapp.DecideProposalRequest true "Decision note"
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/accept [post]
func (h *ProposalHandler) Accept(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req billingapp.DecideProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proposal, err := h.proposalService.AcceptProposal(c.Request.Context(), tenantID, proposalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Reject godoc
// @Summary      Reject proposal
// @Description  Record the client rejecting the proposal
// @Tags         proposals
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Param        request body billingapp.DecideProposalRequest true "Decision note"
// @Success      200 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/reject [post]
func (h *ProposalHandler) Reject(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	var req billingapp.DecideProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	proposal, err := h.proposalService.RejectProposal(c.Request.Context(), tenantID, proposalID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, proposal)
}

// Duplicate godoc
// @Summary      Duplicate proposal
// @Description  Clone a proposal into a freshly numbered draft
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      201 {object} dto.Response{data=billingapp.ProposalResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/duplicate [post]
func (h *ProposalHandler) Duplicate(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	proposal, err := h.proposalService.DuplicateProposal(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, proposal)
}

// ConvertToInvoice godoc
// @Summary      Convert proposal to invoice
// @Description  Create a draft invoice from an accepted proposal
// @Tags         proposals
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      201 {object} dto.Response{data=billingapp.InvoiceResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id}/convert [post]
func (h *ProposalHandler) ConvertToInvoice(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	invoice, err := h.proposalService.ConvertProposalToInvoice(c.Request.Context(), tenantID, proposalID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, invoice)
}

// Delete godoc
// @Summary      Delete proposal
// @Tags         proposals
// @Param        X-Tenant-ID header string false "Tenant ID (optional for dev)"
// @Param        id path string true "Proposal ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /proposals/{id} [delete]
func (h *ProposalHandler) Delete(c *gin.Context) {
	tenantID, proposalID, ok := h.tenantAndID(c)
	if !ok {
		return
	}

	if err := h.proposalService.DeleteProposal(c.Request.Context(), tenantID, proposalID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

func (h *ProposalHandler) tenantAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.BadRequest(c, "Invalid tenant ID")
		return uuid.Nil, uuid.Nil, false
	}

	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid proposal ID format")
		return uuid.Nil, uuid.Nil, false
	}

	return tenantID, proposalID, true
}
