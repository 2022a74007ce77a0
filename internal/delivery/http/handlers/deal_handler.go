package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/dto/deal/request"
	"github.com/LavaJover/safelink-deal-service/internal/delivery/http/dto/deal/response"
	"github.com/LavaJover/safelink-deal-service/internal/domain"
	usecase "github.com/LavaJover/safelink-deal-service/internal/usecase/deal"
	dealdto "github.com/LavaJover/safelink-deal-service/internal/usecase/dto/deal"
	"github.com/gin-gonic/gin"
)

type DealHandler struct {
	uc usecase.DealUsecase
}

func NewDealHandler(uc usecase.DealUsecase) *DealHandler {
	return &DealHandler{uc: uc}
}

func (h *DealHandler) CreateDeal(c *gin.Context) {
	var req request.CreateDealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body"})
		return
	}

	out, err := h.uc.CreateDeal(c.Request.Context(), &dealdto.CreateDealInput{
		ItemName:   req.ItemName,
		Price:      req.PriceText(),
		SellerMoMo: req.SellerMoMo,
		BuyerEmail: req.BuyerEmail,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := response.CreateDealResponse{
		Deal:            response.FromDomain(out.Deal),
		PaymentDisabled: out.PaymentDisabled,
	}
	if out.AuthorizationURL != "" {
		resp.AuthorizationURL = &out.AuthorizationURL
	}
	if out.PaymentError != "" {
		resp.PaymentError = &out.PaymentError
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *DealHandler) VerifyPayment(c *gin.Context) {
	var req request.VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body"})
		return
	}

	deal, err := h.uc.VerifyPayment(c.Request.Context(), req.Reference)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.DealEnvelope{Deal: response.FromDomain(deal)})
}

// ListDeals accepts ?status=paid,disputed or repeated status params.
func (h *DealHandler) ListDeals(c *gin.Context) {
	var statuses []string
	for _, raw := range c.QueryArray("status") {
		for _, s := range strings.Split(raw, ",") {
			if s = strings.TrimSpace(s); s != "" {
				statuses = append(statuses, s)
			}
		}
	}

	deals, err := h.uc.ListDeals(c.Request.Context(), &dealdto.ListDealsInput{Statuses: statuses})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromDomainList(deals))
}

func (h *DealHandler) GetDeal(c *gin.Context) {
	deal, err := h.uc.GetDealByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromDomain(deal))
}

func (h *DealHandler) GetSummary(c *gin.Context) {
	summary, err := h.uc.GetSummary(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.FromSummary(summary))
}

func (h *DealHandler) ConfirmReceipt(c *gin.Context) {
	h.transition(c, h.uc.ConfirmReceipt)
}

func (h *DealHandler) CancelDeal(c *gin.Context) {
	h.transition(c, h.uc.CancelDeal)
}

func (h *DealHandler) ResolveDisputeRefund(c *gin.Context) {
	h.transition(c, h.uc.ResolveDisputeRefund)
}

func (h *DealHandler) ResolveDisputeRelease(c *gin.Context) {
	h.transition(c, h.uc.ResolveDisputeRelease)
}

func (h *DealHandler) OpenDispute(c *gin.Context) {
	var req request.DisputeRequest
	// An empty body is a dispute without a reason.
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, response.ErrorResponse{Error: "invalid request body"})
			return
		}
	}

	deal, err := h.uc.OpenDispute(c.Request.Context(), &dealdto.DisputeInput{
		DealID: c.Param("id"),
		Reason: req.Reason,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.DealEnvelope{Deal: response.FromDomain(deal)})
}

func (h *DealHandler) PreviewFees(c *gin.Context) {
	includeLevy, _ := strconv.ParseBool(c.DefaultQuery("includeLevy", "false"))
	breakdown := h.uc.PreviewFees(&dealdto.FeePreviewInput{
		Amount:      c.Query("amount"),
		IncludeLevy: includeLevy,
	})
	c.JSON(http.StatusOK, response.FromFeeBreakdown(breakdown))
}

func (h *DealHandler) transition(c *gin.Context, op func(ctx context.Context, dealID string) (*domain.Deal, error)) {
	deal, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.DealEnvelope{Deal: response.FromDomain(deal)})
}
