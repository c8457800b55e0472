package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Entelsac/ENTEL-SAC/internal/dto"
	apierrors "github.com/Entelsac/ENTEL-SAC/internal/errors"
	"github.com/Entelsac/ENTEL-SAC/internal/middleware"
	"github.com/Entelsac/ENTEL-SAC/internal/services"
	"github.com/Entelsac/ENTEL-SAC/internal/utils"
)

// OrderHandler coordinates order lifecycle HTTP handlers.
type OrderHandler struct {
	orderService *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(orderService *services.OrderService) *OrderHandler {
	return &OrderHandler{
		orderService: orderService,
	}
}

// CreateOrder creates a new pending order for the current user.
func (h *OrderHandler) CreateOrder(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	type CreateOrderRequest struct {
		Phone   string `json:"phone" binding:"required"`
		Message string `json:"message"`
	}

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	order, err := h.orderService.Create(actor, services.CreateOrderInput{
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToOrderDTO(*order))
}

// ListOrders returns the orders visible to the current user.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	params := utils.ParsePageQuery(c)

	orders, total, err := h.orderService.List(actor, services.ListOrdersInput{
		Page:     params.Page,
		PageSize: params.Limit,
	})
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.OrderListResponse{
		Orders: dto.ToOrderDTOs(orders),
		Page:   params.Page,
		Limit:  params.Limit,
		Total:  total,
	})
}

// GetOrder returns one order with its reports, most recent first.
func (h *OrderHandler) GetOrder(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	order, pdfs, err := h.orderService.Get(actor, orderID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	response := dto.ToOrderDTO(*order)
	response.PDFs = dto.ToOrderPDFDTOs(pdfs)
	c.JSON(http.StatusOK, response)
}

// ClaimOrder assigns a pending order to the current user. Claiming an
// order that is gone or no longer pending succeeds without changing it.
func (h *OrderHandler) ClaimOrder(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if err := h.orderService.Claim(actor, orderID); err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Claim processed",
	})
}

// UploadPDF attaches a fulfillment report to an order.
func (h *OrderHandler) UploadPDF(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	orderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("pdf_file")
	if err != nil {
		apierrors.BadRequest(c, "pdf_file is required")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		apierrors.BadRequest(c, "Failed to read upload")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		apierrors.BadRequest(c, "Failed to read upload")
		return
	}

	order, err := h.orderService.Fulfill(actor, orderID, fileHeader.Filename, data)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToOrderDTO(*order))
}

// DownloadPDF streams a stored report back to an authorized caller.
func (h *OrderHandler) DownloadPDF(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	pdfID, ok := parseIDParam(c)
	if !ok {
		return
	}

	pdf, err := h.orderService.DownloadPDF(actor, pdfID)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.FileAttachment(pdf.FilePath, "reporte.pdf")
}

// Dashboard returns the landing summary for the current user.
func (h *OrderHandler) Dashboard(c *gin.Context) {
	actor, ok := middleware.GetCurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c)
		return
	}

	summary, err := h.orderService.GetDashboard(actor)
	if err != nil {
		respondOrderError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardDTO{
		Credits:      summary.Credits,
		OrdersUsed:   summary.OrdersUsed,
		RecentOrders: dto.ToOrderDTOs(summary.RecentOrders),
	})
}

func parseIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		apierrors.BadRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

func respondOrderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrPermissionDenied):
		apierrors.Forbidden(c)
	case errors.Is(err, services.ErrOrderNotFound),
		errors.Is(err, services.ErrPDFNotFound):
		apierrors.NotFound(c)
	case errors.Is(err, services.ErrInsufficientCredit):
		apierrors.InsufficientCredit(c)
	case errors.Is(err, services.ErrNotPDF),
		errors.Is(err, services.ErrPhoneRequired):
		apierrors.BadRequest(c, err.Error())
	default:
		apierrors.InternalError(c, "")
	}
}
