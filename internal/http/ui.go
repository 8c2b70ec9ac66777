package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/view"
)

type fieldChangeRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

type fieldChangeResponse struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (h *Handler) summary(c *gin.Context) {
	s, err := h.factory.Summary(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *Handler) validateContractorField(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req fieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, _ := sess.Contractors(c.Request.Context())
	msg, err := v.Change(req.Field, req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fieldChangeResponse{Field: req.Field, Message: msg})
}

func (h *Handler) validateControlPanelField(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var req fieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	msg, err := sess.ControlPanel().Change(req.Field, req.Value)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, fieldChangeResponse{Field: req.Field, Message: msg})
}

type invoiceRowResponse struct {
	ID           model.ID `json:"id"`
	Index        int      `json:"index"`
	Amount       string   `json:"amount"`
	Quantity     int      `json:"quantity"`
	VATRate      string   `json:"vatRate"`
	UnitGross    string   `json:"unitGross"`
	NetValue     string   `json:"netValue"`
	VATAmount    string   `json:"vatAmount"`
	GrossAmount  string   `json:"grossAmount"`
	PreviewGross string   `json:"previewGross"`
	Highlight    bool     `json:"highlight"`
	Unsynced     bool     `json:"unsynced"`
	Reason       string   `json:"reason,omitempty"`
}

type invoiceTotalsResponse struct {
	NetValue    string `json:"netValue"`
	VATAmount   string `json:"vatAmount"`
	GrossAmount string `json:"grossAmount"`
}

type invoiceChangeResponse struct {
	Row    invoiceRowResponse    `json:"row"`
	Totals invoiceTotalsResponse `json:"totals"`
	Notice *view.Notice          `json:"notice,omitempty"`
	Error  string                `json:"error,omitempty"`
}

func invoiceRowJSON(r view.InvoiceRow) invoiceRowResponse {
	return invoiceRowResponse{
		ID:           r.Record.ID,
		Index:        r.Index,
		Amount:       r.Record.Amount.String(),
		Quantity:     int(r.Record.Quantity),
		VATRate:      r.Record.VATRate.String(),
		UnitGross:    model.Money(r.Amounts.UnitGross),
		NetValue:     model.Money(r.Amounts.NetValue),
		VATAmount:    model.Money(r.Amounts.VATAmount),
		GrossAmount:  model.Money(r.Amounts.GrossAmount),
		PreviewGross: model.Money(r.Preview.GrossAmount),
		Highlight:    r.Highlight,
		Unsynced:     r.Unsynced,
		Reason:       r.Reason,
	}
}

func invoiceTotalsJSON(t model.InvoiceAmounts) invoiceTotalsResponse {
	return invoiceTotalsResponse{
		NetValue:    model.Money(t.NetValue),
		VATAmount:   model.Money(t.VATAmount),
		GrossAmount: model.Money(t.GrossAmount),
	}
}

// mountedInvoices answers 404 when the invoices page is not open in this
// session; inline edits have nothing to apply to then.
func (h *Handler) mountedInvoices(c *gin.Context) (*view.InvoicesView, bool) {
	sess, ok := h.session(c)
	if !ok {
		return nil, false
	}
	v, ok := sess.MountedInvoices()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoices view is not open"})
		return nil, false
	}
	return v, true
}

func (h *Handler) invoiceChange(v *view.InvoicesView, id model.ID) (invoiceChangeResponse, bool) {
	row, ok := v.Row(id)
	if !ok {
		return invoiceChangeResponse{}, false
	}
	return invoiceChangeResponse{Row: invoiceRowJSON(row), Totals: invoiceTotalsJSON(v.Totals())}, true
}

func (h *Handler) editInvoice(c *gin.Context) {
	v, ok := h.mountedInvoices(c)
	if !ok {
		return
	}
	var req fieldChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := model.ID(c.Param("id"))
	if _, err := v.Edit(id, req.Field, req.Value); err != nil {
		h.handleError(c, err)
		return
	}
	resp, ok := h.invoiceChange(v, id)
	if !ok {
		h.handleError(c, view.ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) saveInvoice(c *gin.Context) {
	v, ok := h.mountedInvoices(c)
	if !ok {
		return
	}

	id := model.ID(c.Param("id"))
	notice, err := v.Save(c.Request.Context(), id)
	var netErr *apiclient.NetworkError
	if err != nil && !errors.As(err, &netErr) {
		h.handleError(c, err)
		return
	}

	resp, ok := h.invoiceChange(v, id)
	if !ok {
		h.handleError(c, view.ErrNotFound)
		return
	}
	resp.Notice = &notice
	status := http.StatusOK
	if err != nil {
		status = http.StatusBadGateway
		resp.Error = err.Error()
	}
	c.JSON(status, resp)
}

type vatRateRequest struct {
	Rate string `json:"rate" binding:"required"`
}

type invoiceToolbarResponse struct {
	VATRate   string               `json:"vatRate"`
	Highlight bool                 `json:"highlight"`
	Rows      []invoiceRowResponse `json:"rows"`
}

func (h *Handler) invoiceToolbar(c *gin.Context, v *view.InvoicesView) {
	rows := v.Rows()
	resp := invoiceToolbarResponse{
		VATRate:   v.VATRate().String(),
		Highlight: v.Highlighting(),
		Rows:      make([]invoiceRowResponse, 0, len(rows)),
	}
	for _, r := range rows {
		resp.Rows = append(resp.Rows, invoiceRowJSON(r))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) setInvoiceVATRate(c *gin.Context) {
	v, ok := h.mountedInvoices(c)
	if !ok {
		return
	}
	var req vatRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := v.SetVATRate(req.Rate); err != nil {
		h.handleError(c, err)
		return
	}
	h.invoiceToolbar(c, v)
}

func (h *Handler) toggleInvoiceHighlight(c *gin.Context) {
	v, ok := h.mountedInvoices(c)
	if !ok {
		return
	}
	v.ToggleHighlight()
	h.invoiceToolbar(c, v)
}
