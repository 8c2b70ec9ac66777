package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/excel"
	"github.com/nurpe/office-admin/internal/http/middleware"
	"github.com/nurpe/office-admin/internal/pdf"
	"github.com/nurpe/office-admin/internal/session"
	"github.com/nurpe/office-admin/internal/view"
)

// defaultLoadWait is how long a page waits for its first fetch before it is
// rendered with the loading overlay.
const defaultLoadWait = 300 * time.Millisecond

type Handler struct {
	factory  *view.Factory
	excel    *excel.Generator
	pdf      *pdf.Generator
	log      zerolog.Logger
	loadWait time.Duration
	now      func() time.Time
}

type Option func(*Handler)

func WithLoadWait(d time.Duration) Option {
	return func(h *Handler) {
		h.loadWait = d
	}
}

func NewHandler(factory *view.Factory, log zerolog.Logger, opts ...Option) *Handler {
	h := &Handler{
		factory:  factory,
		excel:    excel.NewGenerator(),
		pdf:      pdf.NewGenerator(),
		log:      log,
		loadWait: defaultLoadWait,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Handler) Register(router *gin.Engine, sessions gin.HandlerFunc, ui gin.HandlerFunc) {
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	pages := router.Group("/")
	pages.Use(sessions)
	pages.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/control-panel")
	})
	pages.GET("/control-panel", h.controlPanelPage)
	pages.POST("/control-panel", h.submitControlPanel)
	pages.GET("/contractors-table", h.contractorsPage)
	pages.POST("/contractors-table", h.submitContractor)
	pages.GET("/contractors-table/edit/:id", h.editContractor)
	pages.POST("/contractors-table/cancel", h.cancelContractorEdit)
	pages.POST("/contractors-table/delete/:id", h.deleteContractor)
	pages.GET("/invoices-table", h.invoicesPage)
	pages.GET("/employees-table", h.employeesPage)
	pages.GET("/delegations-table", h.delegationsPage)
	pages.GET("/export/:file", h.exportTable)

	api := router.Group("/ui")
	api.Use(ui, sessions)
	api.GET("/summary", h.summary)
	api.POST("/contractors/validate", h.validateContractorField)
	api.POST("/control-panel/validate", h.validateControlPanelField)
	api.PATCH("/invoices/:id", h.editInvoice)
	api.POST("/invoices/:id/save", h.saveInvoice)
	api.POST("/invoices/vat-rate", h.setInvoiceVATRate)
	api.POST("/invoices/highlight", h.toggleInvoiceHighlight)
}

func (h *Handler) session(c *gin.Context) (*session.Session, bool) {
	sess, ok := middleware.MustSession(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "missing session"})
		return nil, false
	}
	return sess, true
}

// await reports whether done closed within the load wait.
func (h *Handler) await(done <-chan struct{}) bool {
	timer := time.NewTimer(h.loadWait)
	defer timer.Stop()
	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

func statusFor(err error) int {
	var netErr *apiclient.NetworkError
	switch {
	case errors.Is(err, view.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, view.ErrNotFound), apiclient.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, view.ErrDetached):
		return http.StatusConflict
	case errors.Is(err, apiclient.ErrUnsupported):
		return http.StatusMethodNotAllowed
	case errors.As(err, &netErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) handleError(c *gin.Context, err error) {
	status := statusFor(err)
	body := gin.H{"error": err.Error()}

	var invalidErr *view.InvalidInputError
	switch {
	case errors.As(err, &invalidErr):
		body = gin.H{"error": view.ErrInvalidInput.Error(), "fields": invalidErr.Errors}
	case status == http.StatusConflict:
		body = gin.H{"error": "view was reopened, reload the page"}
	case status == http.StatusInternalServerError:
		h.log.Error().Err(err).Str("request_id", middleware.GetRequestID(c)).Msg("request failed")
		body = gin.H{"error": "internal error"}
	}
	c.JSON(status, body)
}
