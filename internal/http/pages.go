package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/validation"
	"github.com/nurpe/office-admin/internal/view"
)

type navLink struct {
	Path   string
	Label  string
	Active bool
}

var navigation = []navLink{
	{Path: "/control-panel", Label: "Różne kontrolki HTML"},
	{Path: "/employees-table", Label: "Tabela Pracowników"},
	{Path: "/invoices-table", Label: "Tabela Faktur VAT"},
	{Path: "/delegations-table", Label: "Tabela Delegacji BD"},
	{Path: "/contractors-table", Label: "Dane Kontrahentów"},
}

type basePage struct {
	Title     string
	Nav       []navLink
	Loading   bool
	Refresh   string
	LoadError string
	Notice    *view.Notice
	Messages  []string
	Export    string
}

func newBasePage(path, title string) basePage {
	nav := make([]navLink, len(navigation))
	for i, link := range navigation {
		link.Active = link.Path == path
		nav[i] = link
	}
	return basePage{Title: title, Nav: nav}
}

// loading fills the overlay fields. A page still waiting for its first fetch
// refreshes itself without remounting.
func (p *basePage) loading(path string, done bool, loadErr error) {
	if !done {
		p.Loading = true
		p.Refresh = path + "?wait=1"
		return
	}
	if loadErr != nil {
		p.LoadError = loadErr.Error()
	}
}

type formInput struct {
	Name     string
	Label    string
	Type     string
	Value    string
	Checked  bool
	Required bool
	Error    string
	Options  []model.Option
}

func formInputs[T any](fields []model.Field[T], schema validation.Schema, form view.Form[T]) []formInput {
	inputs := make([]formInput, 0, len(fields))
	for _, f := range fields {
		in := formInput{
			Name:     f.Name,
			Label:    f.Label,
			Type:     "text",
			Value:    f.Text(form.Draft),
			Required: schema.Required(f.Name),
			Error:    form.Errors[f.Name],
		}
		if checked, ok := f.Get(form.Draft).(bool); ok {
			in.Type = "checkbox"
			in.Checked = checked
		}
		inputs = append(inputs, in)
	}
	return inputs
}

func postedValues(c *gin.Context) map[string]string {
	_ = c.Request.ParseForm()
	values := make(map[string]string, len(c.Request.PostForm))
	for key := range c.Request.PostForm {
		values[key] = c.Request.PostForm.Get(key)
	}
	return values
}

func (h *Handler) renderError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.log.Error().Err(err).Msg("page failed")
	}
	c.HTML(status, "error.html", gin.H{
		"Title":   http.StatusText(status),
		"Nav":     newBasePage("", "").Nav,
		"Message": err.Error(),
	})
}

type controlPanelPage struct {
	basePage
	Inputs []formInput
}

func (h *Handler) renderControlPanel(c *gin.Context, status int, v *view.ControlPanelView) {
	form := v.Form()
	page := controlPanelPage{basePage: newBasePage("/control-panel", "Różne kontrolki HTML")}
	page.Notice = form.Notice
	page.Messages = form.Errors.Messages(validation.ControlPanelSchema)
	page.Inputs = formInputs(model.ControlPanelFields, validation.ControlPanelSchema, form)
	for i := range page.Inputs {
		switch page.Inputs[i].Name {
		case "date":
			page.Inputs[i].Type = "date"
		case "comments":
			page.Inputs[i].Type = "textarea"
		case "color":
			page.Inputs[i].Type = "select"
			page.Inputs[i].Options = model.ColorOptions
		case "vat":
			page.Inputs[i].Type = "radio"
			page.Inputs[i].Options = model.VATOptions
		}
	}
	c.HTML(status, "control_panel.html", page)
}

func (h *Handler) controlPanelPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	h.renderControlPanel(c, http.StatusOK, sess.ResetControlPanel())
}

func (h *Handler) submitControlPanel(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v := sess.ControlPanel()
	if err := v.Fill(postedValues(c)); err != nil {
		h.renderError(c, err)
		return
	}
	status := http.StatusOK
	if _, err := v.Submit(); err != nil {
		status = statusFor(err)
	}
	h.renderControlPanel(c, status, v)
}

type contractorsPage struct {
	basePage
	Rows    []view.Row[model.Contractor]
	Inputs  []formInput
	Editing model.ID
}

func (h *Handler) renderContractors(c *gin.Context, status int, v *view.ContractorsView, done bool) {
	form := v.Form()
	page := contractorsPage{basePage: newBasePage("/contractors-table", "Dane Kontrahentów")}
	page.loading("/contractors-table", done, v.Table().LoadError())
	page.Export = model.Contractors.Name
	page.Notice = form.Notice
	page.Messages = form.Errors.Messages(validation.ContractorSchema)
	page.Rows = v.Table().Rows()
	page.Inputs = formInputs(model.ContractorFields, validation.ContractorSchema, form)
	page.Editing = form.Editing
	c.HTML(status, "contractors.html", page)
}

func (h *Handler) contractorsPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var (
		v    *view.ContractorsView
		done <-chan struct{}
	)
	if c.Query("wait") != "" {
		v, done = sess.Contractors(c.Request.Context())
	} else {
		v, done = sess.MountContractors(c.Request.Context())
	}
	h.renderContractors(c, http.StatusOK, v, h.await(done))
}

func (h *Handler) editContractor(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v, done := sess.Contractors(c.Request.Context())
	loaded := h.await(done)
	status := http.StatusOK
	if err := v.StartEdit(model.ID(c.Param("id"))); err != nil {
		status = statusFor(err)
	}
	h.renderContractors(c, status, v, loaded)
}

func (h *Handler) submitContractor(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v, done := sess.Contractors(c.Request.Context())
	loaded := h.await(done)
	if err := v.Fill(postedValues(c)); err != nil {
		h.renderError(c, err)
		return
	}
	status := http.StatusOK
	if _, err := v.Submit(c.Request.Context()); err != nil {
		status = statusFor(err)
	}
	h.renderContractors(c, status, v, loaded)
}

func (h *Handler) cancelContractorEdit(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v, done := sess.Contractors(c.Request.Context())
	v.CancelEdit()
	h.renderContractors(c, http.StatusOK, v, h.await(done))
}

func (h *Handler) deleteContractor(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	v, done := sess.Contractors(c.Request.Context())
	loaded := h.await(done)
	status := http.StatusOK
	if _, err := v.Delete(c.Request.Context(), model.ID(c.Param("id"))); err != nil {
		status = statusFor(err)
	}
	h.renderContractors(c, status, v, loaded)
}

type invoicesPage struct {
	basePage
	Rows      []view.InvoiceRow
	Totals    model.InvoiceAmounts
	VATRate   string
	Highlight bool
	Threshold string
}

func (h *Handler) invoicesPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var (
		v    *view.InvoicesView
		done <-chan struct{}
	)
	if c.Query("wait") != "" {
		v, done = sess.Invoices(c.Request.Context())
	} else {
		v, done = sess.MountInvoices(c.Request.Context())
	}

	page := invoicesPage{basePage: newBasePage("/invoices-table", "Tabela Faktur VAT")}
	page.loading("/invoices-table", h.await(done), v.Table().LoadError())
	page.Export = model.Invoices.Name
	page.Rows = v.Rows()
	page.Totals = v.Totals()
	page.VATRate = v.VATRate().String()
	page.Highlight = v.Highlighting()
	page.Threshold = model.Money(v.Threshold())
	c.HTML(http.StatusOK, "invoices.html", page)
}

type employeeRow struct {
	view.Row[model.Employee]
	Color string
}

type employeesPage struct {
	basePage
	Rows   []employeeRow
	Colors [2]string
}

func (h *Handler) employeesPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var (
		v    *view.EmployeesView
		done <-chan struct{}
	)
	if c.Query("wait") != "" {
		v, done = sess.Employees(c.Request.Context())
	} else {
		v, done = sess.MountEmployees(c.Request.Context())
	}
	v.SetColors(c.Query("color1"), c.Query("color2"))

	page := employeesPage{basePage: newBasePage("/employees-table", "Tabela Pracowników")}
	page.loading("/employees-table", h.await(done), v.Table().LoadError())
	page.Export = model.Employees.Name
	page.Colors = v.Colors()
	for _, row := range v.Table().Rows() {
		page.Rows = append(page.Rows, employeeRow{Row: row, Color: v.RowColor(row.Index)})
	}
	c.HTML(http.StatusOK, "employees.html", page)
}

type delegationsPage struct {
	basePage
	Rows []view.Row[model.Delegation]
}

func (h *Handler) delegationsPage(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}
	var (
		v    *view.DelegationsView
		done <-chan struct{}
	)
	if c.Query("wait") != "" {
		v, done = sess.Delegations(c.Request.Context())
	} else {
		v, done = sess.MountDelegations(c.Request.Context())
	}

	page := delegationsPage{basePage: newBasePage("/delegations-table", "Tabela Delegacji BD")}
	page.loading("/delegations-table", h.await(done), v.Table().LoadError())
	page.Export = model.Delegations.Name
	page.Rows = v.Table().Rows()
	c.HTML(http.StatusOK, "delegations.html", page)
}
