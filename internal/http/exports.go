package http

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nurpe/office-admin/internal/export"
	"github.com/nurpe/office-admin/internal/model"
	"github.com/nurpe/office-admin/internal/session"
	"github.com/nurpe/office-admin/internal/view"
)

// exportTable serves /export/<resource>.<xlsx|pdf>.
func (h *Handler) exportTable(c *gin.Context) {
	sess, ok := h.session(c)
	if !ok {
		return
	}

	file := c.Param("file")
	ext := path.Ext(file)
	res, ok := model.ResourceByName(strings.TrimSuffix(file, ext))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown table"})
		return
	}

	table, err := h.tableFor(c.Request.Context(), sess, res)
	if err != nil {
		h.handleError(c, err)
		return
	}

	var result export.Result
	switch ext {
	case ".xlsx":
		result, err = h.excel.Generate(table)
	case ".pdf":
		result, err = h.pdf.Generate(table)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown format"})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.FileName))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}

func (h *Handler) tableFor(ctx context.Context, sess *session.Session, res model.Resource) (export.Table, error) {
	at := h.now()
	switch res.Name {
	case model.Contractors.Name:
		var table *view.Table[model.Contractor]
		if v, ok := sess.MountedContractors(); ok {
			table = v.Table()
		}
		rows, err := snapshot(ctx, table, h.factory.ListContractors)
		return export.Contractors(rows, at), err
	case model.Employees.Name:
		var table *view.Table[model.Employee]
		if v, ok := sess.MountedEmployees(); ok {
			table = v.Table()
		}
		rows, err := snapshot(ctx, table, h.factory.ListEmployees)
		return export.Employees(rows, at), err
	case model.Invoices.Name:
		var table *view.Table[model.Invoice]
		if v, ok := sess.MountedInvoices(); ok {
			table = v.Table()
		}
		rows, err := snapshot(ctx, table, h.factory.ListInvoices)
		return export.Invoices(rows, at), err
	default:
		var table *view.Table[model.Delegation]
		if v, ok := sess.MountedDelegations(); ok {
			table = v.Table()
		}
		rows, err := snapshot(ctx, table, h.factory.ListDelegations)
		return export.Delegations(rows, at), err
	}
}

// snapshot prefers what the open page shows; without a loaded page the
// collection is listed afresh.
func snapshot[T model.Record](ctx context.Context, table *view.Table[T], list func(context.Context) ([]T, error)) ([]T, error) {
	if table != nil && !table.Loading() && table.LoadError() == nil {
		return table.Records(), nil
	}
	return list(ctx)
}
