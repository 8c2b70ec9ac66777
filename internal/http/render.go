package http

import (
	"embed"
	"html/template"

	"github.com/nurpe/office-admin/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"money": model.Money,
	"optionChecked": func(value, current string) bool {
		return value == current
	},
}

func templates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}
