package server

import (
	"embed"
	"fmt"
	"html/template"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"co2": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
	"figure": formatFigure,
	"date": func(t time.Time) string {
		return t.UTC().Format("2006-01-02 15:04 UTC")
	},
}

func mustParseTemplates() *template.Template {
	return template.Must(template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html"))
}
