package dashboard

import (
	"embed"
	"encoding/base64"
	"html/template"

	"github.com/dbsmedya/dwdash/internal/report"
)

//go:embed templates/page.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/page.html"))

type page struct {
	Title     string
	Warehouse string
	Sections  []section
}

type section struct {
	ID      string
	Heading string
	Image   template.URL
	Legend  []legendItem
	Notice  string
	Err     string
}

type legendItem struct {
	Label  string
	Swatch template.CSS
}

func newSection(o report.Outcome) section {
	s := section{ID: o.Report.ID(), Heading: o.Report.Heading()}
	if o.Err != nil {
		s.Err = o.Err.Error()
		return s
	}
	s.Image = dataURL(o.Result.Chart)
	s.Notice = o.Result.Notice
	for _, l := range o.Result.Legend {
		s.Legend = append(s.Legend, legendItem{Label: l.Label, Swatch: template.CSS("background:" + l.Color)})
	}
	return s
}

func dataURL(png []byte) template.URL {
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
