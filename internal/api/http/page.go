package httpapi

import (
	"embed"
	"html/template"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-widget/internal/widget"
)

//go:embed templates/index.html
var templateFS embed.FS

// Page renders the widget view as HTML.
type Page struct {
	tmpl     *template.Template
	debounce time.Duration
}

// NewPage parses the embedded page template. debounce is handed to the page
// script so it knows when to poll for suggestions.
func NewPage(debounce time.Duration) (*Page, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Page{tmpl: tmpl, debounce: debounce}, nil
}

type pageData struct {
	View       widget.View
	DebounceMs int64
}

// Handler serves the current view.
func (p *Page) Handler(ctrl *widget.Controller) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return p.tmpl.Execute(c, pageData{
			View:       ctrl.View(),
			DebounceMs: p.debounce.Milliseconds(),
		})
	}
}
