package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"math"
	"net/http"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{
		"brl":     formatBRL,
		"brlPtr":  formatBRLPtr,
		"percent": formatPercent,
	}
	for _, page := range []string{"dashboard", "operadora_list", "operadora_detail", "error"} {
		pages[page] = template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+page+".html"))
	}
}

// render executes page into a buffer first so a template error never leaves a partial response.
func render(w http.ResponseWriter, status int, page string, data interface{}) error {
	tmpl, ok := pages[page]
	if !ok {
		return fmt.Errorf("views: unknown page %q", page)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Errorf("views: render %s: %w", page, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

type errorPage struct {
	Title   string
	Message string
}

func renderError(w http.ResponseWriter, status int, message string) error {
	return render(w, status, "error", errorPage{Title: http.StatusText(status), Message: message})
}

func ptBR() *message.Printer {
	return message.NewPrinter(language.BrazilianPortuguese)
}

func decimal2(v float64) number.Formatter {
	return number.Decimal(math.Round(v*100)/100, number.MinFractionDigits(2), number.MaxFractionDigits(2))
}

// formatBRL formats v as Brazilian currency, e.g. R$ 1.234,56.
func formatBRL(v float64) string {
	p := ptBR()
	out := p.Sprint(currency.Symbol(currency.BRL)) + " " + p.Sprint(decimal2(math.Abs(v)))
	if v < 0 {
		return "-" + out
	}
	return out
}

func formatBRLPtr(v *float64) string {
	if v == nil {
		return "-"
	}
	return formatBRL(*v)
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return ptBR().Sprint(decimal2(*v)) + "%"
}
