// Package document renders challans to HTML and, through headless Chrome, to PDF.
package document

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go-fleet-ws/internal/model"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

//go:embed templates/challan.html
var templateFS embed.FS

var challanTemplate = template.Must(
	template.New("challan.html").Funcs(template.FuncMap{
		"join": strings.Join,
		"partyKind": func(kind string) string {
			switch kind {
			case "buyer":
				return "Buyer"
			case "scrap_vendor":
				return "Scrap Vendor"
			default:
				return "Site"
			}
		},
	}).ParseFS(templateFS, "templates/challan.html"),
)

type Renderer interface {
	HTML(ch *model.Challan) ([]byte, error)
	PDF(ctx context.Context, ch *model.Challan) ([]byte, error)
}

// ChromeRenderer prints the HTML challan to A4 PDF with headless Chrome.
type ChromeRenderer struct {
	Timeout time.Duration
}

func NewChromeRenderer(timeout time.Duration) *ChromeRenderer {
	return &ChromeRenderer{Timeout: timeout}
}

func (r *ChromeRenderer) HTML(ch *model.Challan) ([]byte, error) {
	var buf bytes.Buffer
	if err := challanTemplate.Execute(&buf, ch); err != nil {
		return nil, fmt.Errorf("render challan %s: %w", ch.Number, err)
	}
	return buf.Bytes(), nil
}

func (r *ChromeRenderer) PDF(ctx context.Context, ch *model.Challan) ([]byte, error) {
	html, err := r.HTML(ch)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", "challan_*.html")
	if err != nil {
		return nil, err
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(html); err != nil {
		tmp.Close()
		return nil, err
	}
	if err := tmp.Close(); err != nil {
		return nil, err
	}

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	abs, err := filepath.Abs(tmp.Name())
	if err != nil {
		return nil, err
	}

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("file://"+abs),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("print challan %s: %w", ch.Number, err)
	}
	return pdf, nil
}
