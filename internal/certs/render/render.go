// Package render draws certificates as single page PDFs.
package render

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/gosimple/slug"
	"github.com/usapupgrade/certs/internal/certs/domain"
)

const (
	DefaultCourseName      = "Filipino Conversation Mastery"
	DefaultInstitutionName = "UsapUpgrade"
	DefaultVerifyBaseURL   = "https://usapupgrade.com/verify"

	ContentType = "application/pdf"
)

// Config carries the branding printed on every certificate.
type Config struct {
	CourseName      string
	InstitutionName string
	VerifyBaseURL   string
}

type Renderer struct {
	cfg Config
}

// New returns a Renderer, filling empty config fields with defaults.
func New(cfg Config) *Renderer {
	if cfg.CourseName == "" {
		cfg.CourseName = DefaultCourseName
	}
	if cfg.InstitutionName == "" {
		cfg.InstitutionName = DefaultInstitutionName
	}
	if cfg.VerifyBaseURL == "" {
		cfg.VerifyBaseURL = DefaultVerifyBaseURL
	}
	return &Renderer{cfg: cfg}
}

// VerifyURL is the public page where a third party can check c.
func (r *Renderer) VerifyURL(c domain.Certificate) string {
	q := url.Values{}
	q.Set("certificate_id", c.ID)
	q.Set("name", c.FullName())

	sep := "?"
	if strings.Contains(r.cfg.VerifyBaseURL, "?") {
		sep = "&"
	}
	return r.cfg.VerifyBaseURL + sep + q.Encode()
}

// Filename is the download name offered for c's PDF.
func (r *Renderer) Filename(c domain.Certificate) string {
	return slug.Make(r.cfg.InstitutionName+" certificate "+c.FullName()) + ".pdf"
}

const (
	// textMargin keeps text clear of the borders on both sides, in mm.
	textMargin = 25.0

	// nameMinSize is the smallest point size a student name shrinks to
	// before wrapping. Two lines at this size fit above the rule.
	nameMinSize = 12.0
)

var (
	navy = [3]int{18, 38, 84}
	gold = [3]int{191, 148, 56}
	grey = [3]int{96, 96, 96}
)

// Render writes c as a Letter landscape PDF. Output is byte-for-byte stable
// for the same certificate and config.
func (r *Renderer) Render(w io.Writer, c domain.Certificate) error {
	pdf := fpdf.New("L", "mm", "Letter", "")
	pdf.SetCompression(true)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(c.IssuedAt.UTC())
	pdf.SetModificationDate(c.IssuedAt.UTC())
	pdf.SetTitle(r.cfg.CourseName+" Certificate", true)
	pdf.SetAuthor(r.cfg.InstitutionName, true)
	pdf.SetSubject(c.ID, true)
	pdf.SetCreator(r.cfg.InstitutionName, true)
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	// Core fonts are cp1252.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.AddPage()
	pageW, pageH := pdf.GetPageSize()

	// Border.
	pdf.SetDrawColor(navy[0], navy[1], navy[2])
	pdf.SetLineWidth(2)
	pdf.Rect(10, 10, pageW-20, pageH-20, "D")
	pdf.SetDrawColor(gold[0], gold[1], gold[2])
	pdf.SetLineWidth(0.6)
	pdf.Rect(15, 15, pageW-30, pageH-30, "D")

	maxW := pageW - 2*textMargin
	center := func(y float64, style string, size, minSize float64, color [3]int, text string) {
		size, lines := fitText(pdf, style, size, minSize, maxW, tr(text))
		pdf.SetTextColor(color[0], color[1], color[2])
		lineH := size * 0.5
		for i, line := range lines {
			pdf.SetXY(0, y+float64(i)*lineH)
			pdf.CellFormat(pageW, lineH, line, "", 0, "C", false, 0, "")
		}
	}

	center(30, "B", 16, 12, gold, strings.ToUpper(r.cfg.InstitutionName))
	center(48, "B", 34, 34, navy, "Certificate of Completion")
	center(70, "", 14, 14, grey, "This certifies that")
	center(84, "B", 30, nameMinSize, navy, c.FullName())

	pdf.SetDrawColor(gold[0], gold[1], gold[2])
	pdf.SetLineWidth(0.4)
	pdf.Line(pageW/2-80, 101, pageW/2+80, 101)

	center(108, "", 14, 14, grey, "has successfully completed")
	center(120, "B", 20, 12, navy, r.cfg.CourseName)
	center(136, "", 12, 9, grey, fmt.Sprintf("%d lessons completed  |  %d XP earned  |  %d day longest streak",
		c.LessonsCompletedAtCompletion, c.TotalXPAtCompletion, c.LongestStreakAtCompletion))
	center(146, "", 12, 12, grey, "Completed on "+c.CompletionDate.UTC().Format("January 2, 2006"))

	center(172, "", 10, 8, grey, "Certificate ID: "+c.ID)
	center(180, "", 9, 6, grey, "Verify at "+r.VerifyURL(c))

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render certificate %s: %w", c.ID, err)
	}
	return pdf.Output(w)
}

// fitText picks the largest size in [minSize, size], in half point steps, at
// which text fits on one line of width w. Text that is still too wide at
// minSize is wrapped. text must already be in the font's encoding.
func fitText(pdf *fpdf.Fpdf, style string, size, minSize, w float64, text string) (float64, []string) {
	for s := size; s >= minSize; s -= 0.5 {
		pdf.SetFont("Helvetica", style, s)
		if pdf.GetStringWidth(text) <= w {
			return s, []string{text}
		}
	}

	pdf.SetFont("Helvetica", style, minSize)
	var lines []string
	for _, line := range pdf.SplitLines([]byte(text), w) {
		lines = append(lines, string(line))
	}
	return minSize, lines
}
