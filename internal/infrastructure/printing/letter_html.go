package printing

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/letter.html.tmpl
var templateFS embed.FS

var letterTemplate = template.Must(template.ParseFS(templateFS, "templates/letter.html.tmpl"))

var indonesianMonths = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// LetterDocument is everything printed on a letter PDF
type LetterDocument struct {
	VillageName      string
	VillageAddress   string
	VillagePhone     string
	VillageEmail     string
	VillageWebsite   string
	HeadName         string
	HeadNIP          string
	LetterNumber     string
	TypeName         string
	Subject          string
	Content          string
	ApplicantName    string
	ApplicantNIK     string
	ApplicantAddress string
	IssuedAt         time.Time
	VerificationURL  string
	QRPNG            []byte
	DigitallySigned  bool
	SignatureHash    string
}

type letterView struct {
	VillageName      string
	VillageAddress   string
	VillagePhone     string
	VillageEmail     string
	VillageWebsite   string
	HeadName         string
	HeadNIP          string
	LetterNumber     string
	TypeName         string
	Subject          string
	Paragraphs       []string
	ApplicantName    string
	ApplicantNIK     string
	ApplicantAddress string
	IssuedOn         string
	VerificationURL  string
	QRDataURL        template.URL
	DigitallySigned  bool
	SignatureHash    string
}

// RenderLetterHTML renders the letterhead template for doc
func RenderLetterHTML(doc *LetterDocument) (string, error) {
	title := cases.Title(language.Indonesian)
	view := letterView{
		VillageName:      title.String(strings.TrimSpace(doc.VillageName)),
		VillageAddress:   doc.VillageAddress,
		VillagePhone:     doc.VillagePhone,
		VillageEmail:     doc.VillageEmail,
		VillageWebsite:   doc.VillageWebsite,
		HeadName:         strings.ToUpper(doc.HeadName),
		HeadNIP:          doc.HeadNIP,
		LetterNumber:     doc.LetterNumber,
		TypeName:         doc.TypeName,
		Subject:          doc.Subject,
		Paragraphs:       Paragraphs(doc.Content),
		ApplicantName:    title.String(strings.ToLower(doc.ApplicantName)),
		ApplicantNIK:     doc.ApplicantNIK,
		ApplicantAddress: doc.ApplicantAddress,
		IssuedOn:         FormatIndonesianDate(doc.IssuedAt),
		VerificationURL:  doc.VerificationURL,
		DigitallySigned:  doc.DigitallySigned,
		SignatureHash:    doc.SignatureHash,
	}
	if view.TypeName == "" {
		view.TypeName = doc.Subject
	}
	if len(doc.QRPNG) > 0 {
		// embedded image data, not user input
		view.QRDataURL = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(doc.QRPNG))
	}

	var buf bytes.Buffer
	if err := letterTemplate.Execute(&buf, view); err != nil {
		return "", NewRenderError(ErrCodeTemplateFailed, "failed to render letter template", err)
	}
	return buf.String(), nil
}

// Paragraphs splits letter content on blank lines and folds single line breaks
func Paragraphs(content string) []string {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	var out []string
	for _, block := range strings.Split(content, "\n\n") {
		p := strings.Join(strings.Fields(block), " ")
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// FormatIndonesianDate formats t as "2 Januari 2026"
func FormatIndonesianDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return fmt.Sprintf("%d %s %d", t.Day(), indonesianMonths[t.Month()-1], t.Year())
}
