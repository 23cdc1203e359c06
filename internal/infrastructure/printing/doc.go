// Package printing renders letters to PDF with headless Chrome and
// verification links to QR codes.
//
//	renderer, err := NewChromedpRenderer(&ChromedpConfig{DefaultTimeout: 30 * time.Second})
//	html, err := RenderLetterHTML(doc)
//	result, err := renderer.Render(ctx, &RenderRequest{HTML: html, Paper: PaperA4, Margins: LetterMargins()})
package printing
