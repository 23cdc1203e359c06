package ai

import (
	"fmt"
	"strings"
)

func orUnset(s string) string {
	if strings.TrimSpace(s) == "" {
		return "Tidak ditentukan"
	}
	return s
}

func validatePrompt(in ValidateInput) string {
	return fmt.Sprintf(`Analisis surat resmi desa berikut.

Jenis surat: %s
Perihal: %s
Isi:
%s

Jawab dengan JSON:
{"is_valid": boolean, "score": angka 0-1, "grammar_score": angka 0-1, "formality_score": angka 0-1,
 "completeness_score": angka 0-1, "errors": [string], "warnings": [string], "suggestions": [string]}

Nilai tata bahasa Indonesia, formalitas bahasa surat dinas, kelengkapan struktur surat
(pembuka, isi, penutup) dan kejelasan maksud surat.`, orUnset(in.LetterType), orUnset(in.Subject), in.Content)
}

func improvePrompt(in ImproveInput) string {
	return fmt.Sprintf(`Perbaiki surat resmi desa berikut tanpa mengubah maksudnya.

Jenis surat: %s
Isi asli:
%s

Jawab dengan JSON:
{"improved_content": string, "suggestions": [string], "changes_made": [string]}

Perbaiki ejaan, tata bahasa, struktur kalimat dan formalitas.`, orUnset(in.LetterType), in.Content)
}

func generatePrompt(in GenerateInput) string {
	return fmt.Sprintf(`Buat draf surat resmi desa.

Jenis surat: %s
Tujuan: %s
Penerima: %s
Informasi tambahan: %s

Jawab dengan JSON:
{"subject": string, "content": string, "suggestions": [string]}

Isi surat memuat alamat tujuan (Kepada Yth.), pembukaan, isi, dan penutup (Hormat kami).
Jangan menulis kop surat, nomor surat atau tanda tangan.`,
		orUnset(in.LetterType), orUnset(in.Purpose), orUnset(in.Recipient), orUnset(in.AdditionalInfo))
}

func summarizePrompt(in SummarizeInput) string {
	return fmt.Sprintf(`Ringkas surat berikut.

Isi:
%s

Jawab dengan JSON:
{"summary": string, "key_points": [string]}`, in.Content)
}
