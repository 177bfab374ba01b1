package services

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
)

// RenderCertificate produces the fixed-layout completion certificate as a
// PDF. Callers must verify eligibility first; this function never renders a
// partial certificate.
func RenderCertificate(studentName, courseTitle string, issuedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	pageW, pageH := pdf.GetPageSize()

	// Border
	pdf.SetDrawColor(30, 60, 120)
	pdf.SetLineWidth(1.2)
	pdf.Rect(8, 8, pageW-16, pageH-16, "D")

	pdf.SetFont("Helvetica", "B", 34)
	pdf.SetTextColor(30, 60, 120)
	pdf.SetXY(0, 40)
	pdf.CellFormat(pageW, 16, "Certificate of Completion", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(0, 70)
	pdf.CellFormat(pageW, 10, "This certifies that", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 26)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, 85)
	pdf.CellFormat(pageW, 14, studentName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 14)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(0, 103)
	pdf.CellFormat(pageW, 10, "has successfully completed the course", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(0, 116)
	pdf.CellFormat(pageW, 12, courseTitle, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.SetTextColor(60, 60, 60)
	pdf.SetXY(0, 140)
	pdf.CellFormat(pageW, 8, "Issued on "+issuedAt.Format("January 2, 2006"), "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(150, 150, 150)
	pdf.SetXY(0, pageH-22)
	pdf.CellFormat(pageW, 6, fmt.Sprintf("Certificate ID: %s", uuid.NewString()), "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
