package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// CardGenerator renders membership cards.
type CardGenerator struct {
	clubName string
}

type CardData struct {
	FullName    string
	Email       string
	USVNumber   string
	MemberSince string
	VerifiedAt  time.Time
}

func NewCardGenerator(clubName string) *CardGenerator {
	if clubName == "" {
		clubName = "Sportclub"
	}
	return &CardGenerator{clubName: clubName}
}

// RenderMemberCard writes an A6 landscape membership card PDF.
func (g *CardGenerator) RenderMemberCard(w io.Writer, data CardData) error {
	pdf := gofpdf.New("L", "mm", "A6", "")
	pdf.SetTitle(fmt.Sprintf("%s membership card", g.clubName), false)
	pdf.SetAuthor(g.clubName, false)
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, g.clubName, "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, "Membership Card", "", 1, "C", false, 0, "")
	pdf.Ln(4)
	pdf.SetDrawColor(120, 120, 120)
	x, y := pdf.GetXY()
	pdf.Line(x, y, x+128, y)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, data.FullName, "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, data.Email, "", 1, "L", false, 0, "")
	if data.USVNumber != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("USV no. %s", data.USVNumber), "", 1, "L", false, 0, "")
	}
	if data.MemberSince != "" {
		pdf.CellFormat(0, 6, fmt.Sprintf("Member since %s", data.MemberSince), "", 1, "L", false, 0, "")
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(0, 128, 0)
	pdf.CellFormat(0, 6,
		fmt.Sprintf("Membership verified on %s", data.VerifiedAt.Format("02.01.2006")),
		"", 1, "L", false, 0, "")

	return pdf.Output(w)
}
