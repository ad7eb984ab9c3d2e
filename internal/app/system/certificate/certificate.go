// Package certificate renders the member's academic declaration as a PDF.
package certificate

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dalemusser/leaguehub/internal/app/system/frequency"
	"github.com/go-pdf/fpdf"
)

// MissingRegistration is printed when the member has no registration id.
const MissingRegistration = "NÃO INFORMADA"

// Signatory is one signature block at the foot of the page.
type Signatory struct {
	Name  string
	Title string
}

// Declaration is everything printed on the page.
type Declaration struct {
	Institution    string
	LeagueName     string
	LeagueAcronym  string
	FullName       string
	RegistrationID string
	Attendance     *frequency.Summary
	Signatories    []Signatory
	IssuedAt       time.Time
}

// FileName is the download name, built from the first name.
func (d Declaration) FileName() string {
	first := "membro"
	if f := strings.Fields(d.FullName); len(f) > 0 {
		first = f[0]
	}
	return fmt.Sprintf("Declaracao_%s_%s.pdf", d.LeagueAcronym, first)
}

// Render writes a one-page A4 PDF to w.
func Render(w io.Writer, d Declaration) error {
	if d.IssuedAt.IsZero() {
		d.IssuedAt = time.Now()
	}
	name := strings.ToUpper(strings.TrimSpace(d.FullName))
	reg := strings.TrimSpace(d.RegistrationID)
	if reg == "" {
		reg = MissingRegistration
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(25, 30, 25)
	pdf.SetAutoPageBreak(false, 20)
	pdf.SetTitle("Declaração Acadêmica", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Times", "B", 14)
	pdf.CellFormat(0, 8, tr(strings.ToUpper(d.Institution)), "", 1, "C", false, 0, "")
	pdf.SetFont("Times", "", 10)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("%s - %s", d.LeagueName, d.LeagueAcronym)), "", 1, "C", false, 0, "")

	pdf.Ln(20)
	pdf.SetFont("Times", "BU", 18)
	pdf.CellFormat(0, 10, tr("DECLARAÇÃO ACADÊMICA"), "", 1, "C", false, 0, "")
	pdf.Ln(15)

	body := fmt.Sprintf(
		"Declaramos para os devidos fins de direito e mérito acadêmico que o(a) discente %s, "+
			"regularmente matriculado(a) sob o número de registro %s, é membro integrante das atividades "+
			"de pesquisa, extensão e inovação tecnológica desenvolvidas por esta Liga Acadêmica (%s) na %s. "+
			"O referido aluno cumpre carga horária e requisitos normativos vigentes no estatuto da liga.",
		name, reg, d.LeagueAcronym, d.Institution)
	pdf.SetFont("Times", "", 12)
	pdf.MultiCell(0, 7, tr("        "+body), "", "J", false)

	if s := d.Attendance; s != nil {
		pdf.Ln(6)
		line := fmt.Sprintf("Frequência em eventos oficiais: %d de %d (%d%%). Atividades externas validadas: %d.",
			s.AppRecorded, s.OfficialEvents, s.Percentage, s.External)
		pdf.MultiCell(0, 7, tr(line), "", "J", false)
	}

	if len(d.Signatories) > 0 {
		y := 220.0
		colW := (210.0 - 50.0) / float64(len(d.Signatories))
		for i, sig := range d.Signatories {
			x := 25 + float64(i)*colW
			pdf.Line(x+5, y, x+colW-5, y)
			pdf.SetXY(x, y+2)
			pdf.SetFont("Times", "B", 10)
			pdf.CellFormat(colW, 5, tr(sig.Name), "", 2, "C", false, 0, "")
			pdf.SetFont("Times", "", 8)
			pdf.CellFormat(colW, 4, tr(sig.Title), "", 0, "C", false, 0, "")
		}
	}

	pdf.SetXY(0, 297-20)
	pdf.SetFont("Times", "", 8)
	pdf.SetTextColor(102, 102, 102)
	pdf.CellFormat(210, 4, tr(fmt.Sprintf("Emitido digitalmente via %s Connect em %s", d.LeagueAcronym, d.IssuedAt.Format("02/01/2006"))), "", 0, "C", false, 0, "")

	return pdf.Output(w)
}
