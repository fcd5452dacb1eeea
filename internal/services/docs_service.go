package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"planillabus/internal/domain"
	"planillabus/internal/domain/models"
	"planillabus/internal/repositories"
	"planillabus/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders the e-ticket and the distribution report as PDF.
type DocsService struct {
	Tickets       repositories.TicketRepository
	Manifests     repositories.ManifestRepository
	Routes        repositories.RouteRepository
	Profiles      repositories.FareProfileRepository
	Assignments   repositories.BusAssignmentRepository
	Distributions repositories.DistributionRepository
	Tokens        TicketTokens
	Location      *time.Location
	RequestID     string

	TicketLoader       func(context.Context, int64) (ticketDocData, error)
	DistributionLoader func(context.Context, int64) (distributionDocData, error)
}

type ticketDocData struct {
	Ticket         models.Ticket
	ManifestNumber string
	Origin         string
	Destination    string
	Window         string
}

type distributionDocData struct {
	Assignment     models.BusAssignment
	ManifestNumber string
	Entries        []models.DistributionEntry
}

func (s DocsService) GenerateETicket(ctx context.Context, ticketID int64) ([]byte, string, error) {
	data, err := s.loadTicketDocData(ctx, ticketID)
	if err != nil {
		return nil, "", err
	}
	code, err := s.Tokens.Sign(data.Ticket)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_eticket", fmt.Sprintf("ticket_id=%d", ticketID))
	return buildETicketPDF(data, code, s.Location)
}

func (s DocsService) GenerateDistributionReport(ctx context.Context, assignmentID int64) ([]byte, string, error) {
	data, err := s.loadDistributionDocData(ctx, assignmentID)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_distribution", fmt.Sprintf("planilla_bus=%d entries=%d", assignmentID, len(data.Entries)))
	return buildDistributionPDF(data, s.Location)
}

func (s DocsService) loadTicketDocData(ctx context.Context, ticketID int64) (ticketDocData, error) {
	if s.TicketLoader != nil {
		return s.TicketLoader(ctx, ticketID)
	}
	var out ticketDocData
	t, err := s.Tickets.GetByID(ctx, ticketID)
	if err != nil {
		return out, err
	}
	out.Ticket = t

	// manifest, route and profile only decorate the ticket
	if m, err := s.Manifests.GetByID(ctx, t.ManifestID); err == nil {
		out.ManifestNumber = m.Number
		if r, err := s.Routes.GetByID(ctx, m.RouteID); err == nil {
			out.Origin = r.OriginCity
			out.Destination = r.DestinationCity
		}
	}
	if p, err := s.Profiles.GetByID(ctx, t.FareProfileID); err == nil {
		out.Window = p.StartTime + " - " + p.EndTime
	}
	return out, nil
}

func (s DocsService) loadDistributionDocData(ctx context.Context, assignmentID int64) (distributionDocData, error) {
	if s.DistributionLoader != nil {
		return s.DistributionLoader(ctx, assignmentID)
	}
	var out distributionDocData
	a, err := s.Assignments.GetByID(ctx, assignmentID)
	if err != nil {
		return out, err
	}
	out.Assignment = a
	if m, err := s.Manifests.GetByID(ctx, a.ManifestID); err == nil {
		out.ManifestNumber = m.Number
	}
	out.Entries, err = s.Distributions.List(ctx, repositories.DistributionFilter{BusAssignmentID: assignmentID})
	if err != nil {
		return out, err
	}
	return out, nil
}

func buildETicketPDF(d ticketDocData, code string, loc *time.Location) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Tiquete", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr("TIQUETE ELECTRÓNICO"))
	pdf.Ln(12)

	t := d.Ticket
	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Tiquete No.     : %d", t.ID),
		fmt.Sprintf("Pasajero        : %s", safe(t.Name, "-")),
		fmt.Sprintf("Documento       : %s", safe(t.DocumentNumber, "-")),
		fmt.Sprintf("Planilla        : %s", safe(d.ManifestNumber, fmt.Sprintf("#%d", t.ManifestID))),
		fmt.Sprintf("Ruta            : %s -> %s", safe(d.Origin, "-"), safe(d.Destination, "-")),
		fmt.Sprintf("Franja tarifa   : %s", safe(d.Window, "-")),
		fmt.Sprintf("Asientos        : %d", t.Seats),
		fmt.Sprintf("Valor unitario  : %s", utils.FormatPesos(t.UnitPrice)),
		fmt.Sprintf("Emitido         : %s", utils.FormatDateTime(t.CreatedAt, loc)),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, tr(s))
		pdf.Ln(7)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 14)
	pdf.Cell(0, 9, tr("Total: "+utils.FormatPesos(t.Total)))
	pdf.Ln(14)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.Cell(0, 6, tr("Código de verificación:"))
	pdf.Ln(6)
	pdf.SetFont("Courier", "", 7)
	pdf.MultiCell(0, 4, code, "1", "", false)

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, tr("Presente este tiquete al abordar. El código se valida en /api/tiquetes/tiquetes/verificar."), "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "no se pudo generar el PDF", Err: err}
	}

	filename := fmt.Sprintf("TIQUETE_%d_%s.pdf", t.ID, utils.SafeFilenamePart(t.DocumentNumber))
	return buf.Bytes(), filename, nil
}

func buildDistributionPDF(d distributionDocData, loc *time.Location) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Distribución", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, tr("DISTRIBUCIÓN PLANILLA BUS"))
	pdf.Ln(12)

	a := d.Assignment
	pdf.SetFont("Helvetica", "", 11)
	header := []string{
		fmt.Sprintf("Planilla   : %s", safe(d.ManifestNumber, fmt.Sprintf("#%d", a.ManifestID))),
		fmt.Sprintf("Bus        : %s", safe(a.BusPlate, fmt.Sprintf("#%d", a.BusID))),
		fmt.Sprintf("Conductor  : %s", safe(a.DriverName, "-")),
		fmt.Sprintf("Pasajeros  : %d", a.Passengers),
		fmt.Sprintf("Estado     : %s", a.DeriveStatus()),
	}
	if a.DepartureAt != nil {
		header = append(header, "Salida     : "+utils.FormatDateTime(*a.DepartureAt, loc))
	}
	if a.ArrivalAt != nil {
		header = append(header, "Llegada    : "+utils.FormatDateTime(*a.ArrivalAt, loc))
	}
	for _, s := range header {
		pdf.Cell(0, 6, tr(s))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	widths := []float64{80, 40, 50}
	pdf.SetFont("Helvetica", "B", 11)
	for i, h := range []string{"Propietario", "Porcentaje", "Valor aplicado"} {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, e := range d.Entries {
		pdf.CellFormat(widths[0], 7, tr(safe(e.OwnerName, fmt.Sprintf("#%d", e.OwnerID))), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, tr(utils.FormatPercent(e.Percentage)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, tr(utils.FormatPesos(e.AppliedValue)), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	sum := SummarizeDistributions(d.Entries)
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, tr(fmt.Sprintf("Distribuciones: %d   Total: %s   Promedio: %s   %% promedio: %s",
		sum.Entries, utils.FormatPesos(sum.TotalValue), utils.FormatPesos(sum.AverageValue), utils.FormatPercent(sum.AveragePercentage))))
	pdf.Ln(10)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", domain.InternalError{Msg: "no se pudo generar el PDF", Err: err}
	}
	filename := fmt.Sprintf("DISTRIBUCION_%d_%s.pdf", a.ID, utils.SafeFilenamePart(a.BusPlate))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}
