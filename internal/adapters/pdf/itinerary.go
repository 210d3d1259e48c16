// Package pdf renders an archived trip plan as a downloadable document.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"trip_planner/internal/domain"
)

// Render builds the itinerary PDF and its download filename.
func Render(p domain.TripPlan) ([]byte, string, error) {
	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Trip Itinerary", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.Cell(0, 10, fmt.Sprintf("Trip: %s -> %s", p.Request.Origin, p.Request.Destination))
	doc.Ln(12)

	doc.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Dates     : %s to %s (%d days)", p.Request.DepartureDate, p.Request.ReturnDate, p.Request.Days),
		fmt.Sprintf("Theme     : %s", orDash(string(p.Request.Theme))),
		fmt.Sprintf("Budget    : %s", orDash(string(p.Request.Budget))),
		fmt.Sprintf("Status    : %s", p.Status),
	}
	for _, s := range lines {
		doc.Cell(0, 7, s)
		doc.Ln(7)
	}
	doc.Ln(4)

	if len(p.Search.Flights) > 0 {
		doc.SetFont("Helvetica", "B", 13)
		doc.Cell(0, 8, "Flights")
		doc.Ln(9)
		doc.SetFont("Helvetica", "", 10)
		for _, f := range p.Search.Flights {
			doc.MultiCell(0, 5, flightLine(f), "", "", false)
			doc.Ln(1)
		}
		doc.Ln(3)
	}

	if p.HotelNotes != nil {
		doc.SetFont("Helvetica", "B", 13)
		doc.Cell(0, 8, "Hotels & Dining")
		doc.Ln(9)
		doc.SetFont("Helvetica", "", 10)
		doc.MultiCell(0, 5, *p.HotelNotes, "", "", false)
		doc.Ln(3)
	}

	if p.Itinerary != nil {
		doc.SetFont("Helvetica", "B", 13)
		doc.Cell(0, 8, "Itinerary")
		doc.Ln(9)
		for _, d := range p.Itinerary.Days {
			doc.SetFont("Helvetica", "B", 11)
			head := fmt.Sprintf("Day %d", d.Day)
			if d.Summary != "" {
				head += " - " + d.Summary
			}
			doc.Cell(0, 6, head)
			doc.Ln(7)
			doc.SetFont("Helvetica", "", 10)
			for _, a := range d.Activities {
				line := a.Title
				if a.Slot != "" {
					line = capitalize(a.Slot) + ": " + line
				}
				if a.Description != "" {
					line += " - " + a.Description
				}
				doc.MultiCell(0, 5, line, "", "", false)
			}
			doc.Ln(2)
		}
	}

	for _, w := range p.Warnings {
		doc.SetFont("Helvetica", "I", 9)
		doc.MultiCell(0, 5, "Note: "+w, "", "", false)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, "", err
	}
	name := fmt.Sprintf("ITINERARY_%s_%s_%s.pdf", p.Request.Origin, p.Request.Destination, p.ID)
	return buf.Bytes(), name, nil
}

func flightLine(f domain.FlightOption) string {
	var b strings.Builder
	b.WriteString(orDash(f.Airline))
	if f.FlightNumber != nil {
		fmt.Fprintf(&b, " %s", *f.FlightNumber)
	}
	if f.DepartureAirport != nil && f.ArrivalAirport != nil {
		fmt.Fprintf(&b, " (%s -> %s)", *f.DepartureAirport, *f.ArrivalAirport)
	}
	if f.Price != nil {
		fmt.Fprintf(&b, " %.0f %s", *f.Price, f.Currency)
	}
	if f.Stops > 0 {
		fmt.Fprintf(&b, ", %d stop(s)", f.Stops)
	}
	return b.String()
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
