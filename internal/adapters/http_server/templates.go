package httpserver

import (
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	"trip_planner/internal/domain"
)

// The UI is two server-rendered pages: the trip form and the results view.

const formHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Trip Planner</title></head>
<body>
<h1>Trip Planner</h1>
{{if .Error}}<p class="error"><strong>{{.Error}}</strong></p>{{end}}
<form method="post" action="/plan">
  <fieldset>
    <legend>Where are you headed?</legend>
    <label>Departure city (IATA): <input name="origin" value="BOM" required></label>
    <label>Destination (IATA): <input name="destination" value="DEL" required></label>
    <label>Departure date: <input type="date" name="departure_date" required></label>
    <label>Return date: <input type="date" name="return_date" required></label>
    <label>Trip duration (days): <input type="number" name="days" min="1" max="14" value="5"></label>
  </fieldset>
  <fieldset>
    <legend>Personalize your trip</legend>
    <label>Theme:
      <select name="theme">
        <option value="couple">Couple getaway</option>
        <option value="family">Family vacation</option>
        <option value="adventure">Adventure trip</option>
        <option value="solo">Solo exploration</option>
      </select>
    </label>
    <label>Activities you enjoy: <textarea name="activities">Relaxing on the beach, exploring historical sites</textarea></label>
    <label>Budget:
      <select name="budget">
        <option value="economy">Economy</option>
        <option value="standard" selected>Standard</option>
        <option value="luxury">Luxury</option>
      </select>
    </label>
    <label>Flight class:
      <select name="flight_class">
        <option value="economy">Economy</option>
        <option value="business">Business</option>
        <option value="first">First class</option>
      </select>
    </label>
    <label>Hotel rating:
      <select name="hotel_rating">
        <option value="any">Any</option>
        <option value="3">3-star</option>
        <option value="4">4-star</option>
        <option value="5">5-star</option>
      </select>
    </label>
  </fieldset>
  <button type="submit">Generate travel plan</button>
</form>
</body>
</html>`

const resultsHTML = `<!doctype html>
<html>
<head><meta charset="utf-8"><title>Your Trip Plan</title></head>
<body>
<h1>{{.Request.Origin}} &rarr; {{.Request.Destination}}</h1>
<p>{{.Request.DepartureDate}} to {{.Request.ReturnDate}} &middot; status: {{.Status}}</p>
{{range .Warnings}}<p class="warning">{{.}}</p>{{end}}

<h2>Flight options</h2>
{{if .Search.Flights}}
<ul>
{{range .Search.Flights}}
  <li>{{.Airline}}{{if .FlightNumber}} {{.FlightNumber}}{{end}}{{if .Price}} &mdash; {{.Price}} {{.Currency}}{{end}}{{if .Stops}} ({{.Stops}} stops){{end}}</li>
{{end}}
</ul>
{{else}}<p>No specific flight details found for these dates.</p>{{end}}

{{if .HotelNotes}}<h2>Hotels &amp; dining</h2><p>{{.HotelNotes}}</p>{{end}}
{{if .Research}}<h2>Destination research</h2><p>{{.Research}}</p>{{end}}

<h2>Your itinerary</h2>
{{if .Itinerary}}
{{range .Itinerary.Days}}
  <h3>Day {{.Day}}{{if .Summary}} &mdash; {{.Summary}}{{end}}</h3>
  <ul>
  {{range .Activities}}<li>{{if .Slot}}<em>{{.Slot}}</em>: {{end}}{{.Title}}{{if .Description}} &mdash; {{.Description}}{{end}}</li>{{end}}
  </ul>
{{end}}
<p><a href="/v1/plans/{{.ID}}/pdf">Download as PDF</a></p>
{{else}}<p>No itinerary was generated{{if .Search.Flights}}; the search results above are still usable{{end}}.</p>{{end}}

<p><a href="/">Plan another trip</a></p>
</body>
</html>`

var (
	formTpl    = template.Must(template.New("form").Parse(formHTML))
	resultsTpl = template.Must(template.New("results").Parse(resultsHTML))
)

func renderForm(w http.ResponseWriter, status int, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := formTpl.Execute(w, struct{ Error string }{Error: errMsg}); err != nil {
		log.Error().Err(err).Msg("render form failed")
	}
}

func renderResults(w http.ResponseWriter, plan domain.TripPlan) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if err := resultsTpl.Execute(w, plan); err != nil {
		log.Error().Err(err).Msg("render results failed")
	}
}
