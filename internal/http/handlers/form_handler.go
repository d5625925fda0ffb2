// README: HTML form handlers: pick a query from a select box, see the text report.
package handlers

import (
	"html/template"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"rideinsight/internal/modules/analytics"
)

var formTmpl = template.Must(template.New("form").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Ride Data Analysis</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; }
.result { margin-top: 20px; padding: 10px; background-color: #f4f4f4; border-radius: 8px; }
select, button { padding: 10px; margin: 10px; font-size: 16px; }
</style>
</head>
<body>
<h1>Ride Data Analysis</h1>
<form method="POST">
<label for="choice">Select Analysis Query:</label>
<select name="choice" id="choice">
{{- range .Queries}}
<option value="{{.ID}}"{{if eq .ID $.Selected}} selected{{end}}>{{.Title}}</option>
{{- end}}
</select>
<button type="submit">Submit</button>
</form>
{{- if .Result}}
<div class="result">
<h3>Analysis Result:</h3>
<pre>{{.Result}}</pre>
{{- if .HeatmapURL}}
<p><a href="{{.HeatmapURL}}">Open heatmap</a></p>
{{- end}}
</div>
{{- end}}
</body>
</html>
`))

type formPage struct {
	Queries    []analytics.Query
	Selected   analytics.QueryID
	Result     string
	HeatmapURL string
}

type FormHandler struct {
	queries *analytics.Service
}

func NewFormHandler(svc *analytics.Service) *FormHandler {
	return &FormHandler{queries: svc}
}

// Show handles GET /.
func (h *FormHandler) Show(c *gin.Context) {
	h.render(c, http.StatusOK, formPage{Queries: h.queries.Queries()})
}

// Submit handles POST / with form field "choice".
func (h *FormHandler) Submit(c *gin.Context) {
	choice := c.PostForm("choice")
	page := formPage{Queries: h.queries.Queries(), Selected: analytics.QueryID(choice)}

	report, err := h.queries.Submit(c.Request.Context(), choice)
	if err != nil {
		log.Printf("form query %q: %v", choice, err)
		page.Result = "internal error"
		h.render(c, http.StatusInternalServerError, page)
		return
	}
	page.Result = report.Text()
	if report.Artifact != nil {
		page.HeatmapURL = "/api/heatmap"
	}
	h.render(c, http.StatusOK, page)
}

func (h *FormHandler) render(c *gin.Context, status int, page formPage) {
	c.Status(status)
	c.Header("Content-Type", "text/html; charset=utf-8")
	if err := formTmpl.Execute(c.Writer, page); err != nil {
		log.Printf("render form: %v", err)
	}
}
