package server

import (
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"calorie-tracker/internal/models"
	"calorie-tracker/internal/nutrients"
	"calorie-tracker/internal/report"
)

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"amount": report.FormatAmount,
}).Parse(`<!DOCTYPE html>
<html>
<head><title>Calorie Tracker</title></head>
<body>
  <h1>Daily Calorie Tracker</h1>
  <h2>Add Food</h2>
  <form action="/add" method="post">
    Name: <input name="name" required><br>
    Calories: <input name="calories" inputmode="decimal"><br>
    Carbs (g): <input name="carbs" inputmode="decimal"><br>
    Protein (g): <input name="protein" inputmode="decimal"><br>
    Fat (g): <input name="fat" inputmode="decimal"><br>
    Micronutrients: <input name="micros" placeholder="vit_c=8, iron=1"><br>
    <button type="submit">Add</button>
  </form>

  <h2>Summary</h2>
  <p>Calories: {{amount .Totals.Calories}}</p>
  <p>Carbs: {{amount .Totals.Carbs}}g</p>
  <p>Protein: {{amount .Totals.Protein}}g</p>
  <p>Fat: {{amount .Totals.Fat}}g</p>
  <ul>{{range .Micros}}<li>{{.Key}}: {{amount .Amount}}</li>{{end}}</ul>

  <form action="/reset" method="post">
    <button type="submit">Reset</button>
  </form>
</body>
</html>
`))

type microRow struct {
	Key    string
	Amount float64
}

type indexData struct {
	Totals models.Totals
	Micros []microRow
}

func (h *handlers) handleIndex(w http.ResponseWriter, r *http.Request) {
	totals, err := h.tracker.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := indexData{Totals: totals}
	totals.Micros.Each(func(key string, amount float64) {
		data.Micros = append(data.Micros, microRow{Key: key, Amount: amount})
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := indexTemplate.Execute(w, data); err != nil {
		h.log.WithError(err).Error("Failed to render index")
	}
}

// handleAdd accepts the form; blank macro fields are unset, and the
// micronutrient field is free text split on commas and whitespace.
func (h *handlers) handleAdd(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, fmt.Sprintf("Invalid form: %v", err), http.StatusBadRequest)
		return
	}

	name := r.PostForm.Get("name")
	if strings.TrimSpace(name) == "" {
		http.Error(w, "food name is required", http.StatusBadRequest)
		return
	}

	req := nutrients.Request{
		Name:   name,
		Micros: nutrients.SplitMicroTokens(r.PostForm.Get("micros")),
	}
	fields := []struct {
		key string
		dst **float64
	}{
		{"calories", &req.Calories},
		{"carbs", &req.Carbs},
		{"protein", &req.Protein},
		{"fat", &req.Fat},
	}
	for _, f := range fields {
		v, err := optionalAmount(r.PostForm.Get(f.key))
		if err != nil {
			h.fail(w, r, fmt.Errorf("%s: %w", f.key, err))
			return
		}
		*f.dst = v
	}

	if _, err := h.tracker.Add(r.Context(), req); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleReset(w http.ResponseWriter, r *http.Request) {
	if err := h.tracker.Reset(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *handlers) handleSummaryJSON(w http.ResponseWriter, r *http.Request) {
	totals, err := h.tracker.Summary(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, totals)
}

func optionalAmount(raw string) (*float64, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	v, err := nutrients.ParseAmount(raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
