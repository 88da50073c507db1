package report

import (
	"encoding/csv"
	"html/template"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
)

const digestTemplate = `<html><body>
<h2>Dnevni pregled vijesti</h2>
<p>Razdoblje: {{.From.Format "2006-01-02"}} do {{.To.Format "2006-01-02"}}</p>
<p>Profili: {{if .Profiles}}{{join .Profiles ", "}}{{else}}bez profila{{end}}</p>
<p>Aktivne kljucne rijeci: {{join .Keywords ", "}}</p>
<p>Ukupno clanaka: {{.Total}}</p>
{{- if eq .Total 0}}
<p>Nema pronadenih clanaka za zadane kriterije.</p>
{{- end}}
{{- range .Buckets}}{{if .Items}}
<h3>{{.Name}}</h3>
<ol>
{{- range .Items}}
<li>
<p><strong><a href="{{.Link}}">{{.Title}}</a></strong></p>
<p>{{meta .}}</p>
{{- with summary .Summary}}
<p>{{.}}</p>
{{- end}}
</li><hr>
{{- end}}
</ol>
{{- end}}{{end}}
</body></html>
`

// RenderHTML writes the digest as an HTML document.
func (r *Report) RenderHTML(w io.Writer) error {
	summary := func(s string) string {
		return truncateWords(s, r.SummaryWords)
	}
	tmpl, err := template.New("digest").Funcs(template.FuncMap{
		"join":    strings.Join,
		"meta":    meta,
		"summary": summary,
	}).Parse(digestTemplate)
	if err != nil {
		return err
	}
	return tmpl.Execute(w, r)
}

func meta(it article.Item) string {
	var parts []string
	if it.Source != "" {
		parts = append(parts, "Izvor: "+it.Source)
	}
	if !it.PublishedAt.IsZero() {
		parts = append(parts, "Objavljeno: "+it.PublishedAt.Format("2006-01-02 15:04"))
	}
	if it.Score != nil {
		parts = append(parts, "Score: "+strconv.Itoa(*it.Score))
	}
	return strings.Join(parts, " | ")
}

func truncateWords(s string, limit int) string {
	words := strings.Fields(s)
	if limit <= 0 || len(words) <= limit {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:limit], " ") + " …"
}

var csvHeader = []string{"source", "title", "link", "summary", "published_at", "score"}

// WriteCSV exports items with a UTF-8 byte order mark so spreadsheet
// applications detect the encoding.
func WriteCSV(w io.Writer, items []article.Item) error {
	if _, err := io.WriteString(w, "\ufeff"); err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, it := range items {
		score := ""
		if it.Score != nil {
			score = strconv.Itoa(*it.Score)
		}
		published := ""
		if !it.PublishedAt.IsZero() {
			published = it.PublishedAt.Format(time.RFC3339)
		}
		if err := cw.Write([]string{it.Source, it.Title, it.Link, it.Summary, published, score}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
