package report

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/julienpequegnot/presswatch/internal/article"
	"github.com/julienpequegnot/presswatch/internal/config"
)

var (
	from = time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)
	to   = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
)

func profiles() []config.Profile {
	return []config.Profile{
		{Name: "Porezi", Keywords: []string{"pdv", "porez"}},
		{Name: "Mirovine", Keywords: []string{"mirovin"}},
	}
}

func items() []article.Item {
	s := 7
	return []article.Item{
		{Title: "PDV i mirovine", Link: "https://n1info.hr/1", Source: "N1", PublishedAt: to, Score: &s},
		{Title: "Mirovinska reforma", Link: "https://n1info.hr/2"},
		{Title: "Vrijeme", Summary: "Kisa", Link: "https://n1info.hr/3"},
	}
}

func names(b Bucket) []string {
	var out []string
	for _, it := range b.Items {
		out = append(out, it.Title)
	}
	return out
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyAll, false},
		{"all", PolicyAll, false},
		{"FIRST", PolicyFirst, false},
		{"some", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParsePolicy(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestBucketsAllMatches(t *testing.T) {
	r := New(items(), profiles(), PolicyAll, from, to)

	if len(r.Buckets) != 3 || r.Buckets[2].Name != OtherBucket {
		t.Fatalf("unexpected buckets %+v", r.Buckets)
	}
	if got := names(r.Buckets[0]); len(got) != 1 || got[0] != "PDV i mirovine" {
		t.Errorf("unexpected Porezi bucket %v", got)
	}
	if got := names(r.Buckets[1]); len(got) != 2 {
		t.Errorf("expected article in every matching profile, got %v", got)
	}
	if got := names(r.Buckets[2]); len(got) != 1 || got[0] != "Vrijeme" {
		t.Errorf("unexpected other bucket %v", got)
	}
	if r.Total() != 4 {
		t.Errorf("expected total 4, got %d", r.Total())
	}
}

func TestBucketsFirstMatch(t *testing.T) {
	r := New(items(), profiles(), PolicyFirst, from, to)

	if got := names(r.Buckets[1]); len(got) != 1 || got[0] != "Mirovinska reforma" {
		t.Errorf("expected only the first matching profile, got %v", got)
	}
	if r.Total() != 3 {
		t.Errorf("expected total 3, got %d", r.Total())
	}
}

func TestKeywordsSortedUnique(t *testing.T) {
	ps := append(profiles(), config.Profile{Name: "Opet", Keywords: []string{"pdv"}})
	r := New(nil, ps, PolicyAll, from, to)

	want := "mirovin,pdv,porez"
	if got := strings.Join(r.Keywords, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestRenderHTML(t *testing.T) {
	its := items()
	its[0].Summary = strings.Repeat("rijec ", 10) + "<script>"
	r := New(its, profiles(), PolicyAll, from, to)
	r.SummaryWords = 5

	var buf bytes.Buffer
	if err := r.RenderHTML(&buf); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"Razdoblje: 2025-03-09 do 2025-03-10",
		"Profili: Porezi, Mirovine",
		"<h3>Ostalo</h3>",
		`<a href="https://n1info.hr/1">PDV i mirovine</a>`,
		"Izvor: N1 | Objavljeno: 2025-03-10 00:00 | Score: 7",
		"rijec rijec rijec rijec rijec …",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q\n%s", want, out)
		}
	}
	if strings.Contains(out, "<script>") {
		t.Error("expected summaries to be escaped")
	}
}

func TestRenderHTMLEmpty(t *testing.T) {
	r := New(nil, nil, PolicyAll, from, to)

	var buf bytes.Buffer
	if err := r.RenderHTML(&buf); err != nil {
		t.Fatalf("RenderHTML failed: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Nema pronadenih clanaka") || !strings.Contains(out, "bez profila") {
		t.Errorf("unexpected empty report\n%s", out)
	}
	if strings.Contains(out, "<h3>") {
		t.Error("expected empty buckets to be omitted")
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, items()); err != nil {
		t.Fatalf("WriteCSV failed: %v", err)
	}

	data := buf.Bytes()
	if !bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}) {
		t.Fatal("expected UTF-8 BOM")
	}
	records, err := csv.NewReader(bytes.NewReader(data[3:])).ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	if len(records) != 4 {
		t.Fatalf("expected header and 3 rows, got %d", len(records))
	}
	if records[1][5] != "7" || records[2][5] != "" {
		t.Errorf("unexpected score columns %q %q", records[1][5], records[2][5])
	}
	if records[1][4] != "2025-03-10T00:00:00Z" {
		t.Errorf("unexpected published column %q", records[1][4])
	}
}
