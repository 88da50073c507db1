package extract

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestHTMLTextPrefersArticle(t *testing.T) {
	body := `<html><head><title>T</title><style>p{}</style></head><body>
		<header>Izbornik</header>
		<article><h1>Porezna reforma</h1><p>Prvi odlomak.</p><script>var x;</script><p>Drugi odlomak.</p></article>
		<footer>Kontakt</footer></body></html>`

	got, err := HTMLText([]byte(body), nil)
	if err != nil {
		t.Fatalf("HTMLText failed: %v", err)
	}
	want := "Porezna reforma Prvi odlomak. Drugi odlomak."
	if got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestHTMLTextFallsBackToMain(t *testing.T) {
	body := `<html><body><nav>Home</nav><main><p>Glavni   sadrzaj</p></main><form>Prijava</form></body></html>`

	got, err := HTMLText([]byte(body), nil)
	if err != nil {
		t.Fatalf("HTMLText failed: %v", err)
	}
	if got != "Glavni sadrzaj" {
		t.Errorf("expected main content, got %q", got)
	}
}

func TestHTMLTextWithoutContainer(t *testing.T) {
	body := `<html><body><div><p>Samo tekst u tijelu stranice.</p></div><footer>Kontakt</footer></body></html>`

	got, err := HTMLText([]byte(body), nil)
	if err != nil {
		t.Fatalf("HTMLText failed: %v", err)
	}
	if !strings.Contains(got, "Samo tekst u tijelu stranice.") || strings.Contains(got, "Kontakt") {
		t.Errorf("unexpected text %q", got)
	}
}

func TestPlainText(t *testing.T) {
	got := PlainText(`<p>Vlada &amp; <b>Sabor</b></p>
	<p>najavljuju</p>`)
	if got != "Vlada & Sabor najavljuju" {
		t.Errorf("unexpected plain text %q", got)
	}
}

func TestFirstWords(t *testing.T) {
	if got := FirstWords("jedan dva  tri cetiri", 2); got != "jedan dva" {
		t.Errorf("expected two words, got %q", got)
	}
	if got := FirstWords("jedan", 5); got != "jedan" {
		t.Errorf("expected whole text, got %q", got)
	}
}

func TestPDFTextInvalid(t *testing.T) {
	if _, err := PDFText([]byte("not a pdf"), maxPDFPages); err == nil {
		t.Error("expected error for invalid PDF")
	}
}

// brokenPDF has a valid cross-reference table but a garbled page object.
func brokenPDF() []byte {
	objects := []string{
		"1 0 obj << /Type /Catalog /Pages 2 0 R >> endobj\n",
		"2 0 obj << /Type /Pages /Kids [3 0 R] /Count 1 >> endobj\n",
		"3 0 obj 7 0 obj endobj\n",
	}
	var b strings.Builder
	b.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = b.Len()
		b.WriteString(obj)
	}
	xref := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&b, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&b, "trailer << /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)
	return []byte(b.String())
}

func TestPDFTextBrokenObject(t *testing.T) {
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("PDFText panicked: %v", r)
		}
	}()

	text, err := PDFText(brokenPDF(), maxPDFPages)
	if err == nil {
		t.Errorf("expected error for a damaged PDF, got text %q", text)
	}
}

func TestIsPDF(t *testing.T) {
	u, _ := url.Parse("https://ured.hr/dokument.PDF")
	if !(&Page{URL: u}).IsPDF() {
		t.Error("expected .pdf suffix to mark a PDF")
	}
	u, _ = url.Parse("https://ured.hr/preuzmi?id=3")
	if !(&Page{URL: u, ContentType: "application/pdf"}).IsPDF() {
		t.Error("expected content type to mark a PDF")
	}
	if (&Page{URL: u, ContentType: "text/html"}).IsPDF() {
		t.Error("expected HTML page not to be a PDF")
	}
}

func TestExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Error("expected a User-Agent header")
		}
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><article><p>Clanak o porezu.</p></article></body></html>`))
	}))
	defer server.Close()

	e := New(time.Second, "presswatch-test")
	got, err := e.Extract(context.Background(), server.URL+"/clanak")
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if got != "Clanak o porezu." {
		t.Errorf("unexpected text %q", got)
	}

	if _, err := e.Extract(context.Background(), server.URL+"/missing"); err == nil {
		t.Error("expected error for HTTP 404")
	}
}
