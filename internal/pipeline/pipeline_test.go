package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/renderer"
	"github.com/ginjaninja78/TSV-to-PDF-conversion/internal/types"
)

// fakeRenderer writes a marker file instead of a real PDF. It validates the
// order the same way the real renderer does, so validation skips flow through
// the pipeline unchanged.
type fakeRenderer struct {
	calls int
}

func (f *fakeRenderer) Render(order types.Order, templatePath, outputPath string) error {
	if verr := renderer.ValidateOrder(order); verr != nil {
		return verr
	}
	f.calls++
	return os.WriteFile(outputPath, []byte("pdf"), 0644)
}

func order(last, first, date, email string) types.Order {
	return types.Order{
		Date:             date,
		PatientFirstName: first,
		PatientLastName:  last,
		EmailAddress:     email,
		Units:            []int{1},
		RawUnits:         []string{"1"},
		HCodes:           []string{"A1234"},
		CodeDescriptions: []string{"Wheelchair"},
		ICodes:           []string{"SKU1"},
	}
}

func newTestPipeline(t *testing.T) (*Pipeline, *fakeRenderer) {
	t.Helper()
	fr := &fakeRenderer{}
	p := New(fr, "template.pdf", Options{PreviewDir: t.TempDir()})
	return p, fr
}

func TestRenderPreviewsPairsTicketsWithOrders(t *testing.T) {
	p, _ := newTestPipeline(t)
	orders := []types.Order{
		order("Smith", "Ann", "01/02/2024", "ann@example.com"),
		order("Jones", "Bob", "01/03/2024", ""),
	}

	tickets, err := p.RenderPreviews(orders, nil)
	if err != nil {
		t.Fatalf("RenderPreviews: %v", err)
	}
	if len(tickets) != 2 {
		t.Fatalf("got %d tickets, want 2", len(tickets))
	}
	if tickets[0].Email != "ann@example.com" || tickets[1].Email != "" {
		t.Errorf("routing emails not carried: %q %q", tickets[0].Email, tickets[1].Email)
	}
	for _, tk := range tickets {
		if _, err := os.Stat(tk.Path); err != nil {
			t.Errorf("preview artifact missing: %v", err)
		}
	}
}

func TestRenderPreviewsProgressMonotonicTo100(t *testing.T) {
	p, _ := newTestPipeline(t)
	orders := []types.Order{
		order("Smith", "Ann", "01/02/2024", ""),
		order("Jones", "Bob", "01/03/2024", ""),
		order("Doe", "Carol", "01/04/2024", ""),
	}

	var seen []float64
	if _, err := p.RenderPreviews(orders, func(pct float64) {
		seen = append(seen, pct)
	}); err != nil {
		t.Fatal(err)
	}

	if len(seen) != len(orders) {
		t.Fatalf("got %d progress reports, want %d", len(seen), len(orders))
	}
	for i := 1; i < len(seen); i++ {
		if seen[i] <= seen[i-1] {
			t.Errorf("progress not monotonic: %v", seen)
		}
	}
	if seen[len(seen)-1] != 100 {
		t.Errorf("final progress = %v, want 100", seen[len(seen)-1])
	}
}

func TestRenderPreviewsSkipsInvalidOrders(t *testing.T) {
	p, fr := newTestPipeline(t)
	bad := order("", "", "01/02/2024", "") // no last name
	orders := []types.Order{
		order("Smith", "Ann", "01/02/2024", ""),
		bad,
		order("Jones", "Bob", "01/03/2024", ""),
	}

	tickets, err := p.RenderPreviews(orders, nil)
	if err != nil {
		t.Fatalf("validation failure must not abort the batch: %v", err)
	}
	if len(tickets) != 2 {
		t.Errorf("got %d tickets, want 2 (invalid order skipped)", len(tickets))
	}
	if fr.calls != 2 {
		t.Errorf("renderer called %d times, want 2", fr.calls)
	}
}

func TestStartDeliversOneBatchAndCloses(t *testing.T) {
	p, _ := newTestPipeline(t)
	orders := []types.Order{
		order("Smith", "Ann", "01/02/2024", ""),
		order("Jones", "Bob", "01/03/2024", ""),
	}

	progressCh, doneCh := p.Start(orders)

	var last float64
	for pct := range progressCh {
		last = pct
	}
	batch, ok := <-doneCh
	if !ok {
		t.Fatal("completion channel closed without a batch")
	}
	if batch.Err != nil {
		t.Fatalf("batch error: %v", batch.Err)
	}
	if len(batch.Tickets) != 2 {
		t.Errorf("got %d tickets, want 2", len(batch.Tickets))
	}
	if last != 100 {
		t.Errorf("last progress = %v, want 100", last)
	}
	if _, ok := <-doneCh; ok {
		t.Error("completion channel must close after one batch")
	}
}

func TestRenderFinalsRoutesByEmail(t *testing.T) {
	p, _ := newTestPipeline(t)
	dest := t.TempDir()
	orders := []types.Order{
		order("Smith", "Ann", "01/02/2024", "ann@example.com"),
		order("Jones", "Bob", "01/03/2024", ""),
	}

	stats, err := p.RenderFinals(orders, dest)
	if err != nil {
		t.Fatalf("RenderFinals: %v", err)
	}
	if stats.Rendered != 2 || stats.Emailed != 1 || stats.Mailed != 1 {
		t.Errorf("stats = %+v", stats)
	}

	emailed := filepath.Join(dest, "emailed", "Smith Ann delivery ticket 01022024.pdf")
	if _, err := os.Stat(emailed); err != nil {
		t.Errorf("emailed ticket missing: %v", err)
	}
	mailed := filepath.Join(dest, "mailed", "Jones Bob delivery ticket 01032024.pdf")
	if _, err := os.Stat(mailed); err != nil {
		t.Errorf("mailed ticket missing: %v", err)
	}
}

func TestRenderFinalsCollisionOverwrites(t *testing.T) {
	p, fr := newTestPipeline(t)
	dest := t.TempDir()
	same := order("Smith", "Ann", "01/02/2024", "")
	orders := []types.Order{same, same}

	stats, err := p.RenderFinals(orders, dest)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Rendered != 2 {
		t.Errorf("Rendered = %d, want 2", stats.Rendered)
	}
	if fr.calls != 2 {
		t.Errorf("renderer called %d times, want 2", fr.calls)
	}

	entries, err := os.ReadDir(filepath.Join(dest, "mailed"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d files, want 1 (collision overwrites)", len(entries))
	}
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"O'Brien Jr.":    "OBrien Jr",
		"Smith, Ann":     "Smith Ann",
		"A/B\\C:D":       "ABCD",
		"plain_name-1":   "plain_name-1",
		"trailing dot. ": "trailing dot",
	}
	for in, want := range cases {
		if got := SanitizeName(in); got != want {
			t.Errorf("SanitizeName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatDateForFileName(t *testing.T) {
	if got := FormatDateForFileName("01/02/2024"); got != "01022024" {
		t.Errorf("got %q, want 01022024", got)
	}
	if got := FormatDateForFileName("not a date"); got != "unknown_date" {
		t.Errorf("got %q, want unknown_date sentinel", got)
	}
	if got := FormatDateForFileName(""); got != "unknown_date" {
		t.Errorf("got %q, want unknown_date sentinel for empty date", got)
	}
}

func TestFinalFileName(t *testing.T) {
	o := order("O'Brien", "Ann", "03/15/2024", "")
	want := "OBrien Ann delivery ticket 03152024.pdf"
	if got := FinalFileName(o); got != want {
		t.Errorf("FinalFileName = %q, want %q", got, want)
	}
}
