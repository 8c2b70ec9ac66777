package view

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/nurpe/office-admin/internal/apiclient"
	"github.com/nurpe/office-admin/internal/fakeapi"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newFactory(t *testing.T, seed fakeapi.Seed) (*fakeapi.Server, *Factory) {
	t.Helper()
	return newFactoryWith(t, seed, nil)
}

func newFactoryWith(t *testing.T, seed fakeapi.Seed, wrap func(http.Handler) http.Handler) (*fakeapi.Server, *Factory) {
	t.Helper()
	fake := fakeapi.New(zerolog.Nop())
	fake.Seed(seed)
	var h http.Handler = fake.Handler()
	if wrap != nil {
		h = wrap(h)
	}
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	m := metrics.New()
	client := apiclient.New(srv.URL+"/api", zerolog.Nop(), apiclient.WithMetrics(m))
	settings := InvoiceSettings{
		DefaultVATRate:     decimal.NewFromInt(23),
		HighlightThreshold: decimal.NewFromInt(1000),
	}
	return fake, NewFactory(client, settings, m, zerolog.Nop())
}

func fill(t *testing.T, v *ContractorsView, values map[string]string) {
	t.Helper()
	if err := v.Fill(values); err != nil {
		t.Fatalf("fill failed: %v", err)
	}
}

func validDraft() map[string]string {
	return map[string]string{
		"nip":         "1234567",
		"regon":       "7654321",
		"name":        "ACME",
		"vatPayer":    "on",
		"street":      "Polna",
		"houseNumber": "1",
	}
}

func TestContractorsAddAppendsServerRecord(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{Name: "First", NIP: "1111111", REGON: "1111111", Street: "A", HouseNumber: "1"}}})
	v := f.Contractors()
	if err := v.Table().Mount(context.Background()); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	fill(t, v, validDraft())
	notice, err := v.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if notice.Kind != NoticeSuccess {
		t.Fatalf("unexpected notice %#v", notice)
	}

	rows := v.Table().Rows()
	if len(rows) != 2 || rows[1].Record.Name != "ACME" || rows[1].Record.ID == "" || rows[1].Index != 2 {
		t.Fatalf("expected created contractor appended last, got %#v", rows)
	}
	if form := v.Form(); !form.Adding() || form.Draft.Name != "" {
		t.Fatalf("expected draft reset after add, got %#v", form)
	}
	if diff := cmp.Diff(fake.Contractors(), v.Table().Records()); diff != "" {
		t.Fatalf("store differs from server (-server +store):\n%s", diff)
	}
}

func TestContractorsInvalidSubmitSendsNothing(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())

	values := validDraft()
	values["nip"] = "123456"
	fill(t, v, values)

	_, err := v.Submit(context.Background())
	var invalidErr *InvalidInputError
	if !errors.As(err, &invalidErr) || !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input, got %v", err)
	}
	if invalidErr.Errors["nip"] != "NIP must be between 7 and 15 digits" {
		t.Fatalf("unexpected errors %#v", invalidErr.Errors)
	}
	for _, req := range fake.Requests() {
		if req.Method != http.MethodGet {
			t.Fatalf("expected no mutating request, got %#v", req)
		}
	}
}

func TestContractorsEditSendsOnlyChangedFields(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{NIP: "1234567", REGON: "7654321", Name: "Old", Street: "Polna", HouseNumber: "1"}}})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())

	if err := v.StartEdit("1"); err != nil {
		t.Fatalf("start edit failed: %v", err)
	}
	if _, err := v.Change("name", "New"); err != nil {
		t.Fatalf("change failed: %v", err)
	}
	if _, err := v.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	reqs := fake.Requests()
	last := reqs[len(reqs)-1]
	if last.Method != http.MethodPut || last.Path != "/api/contractors/1" || last.Body != `{"name":"New"}` {
		t.Fatalf("unexpected update request %#v", last)
	}
	rec, _ := v.Table().Get("1")
	if rec.Name != "New" || rec.NIP != "1234567" {
		t.Fatalf("expected server copy in place, got %#v", rec)
	}
	if !v.Form().Adding() {
		t.Fatalf("expected edit mode cleared")
	}
}

func TestContractorsEditLeavesUntouchedFieldsAlone(t *testing.T) {
	tests := []struct {
		name   string
		street string
	}{
		{name: "trailing space", street: "Polna "},
		{name: "angle brackets", street: "Os. <Zielone>"},
		{name: "entity text", street: "A &amp; B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{NIP: "1234567", REGON: "7654321", Name: "Old", Street: tt.street, HouseNumber: "1"}}})
			v := f.Contractors()
			_ = v.Table().Mount(context.Background())

			if err := v.StartEdit("1"); err != nil {
				t.Fatalf("start edit failed: %v", err)
			}
			if _, err := v.Change("name", "<i>New</i>"); err != nil {
				t.Fatalf("change failed: %v", err)
			}
			if _, err := v.Submit(context.Background()); err != nil {
				t.Fatalf("submit failed: %v", err)
			}

			reqs := fake.Requests()
			if last := reqs[len(reqs)-1]; last.Body != `{"name":"New"}` {
				t.Fatalf("expected only the name to be sent, got %s", last.Body)
			}
			if got := fake.Contractors()[0].Street; got != tt.street {
				t.Fatalf("street changed on the server: %q", got)
			}
		})
	}
}

func TestContractorsCreateDuringInitialLoadSurvivesList(t *testing.T) {
	listed := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	hold := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet || r.URL.Path != "/api/contractors" {
				next.ServeHTTP(w, r)
				return
			}
			// Answer with the collection as it was before the create.
			rec := httptest.NewRecorder()
			next.ServeHTTP(rec, r)
			once.Do(func() { close(listed) })
			<-release
			for k, vals := range rec.Header() {
				w.Header()[k] = vals
			}
			w.WriteHeader(rec.Code)
			_, _ = w.Write(rec.Body.Bytes())
		})
	}
	fake, f := newFactoryWith(t, fakeapi.Seed{}, hold)
	v := f.Contractors()

	done := v.Table().MountAsync(context.Background())
	<-listed
	fill(t, v, validDraft())
	if _, err := v.Submit(context.Background()); err != nil {
		close(release)
		t.Fatalf("submit failed: %v", err)
	}
	if got := len(v.Table().Rows()); got != 1 {
		close(release)
		t.Fatalf("expected the created row, got %d rows", got)
	}

	close(release)
	<-done
	if err := v.Table().LoadError(); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	rows := v.Table().Rows()
	if len(rows) != 1 || rows[0].Record.ID != fake.Contractors()[0].ID {
		t.Fatalf("expected the created row to survive the list, got %#v", rows)
	}
}

func TestContractorsEditWithoutChangesSkipsRequest(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{NIP: "1234567", REGON: "7654321", Name: "Same", Street: "Polna", HouseNumber: "1"}}})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())
	_ = v.StartEdit("1")

	notice, err := v.Submit(context.Background())
	if err != nil || notice.Kind != NoticeInfo {
		t.Fatalf("expected info notice, got %#v %v", notice, err)
	}
	if n := len(fake.Requests()); n != 1 {
		t.Fatalf("expected only the initial list request, got %d", n)
	}
}

func TestContractorsEditFailureKeepsStore(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{NIP: "1234567", REGON: "7654321", Name: "Old", Street: "Polna", HouseNumber: "1"}}})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())
	_ = v.StartEdit("1")
	_, _ = v.Change("name", "New")

	fake.FailNext(http.MethodPut, "/api/contractors/1", http.StatusBadGateway)
	notice, err := v.Submit(context.Background())
	if err == nil || notice.Kind != NoticeError {
		t.Fatalf("expected failure notice, got %#v %v", notice, err)
	}
	if rec, _ := v.Table().Get("1"); rec.Name != "Old" {
		t.Fatalf("store must keep the server copy, got %q", rec.Name)
	}
	if form := v.Form(); form.Editing != "1" || form.Draft.Name != "New" {
		t.Fatalf("draft must survive a failed save, got %#v", form)
	}
}

func TestContractorsDeleteTwice(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{Name: "A"}, {Name: "B"}}})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())

	if notice, err := v.Delete(context.Background(), "1"); err != nil || notice.Kind != NoticeSuccess {
		t.Fatalf("first delete: %#v %v", notice, err)
	}
	notice, err := v.Delete(context.Background(), "1")
	if err != nil || notice.Kind != NoticeInfo {
		t.Fatalf("second delete should report already deleted, got %#v %v", notice, err)
	}
	if _, ok := v.Table().Get("1"); ok {
		t.Fatalf("deleted id still in store")
	}
	if rows := v.Table().Rows(); len(rows) != 1 || rows[0].Index != 1 || rows[0].Record.Name != "B" {
		t.Fatalf("unexpected rows %#v", rows)
	}
}

func TestContractorsDeleteFailureKeepsRow(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{Name: "A"}}})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())

	fake.FailNext(http.MethodDelete, "/api/contractors/1", http.StatusInternalServerError)
	if _, err := v.Delete(context.Background(), "1"); err == nil {
		t.Fatalf("expected delete error")
	}
	if _, ok := v.Table().Get("1"); !ok {
		t.Fatalf("row must stay until the server confirms deletion")
	}
}

func TestContractorsChangeReportsKeystrokeErrors(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{})
	v := f.Contractors()

	msg, err := v.Change("nip", "12a")
	if err != nil || msg != "NIP must contain only numbers" {
		t.Fatalf("unexpected keystroke result %q %v", msg, err)
	}
	if _, err := v.Change("nope", "x"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for unknown field, got %v", err)
	}
	if msg, _ := v.Change("nip", "1234567"); msg != "" || v.Form().Errors["nip"] != "" {
		t.Fatalf("expected message cleared, got %q", msg)
	}
}

func TestContractorsSubmitStripsMarkup(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{})
	v := f.Contractors()
	_ = v.Table().Mount(context.Background())

	values := validDraft()
	values["name"] = "<b>Kowalski & Syn</b>"
	fill(t, v, values)
	if _, err := v.Submit(context.Background()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if got := fake.Contractors()[0].Name; got != "Kowalski & Syn" {
		t.Fatalf("unexpected stored name %q", got)
	}
}

func TestDelegationsIndexFollowsServerOrder(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{Delegations: []model.Delegation{
		{ID: "30", FullName: "A"},
		{ID: "10", FullName: "B"},
		{ID: "20", FullName: "C"},
	}})
	v := f.Delegations()
	if err := v.Table().Mount(context.Background()); err != nil {
		t.Fatalf("mount failed: %v", err)
	}

	var got []string
	for _, row := range v.Table().Rows() {
		got = append(got, fmt.Sprintf("%d%s", row.Index, row.Record.FullName))
	}
	if diff := cmp.Diff([]string{"1A", "2B", "3C"}, got); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestMountFailureSurfacesError(t *testing.T) {
	fake, f := newFactory(t, fakeapi.Seed{})
	fake.FailNext(http.MethodGet, "/api/employees", http.StatusServiceUnavailable)

	v := f.Employees()
	done := v.Table().MountAsync(context.Background())
	<-done
	if v.Table().Loading() {
		t.Fatalf("expected loading cleared")
	}
	if !apiclientStatus(v.Table().LoadError(), http.StatusServiceUnavailable) {
		t.Fatalf("expected network error, got %v", v.Table().LoadError())
	}
	if len(v.Table().Rows()) != 0 {
		t.Fatalf("expected empty table")
	}
}

func apiclientStatus(err error, status int) bool {
	var netErr *apiclient.NetworkError
	return errors.As(err, &netErr) && netErr.StatusCode == status
}

func TestResponseAfterUnmountIsDropped(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{Contractors: []model.Contractor{{Name: "A"}}})
	v := f.Contractors()
	v.Table().Unmount()

	if err := v.Table().Mount(context.Background()); !errors.Is(err, ErrDetached) {
		t.Fatalf("expected detached error, got %v", err)
	}
	if len(v.Table().Rows()) != 0 {
		t.Fatalf("detached store must stay empty")
	}
}

func TestEmployeesRowColors(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{})
	v := f.Employees()
	v.SetColors("#112233", "not-a-color")

	if v.RowColor(1) != "#112233" || v.RowColor(2) != "#e9ecef" || v.RowColor(3) != "#112233" {
		t.Fatalf("unexpected stripes %v", v.Colors())
	}
}

func TestControlPanelSubmit(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{})
	v := f.ControlPanel()

	if _, err := v.Submit(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected empty form to be rejected, got %v", err)
	}
	if got := v.Form().Errors["color"]; got != "Color selection is required" {
		t.Fatalf("unexpected color message %q", got)
	}

	err := v.Fill(map[string]string{
		"nip": "1234567", "regon": "12345678", "name": "Firma", "date": "2024-01-31",
		"street": "Polna", "houseNumber": "3", "comments": "<script>x</script>ok", "color": "navy", "vat": "23%",
	})
	if err != nil {
		t.Fatalf("fill failed: %v", err)
	}
	notice, err := v.Submit()
	if err != nil || notice.Kind != NoticeSuccess {
		t.Fatalf("expected success, got %#v %v", notice, err)
	}
	if form := v.Form(); form.Draft.NIP != "" || form.Notice == nil {
		t.Fatalf("expected reset form with notice, got %#v", form)
	}
}

func TestSummaryCountsAllCollections(t *testing.T) {
	_, f := newFactory(t, fakeapi.Seed{
		Contractors: []model.Contractor{{Name: "A"}},
		Employees:   []model.Employee{{FirstName: "Jan"}, {FirstName: "Anna"}},
		Delegations: []model.Delegation{{FullName: "X"}},
	})
	got, err := f.Summary(context.Background())
	if err != nil {
		t.Fatalf("summary failed: %v", err)
	}
	if diff := cmp.Diff(Summary{Contractors: 1, Employees: 2, Invoices: 0, Delegations: 1}, got); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}
