package apiclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"

	"github.com/nurpe/office-admin/internal/fakeapi"
	"github.com/nurpe/office-admin/internal/metrics"
	"github.com/nurpe/office-admin/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newFixture(t *testing.T) (*fakeapi.Server, *Client) {
	t.Helper()
	fake := fakeapi.New(zerolog.Nop())
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)
	return fake, New(srv.URL+"/api", zerolog.Nop(), WithMetrics(metrics.New()))
}

func TestCreateThenListRoundTrip(t *testing.T) {
	_, client := newFixture(t)
	contractors := For[model.Contractor](client, model.Contractors)
	ctx := context.Background()

	draft := model.Contractor{NIP: "1234567", REGON: "7654321", Name: "ACME", VATPayer: true, Street: "Polna", HouseNumber: "1"}
	created, err := contractors.Create(ctx, draft)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected server-assigned id")
	}

	rows, err := contractors.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	want := draft
	want.ID = created.ID
	if diff := cmp.Diff([]model.Contractor{want}, rows); diff != "" {
		t.Fatalf("listed rows mismatch (-want +got):\n%s", diff)
	}
}

func TestUpdateSendsOnlyGivenFields(t *testing.T) {
	fake, client := newFixture(t)
	fake.Seed(fakeapi.Seed{Contractors: []model.Contractor{{NIP: "1234567", REGON: "7654321", Name: "Old", Street: "Polna", HouseNumber: "1"}}})
	contractors := For[model.Contractor](client, model.Contractors)

	updated, ok, err := contractors.Update(context.Background(), "1", map[string]any{"name": "New"})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if !ok || updated.Name != "New" || updated.NIP != "1234567" {
		t.Fatalf("unexpected update result ok=%v rec=%#v", ok, updated)
	}

	reqs := fake.Requests()
	last := reqs[len(reqs)-1]
	if last.Method != http.MethodPut || last.Path != "/api/contractors/1" || last.Body != `{"name":"New"}` {
		t.Fatalf("unexpected request %#v", last)
	}
}

func TestNonSuccessStatusIsNetworkError(t *testing.T) {
	fake, client := newFixture(t)
	contractors := For[model.Contractor](client, model.Contractors)

	fake.FailNext(http.MethodGet, "/api/contractors", http.StatusInternalServerError)
	_, err := contractors.List(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("expected NetworkError, got %v", err)
	}
	if netErr.Resource != "contractors" || netErr.Action != "list" || netErr.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected error context %#v", netErr)
	}
}

func TestDeleteMissingIsNotFound(t *testing.T) {
	_, client := newFixture(t)
	err := For[model.Contractor](client, model.Contractors).Delete(context.Background(), "404")
	if !IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestUnsupportedOperationIssuesNoRequest(t *testing.T) {
	fake, client := newFixture(t)
	err := For[model.Employee](client, model.Employees).Delete(context.Background(), "1")
	if !errors.Is(err, ErrUnsupported) {
		t.Fatalf("expected ErrUnsupported, got %v", err)
	}
	if n := len(fake.Requests()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestTransportFailureIsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	client := New(srv.URL+"/api", zerolog.Nop(), WithTimeout(time.Second))
	_, err := For[model.Delegation](client, model.Delegations).List(context.Background())

	var netErr *NetworkError
	if !errors.As(err, &netErr) || netErr.StatusCode != 0 {
		t.Fatalf("expected transport NetworkError, got %v", err)
	}
}

func TestCreateWithoutIDFails(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"no id"}`))
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, zerolog.Nop())
	_, err := For[model.Contractor](client, model.Contractors).Create(context.Background(), model.Contractor{Name: "x"})
	if !errors.Is(err, ErrMissingID) {
		t.Fatalf("expected ErrMissingID, got %v", err)
	}
}

func TestUpdateWithEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, zerolog.Nop())
	_, ok, err := For[model.Invoice](client, model.Invoices).Update(context.Background(), "3", map[string]any{"quantity": 2})
	if err != nil || ok {
		t.Fatalf("expected success without record, ok=%v err=%v", ok, err)
	}
}
