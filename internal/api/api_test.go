package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fastprodman/predictionmarket/internal/auth"
	"github.com/fastprodman/predictionmarket/internal/market"
	"github.com/fastprodman/predictionmarket/internal/repos/memory"
	"github.com/fastprodman/predictionmarket/internal/services/markets"
	"github.com/fastprodman/predictionmarket/internal/services/treasury"
)

func TestParseAmountCents(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"1", 100, false},
		{"1.5", 150, false},
		{"1.05", 105, false},
		{"+2.00", 200, false},
		{" 0.01 ", 1, false},
		{"", 0, true},
		{"0", 0, true},
		{"-1", 0, true},
		{"1.234", 0, true},
		{"1.", 0, true},
		{"1.2.3", 0, true},
		{"1.-5", 0, true},
		{"abc", 0, true},
		{"92233720368547758.08", 0, true},
	}

	for _, tt := range tests {
		got, err := parseAmountCents(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Fatalf("parseAmountCents(%q): expected error, got %d", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseAmountCents(%q): %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("parseAmountCents(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestFormatCents(t *testing.T) {
	t.Parallel()

	for in, want := range map[int64]string{0: "0.00", 5: "0.05", 150: "1.50", -105: "-1.05"} {
		if got := formatCents(in); got != want {
			t.Fatalf("formatCents(%d) = %q, want %q", in, got, want)
		}
	}
}

type testServer struct {
	t        *testing.T
	handler  http.Handler
	verifier *auth.HMACVerifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	v, err := auth.NewHMACVerifier([]byte("api-test-secret-0123456789abcdef"))
	if err != nil {
		t.Fatalf("verifier: %v", err)
	}

	store := memory.New()
	h := NewHandler(
		markets.New(store, store, v, markets.WithAsserters("oracle")),
		treasury.New(store, v, "bank"),
	)

	return &testServer{t: t, handler: NewRouter(h), verifier: v}
}

func (s *testServer) do(method, path, who, body string) (int, map[string]any) {
	s.t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if who != "" {
		tok, err := s.verifier.Issue(who)
		if err != nil {
			s.t.Fatalf("issue: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok.String())
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var out map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &out)

	return rec.Code, out
}

func TestMarketLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	code, _ := s.do(http.MethodPost, "/accounts/alice/mint", "bank", `{"amount":"10.00"}`)
	if code != http.StatusOK {
		t.Fatalf("mint alice: status %d", code)
	}
	code, _ = s.do(http.MethodPost, "/accounts/bob/mint", "bank", `{"amount":"10.00"}`)
	if code != http.StatusOK {
		t.Fatalf("mint bob: status %d", code)
	}

	code, body := s.do(http.MethodPost, "/markets", "", `{"outcome1":"Yes","outcome2":"No","description":"Will it rain?","sequence":10}`)
	if code != http.StatusCreated {
		t.Fatalf("create: status %d body %v", code, body)
	}

	id, _ := body["id"].(string)
	if id != market.DeriveID("Will it rain?", 10).String() {
		t.Fatalf("unexpected market id %q", id)
	}

	steps := []struct {
		name   string
		method string
		path   string
		who    string
		body   string
		want   int
	}{
		{"deposit alice", http.MethodPost, "/markets/" + id + "/deposits", "alice", `{"outcome":"Yes","amount":"1.00"}`, http.StatusOK},
		{"deposit bob", http.MethodPost, "/markets/" + id + "/deposits", "bob", `{"outcome":"No","amount":"0.50"}`, http.StatusOK},
		{"deposit bad outcome", http.MethodPost, "/markets/" + id + "/deposits", "bob", `{"outcome":"Maybe","amount":"0.50"}`, http.StatusUnprocessableEntity},
		{"deposit no token", http.MethodPost, "/markets/" + id + "/deposits", "", `{"outcome":"No","amount":"0.50"}`, http.StatusUnauthorized},
		{"deposit too much", http.MethodPost, "/markets/" + id + "/deposits", "bob", `{"outcome":"No","amount":"100"}`, http.StatusConflict},
		{"redeem early", http.MethodPost, "/markets/" + id + "/redemptions", "alice", ``, http.StatusConflict},
		{"assert by non oracle", http.MethodPost, "/markets/" + id + "/assertion", "alice", `{"outcome":"Yes"}`, http.StatusUnauthorized},
		{"assert", http.MethodPost, "/markets/" + id + "/assertion", "oracle", `{"outcome":"Yes"}`, http.StatusOK},
		{"assert again", http.MethodPost, "/markets/" + id + "/assertion", "oracle", `{"outcome":"No"}`, http.StatusConflict},
		{"redeem", http.MethodPost, "/markets/" + id + "/redemptions", "alice", ``, http.StatusOK},
	}

	for _, st := range steps {
		code, body := s.do(st.method, st.path, st.who, st.body)
		if code != st.want {
			t.Fatalf("%s: status %d, want %d (body %v)", st.name, code, st.want, body)
		}
	}

	code, body = s.do(http.MethodGet, "/accounts/alice/balance", "", "")
	if code != http.StatusOK || body["balance"] != "10.00" {
		t.Fatalf("alice balance: status %d body %v", code, body)
	}

	code, body = s.do(http.MethodGet, "/markets/"+id, "", "")
	if code != http.StatusOK || body["resolution"] != "resolved_outcome1" || body["winner"] != "Yes" {
		t.Fatalf("get market: status %d body %v", code, body)
	}

	code, body = s.do(http.MethodGet, "/markets/"+id+"/positions/No/bob", "", "")
	if code != http.StatusOK || body["balance"] != "0.50" {
		t.Fatalf("bob position: status %d body %v", code, body)
	}
}

func TestMarketErrors(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	missing := market.DeriveID("nope", 1).String()

	tests := []struct {
		name   string
		method string
		path   string
		who    string
		body   string
		want   int
	}{
		{"bad id", http.MethodGet, "/markets/xyz", "", "", http.StatusBadRequest},
		{"missing market", http.MethodGet, "/markets/" + missing, "", "", http.StatusNotFound},
		{"same outcomes", http.MethodPost, "/markets", "", `{"outcome1":"a","outcome2":"a","description":"d"}`, http.StatusBadRequest},
		{"unknown field", http.MethodPost, "/markets", "", `{"outcome3":"a"}`, http.StatusBadRequest},
		{"empty body", http.MethodPost, "/markets", "", ``, http.StatusBadRequest},
		{"mint by non admin", http.MethodPost, "/accounts/alice/mint", "alice", `{"amount":"1"}`, http.StatusUnauthorized},
		{"mint bad amount", http.MethodPost, "/accounts/alice/mint", "bank", `{"amount":"-1"}`, http.StatusBadRequest},
		{"transfer without funds", http.MethodPost, "/accounts/bob/transfers", "alice", `{"amount":"1"}`, http.StatusConflict},
		{"journal of missing market", http.MethodGet, "/markets/" + missing + "/journal", "", "", http.StatusNotFound},
		{"health", http.MethodGet, "/healthz", "", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := s.do(tt.method, tt.path, tt.who, tt.body)
			if code != tt.want {
				t.Fatalf("status %d, want %d (body %v)", code, tt.want, body)
			}
		})
	}
}

func TestPositionPathIsDecoded(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	code, _ := s.do(http.MethodPost, "/accounts/a%2Fb/mint", "bank", `{"amount":"5.00"}`)
	if code != http.StatusOK {
		t.Fatalf("mint: status %d", code)
	}

	code, body := s.do(http.MethodPost, "/markets", "", `{"outcome1":"Up/Down","outcome2":"No 50%","description":"labels","sequence":1}`)
	if code != http.StatusCreated {
		t.Fatalf("create: status %d body %v", code, body)
	}

	id, _ := body["id"].(string)

	code, body = s.do(http.MethodPost, "/markets/"+id+"/deposits", "a/b", `{"outcome":"Up/Down","amount":"2.00"}`)
	if code != http.StatusOK {
		t.Fatalf("deposit: status %d body %v", code, body)
	}

	tests := []struct {
		name    string
		path    string
		outcome string
		want    string
	}{
		{"escaped slash", "/positions/Up%2FDown/a%2Fb", "Up/Down", "2.00"},
		{"escaped percent", "/positions/No%2050%25/a%2Fb", "No 50%", "0.00"},
	}

	for _, tt := range tests {
		code, body := s.do(http.MethodGet, "/markets/"+id+tt.path, "", "")
		if code != http.StatusOK {
			t.Fatalf("%s: status %d body %v", tt.name, code, body)
		}
		if body["outcome"] != tt.outcome || body["participant"] != "a/b" || body["balance"] != tt.want {
			t.Fatalf("%s: body %v", tt.name, body)
		}
	}

	code, body = s.do(http.MethodGet, "/accounts/a%2Fb/balance", "", "")
	if code != http.StatusOK || body["account"] != "a/b" || body["balance"] != "3.00" {
		t.Fatalf("balance: status %d body %v", code, body)
	}
}
