package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/lead-webhook/internal/queue"
	"github.com/tbourn/lead-webhook/internal/services"
)

type fakeProcessor struct {
	bodies [][]byte
	err    error
}

func (p *fakeProcessor) Process(_ context.Context, body []byte) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

func serveWorker(p TaskProcessor, secret, header, body string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/worker", New(nil, p, secret).Worker)

	req := httptest.NewRequest(http.MethodPost, "/worker", strings.NewReader(body))
	if header != "" {
		req.Header.Set(queue.SecretHeader, header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestWorker_Auth(t *testing.T) {
	p := &fakeProcessor{}
	body := `{"identifier":"+5511987654321","parameters":{"destino_cruzeiro":"Caribe"}}`

	if w := serveWorker(p, "", "anything", body); w.Code != http.StatusServiceUnavailable {
		t.Fatalf("no secret configured: %d", w.Code)
	}
	if w := serveWorker(p, "s3cret", "", body); w.Code != http.StatusUnauthorized || w.Body.String() != "Unauthorized" {
		t.Fatalf("missing header: %d %q", w.Code, w.Body.String())
	}
	if w := serveWorker(p, "s3cret", "s3cret-not", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong header: %d", w.Code)
	}
	if len(p.bodies) != 0 {
		t.Fatal("processor ran for an unauthenticated request")
	}

	w := serveWorker(p, "s3cret", "s3cret", body)
	if w.Code != http.StatusOK || w.Body.String() != "OK" {
		t.Fatalf("authorized: %d %q", w.Code, w.Body.String())
	}
	if len(p.bodies) != 1 || string(p.bodies[0]) != body {
		t.Fatalf("bodies=%q", p.bodies)
	}
}

func TestWorker_Errors(t *testing.T) {
	cases := []struct {
		name string
		body string
		err  error
		want int
	}{
		{"empty body", "", nil, http.StatusBadRequest},
		{"bad payload", "{", fmt.Errorf("%w: eof", services.ErrBadPayload), http.StatusBadRequest},
		{"other", "{}", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := serveWorker(&fakeProcessor{err: tc.err}, "k", "k", tc.body)
			if w.Code != tc.want {
				t.Fatalf("status=%d want %d", w.Code, tc.want)
			}
			if strings.HasPrefix(w.Body.String(), "{") {
				t.Fatalf("worker replies must be plain text: %q", w.Body.String())
			}
		})
	}
}

func TestSecretMatches(t *testing.T) {
	if !SecretMatches("abc", "abc") || SecretMatches("abc", "abd") || SecretMatches("", "abc") {
		t.Fatal("SecretMatches wrong")
	}
}
