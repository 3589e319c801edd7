package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "trove/internal/platform/errors"
	tnet "trove/internal/platform/net"
	phttp "trove/internal/platform/net/http"
)

// helper to build a request with a request id in context
func reqWithReqID(method, path, rid string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(tnet.WithRequest(req.Context(), rid))
}

func TestJSONHelper(t *testing.T) {
	rec := httptest.NewRecorder()
	phttp.JSON(rec, http.StatusTeapot, map[string]any{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Fatalf("JSON status: expected 418, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected content-type set")
	}
}

func TestRespondOK(t *testing.T) {
	rec := httptest.NewRecorder()
	req := reqWithReqID("GET", "/x", "rid-1")
	phttp.RespondOK(rec, req, map[string]string{"a": "b"})
	if rec.Code != http.StatusOK {
		t.Fatalf("RespondOK code: %d", rec.Code)
	}
	var env phttp.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	if env.StatusCode != 200 || env.RequestID != "rid-1" || env.Data == nil {
		t.Fatalf("bad envelope: %+v", env)
	}
}

func TestRespondErrorMapsCodes(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{perr.NotFoundf("gone"), http.StatusNotFound},
		{perr.Validationf("bad input"), http.StatusBadRequest},
		{perr.MalformedArchivef("junk"), http.StatusBadRequest},
		{perr.Conflictf("exists"), http.StatusConflict},
		{perr.Upstreamf("github down"), http.StatusServiceUnavailable},
		{perr.UpstreamParsef("weird json"), http.StatusBadGateway},
		{perr.DBf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		req := reqWithReqID("GET", "/x", "rid-2")
		phttp.RespondError(rec, req, tc.err)
		if rec.Code != tc.status {
			t.Fatalf("error %v: status %d, want %d", tc.err, rec.Code, tc.status)
		}
		var env phttp.Envelope
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
		if env.Error == "" || env.Code == 0 {
			t.Fatalf("error envelope missing code or message: %+v", env)
		}
	}
}

func TestResponseHelpers(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		switch r.URL.Path {
		case "/created":
			return phttp.Created(map[string]int{"id": 7})
		case "/nocontent":
			return phttp.NoContent()
		case "/err":
			return phttp.Error(perr.NotFoundf("nope"))
		default:
			return phttp.OK("hi")
		}
	})

	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/created", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("Created code: %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/nocontent", nil))
	if rec.Code != http.StatusNoContent || rec.Body.Len() != 0 {
		t.Fatalf("NoContent should write nothing, code %d body %q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	h(rec, httptest.NewRequest("GET", "/err", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Error code: %d", rec.Code)
	}
}

func TestListEnvelope(t *testing.T) {
	h := phttp.Handle(func(r *http.Request) phttp.Response {
		return phttp.List([]int{1, 2, 3}, 2, 10)
	})
	rec := httptest.NewRecorder()
	h(rec, reqWithReqID("GET", "/list", "rid-3"))
	if rec.Code != http.StatusOK {
		t.Fatalf("List code: %d", rec.Code)
	}
	var env struct {
		Data struct {
			Items []int      `json:"items"`
			Page  phttp.Page `json:"page"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(env.Data.Items) != 3 || env.Data.Page.Page != 2 || env.Data.Page.PageSize != 10 {
		t.Fatalf("bad list envelope: %+v", env)
	}
}
