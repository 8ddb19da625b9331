package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/m-mizutani/goerr/v2"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/provider"
	"github.com/goliatone/go-formwizard/pkg/submit"
	"github.com/goliatone/go-formwizard/pkg/testsupport"
	"github.com/goliatone/go-formwizard/pkg/validation"
	"github.com/goliatone/go-formwizard/pkg/wizard"
)

type authFunc func(ctx context.Context, identity provider.Identity) error

func (f authFunc) Login(ctx context.Context, identity provider.Identity) error {
	return f(ctx, identity)
}

type harness struct {
	t      *testing.T
	srv    *Server
	http   *httptest.Server
	client *http.Client
}

func newHarness(t *testing.T, p provider.Provider, opts ...Option) *harness {
	t.Helper()
	srv, err := New(p, opts...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv)
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar: %v", err)
	}
	return &harness{t: t, srv: srv, http: ts, client: &http.Client{Jar: jar}}
}

func (h *harness) do(req *http.Request) (int, string) {
	h.t.Helper()
	resp, err := h.client.Do(req)
	if err != nil {
		h.t.Fatalf("%s %s: %v", req.Method, req.URL, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		h.t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func (h *harness) get(path string) (int, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodGet, h.http.URL+path, nil)
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	return h.do(req)
}

func (h *harness) post(path string, form url.Values) (int, string) {
	h.t.Helper()
	req, err := http.NewRequest(http.MethodPost, h.http.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		h.t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return h.do(req)
}

func (h *harness) login() string {
	h.t.Helper()
	status, body := h.post(loginPath, url.Values{"rollNumber": {"42"}, "name": {"Ada"}})
	if status != http.StatusOK {
		h.t.Fatalf("login status %d:\n%s", status, body)
	}
	return body
}

func mustContain(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("response missing %q\n%s", fragment, body)
		}
	}
}

func mustNotContain(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(body, fragment) {
			t.Fatalf("response unexpectedly contains %q\n%s", fragment, body)
		}
	}
}

func TestServer_LoginPage(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()), WithTitle("Student portal"))

	status, body := h.get("/")
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, `data-testid="login-title">Student portal</h1>`, `action="/login"`)

	// the form redirects home without a session
	status, body = h.get(formPath)
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, `data-testid="login-title"`)
}

func TestServer_LoginRequiresIdentity(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))

	status, body := h.post(loginPath, url.Values{"rollNumber": {"42"}, "name": {"  "}})
	if status != http.StatusUnprocessableEntity {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, MissingIdentityMessage, `value="42"`)
	if h.srv.sessions.len() != 0 {
		t.Fatalf("session created for invalid identity")
	}
}

func TestServer_LoginRejected(t *testing.T) {
	var seen provider.Identity
	auth := authFunc(func(_ context.Context, identity provider.Identity) error {
		seen = identity
		return goerr.Wrap(provider.ErrFetch, "upstream down")
	})
	h := newHarness(t, provider.Static(testsupport.SignupForm()), WithAuthenticator(auth))

	status, body := h.post(loginPath, url.Values{"rollNumber": {" 42 "}, "name": {"Ada"}})
	if status != http.StatusBadGateway {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, LoginFailedMessage)
	if diff := cmp.Diff(provider.Identity{RollNumber: "42", Name: "Ada"}, seen); diff != "" {
		t.Fatalf("identity (-want +got):\n%s", diff)
	}
	if h.srv.sessions.len() != 0 {
		t.Fatalf("session created for rejected login")
	}
}

func TestServer_TwoSectionFlow(t *testing.T) {
	sink := &submit.Recorder{}
	h := newHarness(t, provider.Static(testsupport.SignupForm()), WithSink(sink))

	body := h.login()
	mustContain(t, body,
		`data-testid="form-title">Student Signup</h1>`,
		"Welcome, Ada | Roll Number: 42",
		`<input type="hidden" name="section" value="0">`,
	)

	// too short: stays on the first section with the error rendered
	_, body = h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"A"}, "email": {""}})
	mustContain(t, body, validation.MinLengthMessage(2), `value="A"`, `name="section" value="0"`)

	_, body = h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"Ada"}, "email": {"ada@example.com"}})
	mustContain(t, body, `name="section" value="1"`, "Submit Form")
	mustNotContain(t, body, validation.MinLengthMessage(2))

	// missing track and unchecked terms
	_, body = h.post(formPath, url.Values{"section": {"1"}, "action": {"submit"}, "track": {""}})
	mustContain(t, body, validation.DefaultRequiredMessage)
	if len(sink.Submissions()) != 0 {
		t.Fatalf("invalid section reached the sink")
	}

	_, body = h.post(formPath, url.Values{"section": {"1"}, "action": {"submit"}, "track": {"backend"}, "terms": {"on"}})
	mustContain(t, body, wizard.SubmittedMessage, `data-testid="restart-button"`)

	want := []model.FormValues{{"name": "Ada", "email": "ada@example.com", "track": "backend", "terms": true}}
	if diff := cmp.Diff(want, sink.Submissions()); diff != "" {
		t.Fatalf("submissions (-want +got):\n%s", diff)
	}

	// the notice is shown once
	_, body = h.get(formPath)
	mustNotContain(t, body, wizard.SubmittedMessage)

	_, body = h.post(formPath, url.Values{"action": {"restart"}})
	mustContain(t, body, `name="section" value="0"`, "About you")
	mustNotContain(t, body, `value="Ada"`)
}

func TestServer_PreviousKeepsPostedValues(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))
	h.login()

	h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"Grace"}})
	_, body := h.post(formPath, url.Values{"section": {"1"}, "action": {"previous"}, "track": {"frontend"}})
	mustContain(t, body, `name="section" value="0"`, `value="Grace"`)

	_, body = h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"Grace"}})
	mustContain(t, body, `selected>Frontend</option>`)
}

func TestServer_StalePostIgnored(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))
	h.login()
	h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"Grace"}})

	// a second tab still showing section 0
	_, body := h.post(formPath, url.Values{"section": {"0"}, "action": {"next"}, "name": {"Bob"}})
	mustContain(t, body, `name="section" value="1"`)

	_, body = h.post(formPath, url.Values{"section": {"1"}, "action": {"previous"}})
	mustContain(t, body, `value="Grace"`)
}

func TestServer_LoadFailureAndRetry(t *testing.T) {
	calls := 0
	p := provider.Func(func(context.Context, provider.Identity) (*model.FormSchema, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		form := testsupport.SignupForm()
		return &form, nil
	})
	h := newHarness(t, p)

	body := h.login()
	mustContain(t, body, wizard.LoadFailedMessage, `data-testid="retry-button"`)

	_, body = h.post(formPath, url.Values{"action": {"retry"}})
	mustContain(t, body, "About you")
	if calls != 2 {
		t.Fatalf("expected two fetches, got %d", calls)
	}

	// retry outside LoadFailed is a conflict
	status, _ := h.post(formPath, url.Values{"action": {"retry"}})
	if status != http.StatusConflict {
		t.Fatalf("status %d", status)
	}
}

func TestServer_SinkFailure(t *testing.T) {
	form := model.FormSchema{
		Title: "One",
		Sections: []model.Section{{
			SectionID: "s",
			Title:     "Only",
			Fields:    []model.Field{{FieldID: "agree", Type: model.FieldTypeCheckbox, Label: "Agree"}},
		}},
	}
	sink := submit.Func(func(context.Context, model.FormValues) error {
		return errors.New("gateway timeout")
	})
	h := newHarness(t, provider.Static(form), WithSink(sink))
	h.login()

	status, body := h.post(formPath, url.Values{"section": {"0"}, "action": {"submit"}, "agree": {"on"}})
	if status != http.StatusOK {
		t.Fatalf("status %d", status)
	}
	mustContain(t, body, wizard.SubmitFailedMessage, `name="agree"`, "checked")
}

func TestServer_TextFormat(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))
	h.login()

	req, err := http.NewRequest(http.MethodGet, h.http.URL+formPath, nil)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	req.Header.Set("Accept", "text/plain")
	resp, err := h.client.Do(req)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get("Content-Type"); got != "text/plain; charset=utf-8" {
		t.Fatalf("content type %q", got)
	}
	raw, _ := io.ReadAll(resp.Body)
	mustContain(t, string(raw), "Step 1 of 2", "## About you", "Full name *:")

	_, body := h.get(formPath + "?format=text")
	mustContain(t, body, "Student Signup\n==============")

	status, _ := h.get(formPath + "?format=pdf")
	if status != http.StatusBadRequest {
		t.Fatalf("status %d", status)
	}
}

func TestServer_UnknownAction(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))
	h.login()

	status, _ := h.post(formPath, url.Values{"action": {"jump"}})
	if status != http.StatusBadRequest {
		t.Fatalf("status %d", status)
	}
}

func TestServer_Logout(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))
	h.login()
	if h.srv.sessions.len() != 1 {
		t.Fatalf("expected one session")
	}

	_, body := h.post(logoutPath, nil)
	mustContain(t, body, `data-testid="login-title"`)
	if h.srv.sessions.len() != 0 {
		t.Fatalf("session survived logout")
	}
}

func TestServer_Assets(t *testing.T) {
	h := newHarness(t, provider.Static(testsupport.SignupForm()))

	status, body := h.get("/assets/formwizard.css")
	if status != http.StatusOK || body == "" {
		t.Fatalf("stylesheet status %d", status)
	}
	status, _ = h.get("/healthz")
	if status != http.StatusNoContent {
		t.Fatalf("healthz status %d", status)
	}
}

func TestServer_BasePath(t *testing.T) {
	srv, err := New(provider.Static(testsupport.SignupForm()), WithBasePath("/signup/"))
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	defer srv.Close()
	mux := http.NewServeMux()
	mux.Handle("/signup/", http.StripPrefix("/signup", srv))
	ts := httptest.NewServer(mux)
	defer ts.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.PostForm(ts.URL+"/signup/login", url.Values{"rollNumber": {"42"}, "name": {"Ada"}})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.Request.URL.Path != "/signup/form" {
		t.Fatalf("landed on %s", resp.Request.URL.Path)
	}
	mustContain(t, string(body), `action="/signup/form"`)
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{goerr.Wrap(ErrUnknownAction, "x"), http.StatusBadRequest},
		{goerr.Wrap(wizard.ErrUnknownField, "x"), http.StatusBadRequest},
		{goerr.Wrap(wizard.ErrNotReady, "x"), http.StatusConflict},
		{wizard.ErrClosed, http.StatusGone},
		{&provider.FetchError{StatusCode: 500}, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := statusFor(tc.err); got != tc.want {
			t.Errorf("statusFor(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}
