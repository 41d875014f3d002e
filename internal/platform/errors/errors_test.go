package errors

import (
	stderrs "errors"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeTooLarge, http.StatusRequestEntityTooLarge},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeNetwork, http.StatusBadGateway},
		{ErrorCodeService, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad input")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeService, "service said %d", 500)
	if got := e2.Error(); got != "service said 500" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("connection refused")
	e3 := Wrap(src, ErrorCodeNetwork, "post failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "connection refused" {
		t.Fatalf("Wrap did not keep orig")
	}
	if CodeOf(e3) != ErrorCodeNetwork {
		t.Fatalf("CodeOf(Wrap) = %v", CodeOf(e3))
	}
	if got := e3.Error(); got != "post failed: connection refused" {
		t.Fatalf("wrapped render = %q", got)
	}

	if Root(e3).Error() != "connection refused" {
		t.Fatalf("Root = %q", Root(e3).Error())
	}

	if WrapIf(nil, ErrorCodeNetwork, "x") != nil {
		t.Fatalf("WrapIf(nil) should be nil")
	}
	if WrapIf(src, ErrorCodeNetwork, "x") == nil {
		t.Fatalf("WrapIf(err) should wrap")
	}
}

func TestWithOp(t *testing.T) {
	e := New(ErrorCodeConflict, "busy")
	tagged := WithOp(e, "submit")
	te, ok := As(tagged)
	if !ok || te.Op() != "submit" {
		t.Fatalf("WithOp not applied: %+v", tagged)
	}
	// original untouched (copy-on-write)
	oe, _ := As(e)
	if oe.Op() != "" {
		t.Fatalf("WithOp mutated original")
	}
	// foreign error passes through
	foreign := stderrs.New("plain")
	if WithOp(foreign, "x") != foreign {
		t.Fatalf("WithOp should pass foreign errors through")
	}
}

func TestDetailFrom(t *testing.T) {
	if d := DetailFrom(nil); d.Detail != "" {
		t.Fatalf("DetailFrom(nil) = %+v", d)
	}
	d := DetailFrom(Validationf("extension not allowed: %s", ".txt"))
	if d.Detail != "extension not allowed: .txt" {
		t.Fatalf("DetailFrom = %q", d.Detail)
	}
	// message stays bare even with a wrapped cause
	d = DetailFrom(Wrap(stderrs.New("inner"), ErrorCodeUnknown, "outer"))
	if d.Detail != "outer" {
		t.Fatalf("DetailFrom wrapped = %q", d.Detail)
	}
	// foreign errors fall back to Error()
	d = DetailFrom(stderrs.New("plain"))
	if d.Detail != "plain" {
		t.Fatalf("DetailFrom foreign = %q", d.Detail)
	}
}

func TestHTTPBundle(t *testing.T) {
	status, d := HTTP(nil)
	if status != http.StatusOK || d.Detail != "" {
		t.Fatalf("HTTP(nil) = %d %+v", status, d)
	}
	status, d = HTTP(TooLargef("file too large"))
	if status != http.StatusRequestEntityTooLarge || d.Detail != "file too large" {
		t.Fatalf("HTTP(too large) = %d %+v", status, d)
	}
}

func TestIsCodeAndSugar(t *testing.T) {
	cases := []struct {
		err  error
		code ErrorCode
	}{
		{NotFoundf("x"), ErrorCodeNotFound},
		{InvalidArgf("x"), ErrorCodeInvalidArgument},
		{Validationf("x"), ErrorCodeValidation},
		{TooLargef("x"), ErrorCodeTooLarge},
		{Conflictf("x"), ErrorCodeConflict},
		{TooManyRequestsf("x"), ErrorCodeTooManyRequests},
		{Networkf("x"), ErrorCodeNetwork},
		{Servicef("x"), ErrorCodeService},
		{PanicErrf("x"), ErrorCodePanic},
		{Internalf("x"), ErrorCodeUnknown},
	}
	for _, c := range cases {
		if !IsCode(c.err, c.code) {
			t.Fatalf("IsCode(%v, %v) = false", c.err, c.code)
		}
	}
	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}
