package errors

import (
	"errors"
	"io/fs"
	"net/http"
	"testing"
)

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrStopwordsFileNotFound, http.StatusNotFound, "data/%s.txt", "klingon")
	if !errors.Is(err, ErrStopwordsFileNotFound) {
		t.Fatal("expected AppError to unwrap to its sentinel")
	}
	if got, want := err.Error(), "stopwords file not found: data/klingon.txt"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIOKeepsCause(t *testing.T) {
	err := IO("reading", "data/english.txt", fs.ErrPermission)
	if !errors.Is(err, ErrIO) {
		t.Error("expected ErrIO")
	}
	if !errors.Is(err, fs.ErrPermission) {
		t.Error("expected underlying cause to be preserved")
	}
}

func TestHTTPStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"app error wins", New(ErrInternal, http.StatusTeapot, "x"), http.StatusTeapot},
		{"not found", ErrStopwordsFileNotFound, http.StatusNotFound},
		{"invalid input", ErrInvalidInput, http.StatusBadRequest},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"corpus missing", ErrDataSourceUnavailable, http.StatusServiceUnavailable},
		{"timeout", ErrTimeout, http.StatusServiceUnavailable},
		{"io", IO("open", "x", fs.ErrClosed), http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusCode(tt.err); got != tt.want {
				t.Errorf("HTTPStatusCode() = %d, want %d", got, tt.want)
			}
		})
	}
}
