package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorIs(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(ErrUpstreamUnavailable, "the music service is temporarily unavailable", cause)

	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Error("errors.Is should match the kind")
	}
	if errors.Is(err, ErrAuthExpired) {
		t.Error("errors.Is should not match other kinds")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should see through to the cause")
	}
}

func TestErrorIsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("searching tracks: %w", New(ErrAuthExpired, "session expired"))

	if !errors.Is(err, ErrAuthExpired) {
		t.Error("kind should survive fmt.Errorf wrapping")
	}
}

func TestMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "taxonomy error with message",
			err:  New(ErrInvalidInput, "describe your mood or upload an image"),
			want: "describe your mood or upload an image",
		},
		{
			name: "taxonomy error without message falls back to kind",
			err:  &Error{Kind: ErrAuthExchange},
			want: "authorization exchange failed",
		},
		{
			name: "wrapped taxonomy error",
			err:  fmt.Errorf("handling request: %w", New(ErrAuthExpired, "please log in again")),
			want: "please log in again",
		},
		{
			name: "unclassified error stays generic",
			err:  errors.New("pq: relation does not exist"),
			want: "something went wrong",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Message(tt.err); got != tt.want {
				t.Errorf("Message() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestErrorString(t *testing.T) {
	err := Wrap(ErrUpstreamAnalysis, "analysis rejected the request", errors.New("status 422"))
	want := "analysis rejected the request: status 422"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}
