package apperr

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestClassifyNeverLeaksUpstreamText(t *testing.T) {
	secret := "x api status 401: {\"errors\":[{\"code\":89,\"message\":\"Invalid or expired token.\"}]}"
	kinds := []Kind{KindInternal, KindClientInput, KindMissingVerifier, KindSessionState, KindUserDenied,
		KindCallbackNotConfirmed, KindUnauthorized, KindNoCredential, KindNotFound, KindTransient}
	for _, k := range kinds {
		out := Classify(E(k, "op", errors.New(secret)))
		if strings.Contains(out.Message, "expired") || strings.Contains(out.Message, "89") {
			t.Fatalf("%v leaked upstream text: %q", k, out.Message)
		}
		if out.Status == 0 || out.Code == "" {
			t.Fatalf("%v produced empty outcome", k)
		}
	}
}

func TestClassifyStatuses(t *testing.T) {
	cases := map[Kind]int{
		KindClientInput:          http.StatusBadRequest,
		KindUnauthorized:         http.StatusUnauthorized,
		KindNotFound:             http.StatusNotFound,
		KindSessionState:         http.StatusInternalServerError,
		KindTransient:            http.StatusBadGateway,
		KindCallbackNotConfirmed: http.StatusBadGateway,
	}
	for k, want := range cases {
		if got := Classify(E(k, "op", nil)).Status; got != want {
			t.Fatalf("%v: got %d want %d", k, got, want)
		}
	}
	if Classify(context.DeadlineExceeded).Status != http.StatusInternalServerError {
		t.Fatalf("bare errors should classify as internal")
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("edition: %w", E(KindNotFound, "xclient.user_timeline", nil))
	if KindOf(err) != KindNotFound || OpOf(err) != "xclient.user_timeline" {
		t.Fatalf("lost kind through wrap: %v", err)
	}
	if !Is(err, KindNotFound) || Is(nil, KindInternal) {
		t.Fatalf("Is mismatch")
	}
}

func TestSessionStateMessageAsksToRestart(t *testing.T) {
	out := Classify(E(KindSessionState, "oauth.complete", nil))
	if !strings.Contains(out.Message, "start the subscription again") {
		t.Fatalf("unexpected message %q", out.Message)
	}
}
