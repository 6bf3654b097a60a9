package apperr

import "net/http"

// Outcome is what a caller gets to see about a failure.
type Outcome struct {
	Status  int
	Code    string
	Title   string
	Message string
}

// Classify maps any error onto one Outcome. The wrapped error text is never part of it.
func Classify(err error) Outcome {
	switch KindOf(err) {
	case KindClientInput:
		return Outcome{http.StatusBadRequest, "bad_request", "Bad request",
			"The request was missing a required parameter."}
	case KindMissingVerifier:
		return Outcome{http.StatusBadRequest, "bad_request", "Bad request",
			"Twitter did not send back a verifier, so we could not finish connecting your account."}
	case KindUserDenied:
		return Outcome{http.StatusForbidden, "denied", "Not connected",
			"You chose not to authorise with Twitter. No problem: you can subscribe again at any time."}
	case KindUnauthorized:
		return Outcome{http.StatusUnauthorized, "auth_failed", "Oops…",
			"We tried to fetch your best Tweets but this app is no longer authorised to access your account. " +
				"Unsubscribe from the publication and subscribe again to receive Tweets."}
	case KindNoCredential:
		return Outcome{http.StatusUnauthorized, "auth_failed", "Oops…",
			"We don't have an authorised Twitter account for this subscription. Please subscribe again."}
	case KindNotFound:
		return Outcome{http.StatusNotFound, "not_found", "Not found",
			"That Twitter account could not be found."}
	case KindSessionState:
		return Outcome{http.StatusInternalServerError, "missing_flow_state", "Please start again",
			"A cookie was expected, but was missing. Are cookies enabled? " +
				"Please go back to the publication's page and start the subscription again."}
	case KindCallbackNotConfirmed, KindTransient:
		return Outcome{http.StatusBadGateway, "upstream_failure", "Twitter trouble",
			"Something went wrong while talking to Twitter. Please try again later."}
	default:
		return Outcome{http.StatusInternalServerError, "internal", "Error",
			"Something went wrong on our side."}
	}
}
