// Package oauthflow drives the three-legged OAuth 1.0a subscription handshake.
package oauthflow

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"besttweets/internal/apperr"
	"besttweets/internal/metrics"
	"besttweets/internal/model"
	"besttweets/internal/session"
	"besttweets/internal/store"
)

// Upstream is the subset of the API client the handshake needs.
type Upstream interface {
	RequestToken(ctx context.Context, callbackURL string) (model.RequestToken, error)
	AuthorizeURL(requestToken string) string
	AccessToken(ctx context.Context, rt model.RequestToken, verifier string) (model.Credential, error)
	VerifyCredentials(ctx context.Context, cred model.Credential) (model.Author, error)
}

// Callback is what upstream sends back to /return/.
type Callback struct {
	Verifier string
	Denied   bool
}

// Controller owns no per-user state; everything pending lives in the session.State it is handed.
type Controller struct {
	upstream Upstream
	tokens   store.TokenStore
	log      *zap.Logger
}

func NewController(upstream Upstream, tokens store.TokenStore, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{upstream: upstream, tokens: tokens, log: log}
}

// BeginAuthorization obtains a request token bound to callbackURL, records the pending
// authorization on st and returns the upstream URL the user must visit.
func (c *Controller) BeginAuthorization(ctx context.Context, st *session.State, returnURL, callbackURL string) (string, error) {
	const op = "oauthflow.begin"
	if strings.TrimSpace(returnURL) == "" {
		return "", apperr.E(apperr.KindClientInput, op, errors.New("return_url is required"))
	}
	if st == nil {
		return "", apperr.E(apperr.KindInternal, op, errors.New("nil session state"))
	}
	rt, err := c.upstream.RequestToken(ctx, callbackURL)
	if err != nil {
		c.fail("begin", err)
		return "", err
	}
	if !rt.CallbackConfirmed {
		err := apperr.E(apperr.KindCallbackNotConfirmed, "oauth.request_token", errors.New("oauth_callback_confirmed not true"))
		c.fail("begin", err)
		return "", err
	}
	st.Pending = &model.PendingAuthorization{
		ReturnURL:     returnURL,
		RequestToken:  rt.Token,
		RequestSecret: rt.Secret,
	}
	metrics.IncAuthorization("started")
	return c.upstream.AuthorizeURL(rt.Token), nil
}

// CompleteAuthorization exchanges the verifier for an access credential, resolves the
// identity it belongs to and stores the credential under it. The pending authorization
// is cleared whatever the outcome.
func (c *Controller) CompleteAuthorization(ctx context.Context, st *session.State, cb Callback) (redirect string, err error) {
	const op = "oauthflow.complete"
	if st == nil {
		st = &session.State{}
	}
	pending := st.Pending
	st.Pending = nil
	defer func() {
		if err != nil {
			c.fail("complete", err)
		}
	}()

	if cb.Denied {
		return "", apperr.E(apperr.KindUserDenied, op, errors.New("user denied access"))
	}
	if cb.Verifier == "" {
		return "", apperr.E(apperr.KindMissingVerifier, op, errors.New("oauth_verifier missing"))
	}
	if pending == nil {
		return "", apperr.E(apperr.KindSessionState, op, errors.New("no pending authorization in session"))
	}

	rt := model.RequestToken{Token: pending.RequestToken, Secret: pending.RequestSecret}
	cred, err := c.upstream.AccessToken(ctx, rt, cb.Verifier)
	if err != nil {
		return "", err
	}
	who, err := c.upstream.VerifyCredentials(ctx, cred)
	if err != nil {
		return "", err
	}
	id := model.Identity(who.ID)
	if err := c.tokens.Put(ctx, id, cred); err != nil {
		return "", apperr.E(apperr.KindInternal, "store.put", err)
	}
	metrics.IncAuthorization("completed")
	c.log.Info("subscriber authorized", zap.String("identity", string(id)), zap.String("handle", who.ScreenName))
	return ReturnURL(pending.ReturnURL, string(id)), nil
}

// ReturnURL appends the correlation value the publication platform will send back on
// every edition request.
func ReturnURL(base, identity string) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "config[access_token]=" + identity
}

func (c *Controller) fail(stage string, err error) {
	kind := apperr.KindOf(err)
	metrics.IncAuthorization(kind.String())
	c.log.Warn("authorization failed",
		zap.String("stage", stage),
		zap.String("op", apperr.OpOf(err)),
		zap.Stringer("kind", kind),
		zap.Error(err))
}
