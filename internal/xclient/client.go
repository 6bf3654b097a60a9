// Package xclient talks to the Twitter v1.1 API on behalf of the app and its subscribers.
package xclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"besttweets/internal/apperr"
	"besttweets/internal/metrics"
	"besttweets/internal/model"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.twitter.com"

// MaxTimelineCount is the most items user_timeline returns in one call.
const MaxTimelineCount = 200

// Config holds the app credentials and transport limits.
type Config struct {
	BaseURL        string
	ConsumerKey    string
	ConsumerSecret string
	Timeout        time.Duration
	RPS            float64
	Burst          int
}

// Client signs every call with the app's consumer credentials and, where given,
// a user's token. It makes exactly one attempt per call.
type Client struct {
	baseURL        string
	consumerKey    string
	consumerSecret string
	httpClient     *http.Client
	limiter        *rate.Limiter
	logger         *zap.Logger
	nowFn          func() time.Time
	nonceFn        func() string
}

func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:        strings.TrimRight(cfg.BaseURL, "/"),
		consumerKey:    cfg.ConsumerKey,
		consumerSecret: cfg.ConsumerSecret,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        newLimiter(cfg.RPS, cfg.Burst),
		logger:         logger,
		nowFn:          time.Now,
		nonceFn:        func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}
}

// RequestToken performs the first leg: it obtains a temporary token bound to callbackURL.
func (c *Client) RequestToken(ctx context.Context, callbackURL string) (model.RequestToken, error) {
	const op = "oauth.request_token"
	var out model.RequestToken
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/request_token", nil)
	if err != nil {
		return out, apperr.E(apperr.KindInternal, op, err)
	}
	c.oauth1Sign(req, nil, map[string]string{"oauth_callback": callbackURL}, "", "")
	vals, err := c.doForm(ctx, op, req, oauthKind)
	if err != nil {
		return out, err
	}
	out = model.RequestToken{
		Token:             vals.Get("oauth_token"),
		Secret:            vals.Get("oauth_token_secret"),
		CallbackConfirmed: vals.Get("oauth_callback_confirmed") == "true",
	}
	if out.Token == "" || out.Secret == "" {
		return out, apperr.E(apperr.KindTransient, op, errors.New("response missing oauth_token"))
	}
	return out, nil
}

// AuthorizeURL is where the user is sent to approve the app.
func (c *Client) AuthorizeURL(requestToken string) string {
	return c.baseURL + "/oauth/authorize?oauth_token=" + url.QueryEscape(requestToken)
}

// AccessToken exchanges an approved request token and its verifier for a user credential.
func (c *Client) AccessToken(ctx context.Context, rt model.RequestToken, verifier string) (model.Credential, error) {
	const op = "oauth.access_token"
	var out model.Credential
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/oauth/access_token", nil)
	if err != nil {
		return out, apperr.E(apperr.KindInternal, op, err)
	}
	c.oauth1Sign(req, nil, map[string]string{"oauth_verifier": verifier}, rt.Token, rt.Secret)
	vals, err := c.doForm(ctx, op, req, oauthKind)
	if err != nil {
		return out, err
	}
	out = model.Credential{Token: vals.Get("oauth_token"), Secret: vals.Get("oauth_token_secret")}
	if !out.Valid() {
		return model.Credential{}, apperr.E(apperr.KindUnauthorized, op, errors.New("no access token in response"))
	}
	return out, nil
}

// VerifyCredentials returns the account that owns cred.
func (c *Client) VerifyCredentials(ctx context.Context, cred model.Credential) (model.Author, error) {
	const op = "oauth.verify_credentials"
	params := map[string]string{"include_entities": "false", "skip_status": "true"}
	var raw rawUser
	if err := c.getJSON(ctx, op, "/1.1/account/verify_credentials.json", params, cred, oauthKind, &raw); err != nil {
		return model.Author{}, err
	}
	if raw.IDStr == "" {
		return model.Author{}, apperr.E(apperr.KindTransient, op, errors.New("response missing id_str"))
	}
	return raw.author(), nil
}

// UserTimeline returns up to count of the user's own posts, newest first. Retweets are excluded.
func (c *Client) UserTimeline(ctx context.Context, cred model.Credential, userID string, count int) ([]model.ActivityItem, error) {
	const op = "xclient.user_timeline"
	params := map[string]string{
		"user_id":         userID,
		"count":           strconv.Itoa(clamp(count, 1, MaxTimelineCount)),
		"exclude_replies": "false",
		"trim_user":       "false",
		"include_rts":     "false",
	}
	var raw []struct {
		IDStr         string  `json:"id_str"`
		CreatedAt     string  `json:"created_at"`
		Text          string  `json:"text"`
		FullText      string  `json:"full_text"`
		FavoriteCount int     `json:"favorite_count"`
		RetweetCount  int     `json:"retweet_count"`
		User          rawUser `json:"user"`
	}
	if err := c.getJSON(ctx, op, "/1.1/statuses/user_timeline.json", params, cred, resourceKind, &raw); err != nil {
		return nil, err
	}
	out := make([]model.ActivityItem, 0, len(raw))
	for _, t := range raw {
		// Parse example: Mon Jan 2 15:04:05 -0700 2006
		ts, err := time.Parse(time.RubyDate, t.CreatedAt)
		if err != nil {
			return nil, apperr.E(apperr.KindTransient, op, fmt.Errorf("created_at %q: %w", t.CreatedAt, err))
		}
		text := t.FullText
		if text == "" {
			text = t.Text
		}
		out = append(out, model.ActivityItem{
			ID:            t.IDStr,
			Text:          text,
			CreatedAt:     ts,
			FavoriteCount: t.FavoriteCount,
			RetweetCount:  t.RetweetCount,
			Author:        t.User.author(),
		})
	}
	return out, nil
}

type rawUser struct {
	IDStr                string `json:"id_str"`
	ScreenName           string `json:"screen_name"`
	Name                 string `json:"name"`
	ProfileImageURL      string `json:"profile_image_url"`
	ProfileImageURLHTTPS string `json:"profile_image_url_https"`
}

func (u rawUser) author() model.Author {
	img := u.ProfileImageURLHTTPS
	if img == "" {
		img = u.ProfileImageURL
	}
	return model.Author{ID: u.IDStr, ScreenName: u.ScreenName, Name: u.Name, ProfileImageURL: img}
}

// oauthKind classifies failures of the token endpoints: only a rejection is an auth failure.
func oauthKind(status int) apperr.Kind {
	if status == http.StatusUnauthorized {
		return apperr.KindUnauthorized
	}
	return apperr.KindTransient
}

// resourceKind classifies failures of data endpoints.
func resourceKind(status int) apperr.Kind {
	switch status {
	case http.StatusUnauthorized:
		return apperr.KindUnauthorized
	case http.StatusNotFound:
		return apperr.KindNotFound
	default:
		return apperr.KindTransient
	}
}

func (c *Client) getJSON(ctx context.Context, op, path string, params map[string]string, cred model.Credential, kind func(int) apperr.Kind, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+encodeQuery(params), nil)
	if err != nil {
		return apperr.E(apperr.KindInternal, op, err)
	}
	c.oauth1Sign(req, params, nil, cred.Token, cred.Secret)
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(ctx, op, req, kind)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return apperr.E(apperr.KindTransient, op, fmt.Errorf("decode: %w", err))
	}
	return nil
}

func (c *Client) doForm(ctx context.Context, op string, req *http.Request, kind func(int) apperr.Kind) (url.Values, error) {
	resp, err := c.do(ctx, op, req, kind)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return nil, apperr.E(apperr.KindTransient, op, err)
	}
	vals, err := url.ParseQuery(string(b))
	if err != nil {
		return nil, apperr.E(apperr.KindTransient, op, fmt.Errorf("parse form: %w", err))
	}
	return vals, nil
}

// do sends req once. Any status >= 400 is turned into a kinded error; the body is kept
// on the error for logs.
func (c *Client) do(ctx context.Context, op string, req *http.Request, kind func(int) apperr.Kind) (*http.Response, error) {
	start := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.ObserveUpstream(op, "error", start)
		return nil, apperr.E(apperr.KindTransient, op, err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveUpstream(op, "error", start)
		c.logger.Warn("upstream call failed", zap.String("op", op), zap.Error(err))
		return nil, apperr.E(apperr.KindTransient, op, err)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		_ = resp.Body.Close()
		metrics.ObserveUpstream(op, strconv.Itoa(resp.StatusCode), start)
		k := kind(resp.StatusCode)
		c.logger.Warn("upstream rejected call", zap.String("op", op), zap.Int("status", resp.StatusCode), zap.Stringer("kind", k))
		return nil, apperr.E(k, op, fmt.Errorf("x api status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
	metrics.ObserveUpstream(op, "ok", start)
	return resp, nil
}

func clamp(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
