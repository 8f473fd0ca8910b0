package sms

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"geofence-bknd/internal/apperr"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// TwilioOptions configures the Twilio client.
type TwilioOptions struct {
	AccountSID string
	AuthToken  string
	BaseURL    string // defaults to https://api.twilio.com
	RatePerSec float64
	Timeout    time.Duration
}

// Twilio implements Sender against the Twilio Messages REST API.
type Twilio struct {
	opts       TwilioOptions
	httpClient *http.Client
	limiter    *rate.Limiter
}

func NewTwilio(opts TwilioOptions) *Twilio {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://api.twilio.com"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	limit := rate.Inf
	if opts.RatePerSec > 0 {
		limit = rate.Limit(opts.RatePerSec)
	}
	return &Twilio{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(limit, 1),
	}
}

type twilioError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (t *Twilio) Send(ctx context.Context, from, to, body string) error {
	if t.opts.AccountSID == "" || t.opts.AuthToken == "" {
		return apperr.ExternalProvider(eris.New("twilio credentials not configured"), "sms provider unavailable")
	}
	if err := t.limiter.Wait(ctx); err != nil {
		return eris.Wrap(err, "sms: rate limiter")
	}

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json",
		strings.TrimRight(t.opts.BaseURL, "/"), url.PathEscape(t.opts.AccountSID))

	form := url.Values{}
	form.Set("From", from)
	form.Set("To", to)
	form.Set("Body", body)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return eris.Wrap(err, "sms: create request")
	}
	req.SetBasicAuth(t.opts.AccountSID, t.opts.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return apperr.ExternalProvider(err, "sms request failed")
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	var te twilioError
	_ = json.NewDecoder(io.LimitReader(resp.Body, 64<<10)).Decode(&te)
	return apperr.ExternalProvider(
		eris.Errorf("twilio returned HTTP %d (code %d): %s", resp.StatusCode, te.Code, te.Message),
		"sms rejected by provider",
	)
}
