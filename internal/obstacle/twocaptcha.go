package obstacle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultTwoCaptchaURL = "https://2captcha.com"
	notReady             = "CAPCHA_NOT_READY"
)

var ErrPollExhausted = errors.New("captcha solving timed out")

// TwoCaptcha talks to the 2captcha in.php / res.php API.
type TwoCaptcha struct {
	apiKey   string
	baseURL  string
	client   *http.Client
	interval time.Duration
	attempts int
	sleep    Sleeper
}

type apiResponse struct {
	Status  int    `json:"status"`
	Request string `json:"request"`
}

func NewTwoCaptcha(apiKey, baseURL string, interval time.Duration, attempts int, sleep Sleeper) *TwoCaptcha {
	if baseURL == "" {
		baseURL = DefaultTwoCaptchaURL
	}
	return &TwoCaptcha{
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   &http.Client{Timeout: 15 * time.Second},
		interval: interval,
		attempts: attempts,
		sleep:    sleep,
	}
}

// Submit sends the challenge and returns the job id.
func (c *TwoCaptcha) Submit(ctx context.Context, siteKey, pageURL string) (string, error) {
	form := url.Values{
		"key":       {c.apiKey},
		"method":    {"userrecaptcha"},
		"googlekey": {siteKey},
		"pageurl":   {pageURL},
		"json":      {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/in.php", strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("2captcha submit: %w", err)
	}
	if res.Status != 1 {
		return "", fmt.Errorf("2captcha submit failed: %s", res.Request)
	}
	return res.Request, nil
}

// Poll checks once. ready is false while the solution is pending.
func (c *TwoCaptcha) Poll(ctx context.Context, id string) (token string, ready bool, err error) {
	q := url.Values{
		"key":    {c.apiKey},
		"action": {"get"},
		"id":     {id},
		"json":   {"1"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/res.php?"+q.Encode(), nil)
	if err != nil {
		return "", false, err
	}

	res, err := c.do(req)
	if err != nil {
		return "", false, fmt.Errorf("2captcha poll: %w", err)
	}
	switch {
	case res.Status == 1:
		return res.Request, true, nil
	case res.Request == notReady:
		return "", false, nil
	default:
		return "", false, fmt.Errorf("2captcha poll failed: %s", res.Request)
	}
}

// Solve submits and then polls at most attempts times, waiting interval
// before each poll.
func (c *TwoCaptcha) Solve(ctx context.Context, siteKey, pageURL string) (string, int, error) {
	id, err := c.Submit(ctx, siteKey, pageURL)
	if err != nil {
		return "", 0, err
	}
	log.Printf("🧩 Captcha submitted. ID: %s", id)

	for i := 1; i <= c.attempts; i++ {
		if err := c.sleep(ctx, c.interval); err != nil {
			return "", i - 1, err
		}
		token, ready, err := c.Poll(ctx, id)
		if err != nil {
			return "", i, err
		}
		if ready {
			return token, i, nil
		}
		log.Printf("   ⏳ Waiting for captcha solution... (%d/%d)", i, c.attempts)
	}
	return "", c.attempts, ErrPollExhausted
}

func (c *TwoCaptcha) do(req *http.Request) (*apiResponse, error) {
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
