package article

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var (
	ErrEmptyURL     = errors.New("url is empty")
	ErrInvalidURL   = errors.New("url must be an absolute http or https URL")
	ErrBadStatus    = errors.New("unexpected response status")
	ErrEmptyContent = errors.New("no text content found")
)

// FetchError is returned for every failure to retrieve or extract an article.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: %v: %d", e.URL, e.Err, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

type Options struct {
	Timeout   time.Duration
	UserAgent string
	MaxBytes  int64
}

// Fetcher downloads a page and extracts its visible text.
type Fetcher struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
}

func NewFetcher(opts Options) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Fetcher{
		httpClient: &http.Client{Timeout: opts.Timeout},
		userAgent:  opts.UserAgent,
		maxBytes:   opts.MaxBytes,
	}
}

// Fetch returns the normalized text of the page at rawURL. Failures are
// logged and returned as *FetchError.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	text, err := f.fetch(ctx, rawURL)
	if err != nil {
		log.Warn().Err(err).Str("url", rawURL).Msg("Error fetching article")
		return "", err
	}

	log.Debug().Str("url", rawURL).Int("chars", len(text)).Msg("Fetched article")
	return text, nil
}

func (f *Fetcher) fetch(ctx context.Context, rawURL string) (string, error) {
	if strings.TrimSpace(rawURL) == "" {
		return "", &FetchError{URL: rawURL, Err: ErrEmptyURL}
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", &FetchError{URL: rawURL, Err: ErrInvalidURL}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return "", &FetchError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: ErrBadStatus}
	}

	var body io.Reader = resp.Body
	if f.maxBytes > 0 {
		body = io.LimitReader(resp.Body, f.maxBytes)
	}

	text, err := ExtractText(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", &FetchError{URL: rawURL, StatusCode: resp.StatusCode, Err: err}
	}
	return text, nil
}

// ExtractText parses an HTML document, drops script and style elements and
// returns the remaining text, normalized.
func ExtractText(r io.Reader, contentType string) (string, error) {
	utf8Reader, err := charset.NewReader(r, contentType)
	if err != nil {
		return "", fmt.Errorf("decoding charset: %w", err)
	}

	root, err := html.ParseWithOptions(utf8Reader, html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}

	doc := goquery.NewDocumentFromNode(root)
	doc.Find("script, style").Remove()

	return NormalizeText(doc.Text()), nil
}
