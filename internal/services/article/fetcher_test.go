package article

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
  <title>City Council Approves Budget</title>
  <style>body { color: red; } .hidden { display: none; }</style>
  <script>var tracking = "secret-tracker"; console.log(tracking);</script>
</head>
<body>
  <nav>Home  World  Business</nav>
  <h1>   City Council Approves Budget   </h1>
  <p>The council voted 7-2 on Tuesday.</p>


  <p>
     Spending rises by 4%.
  </p>
  <script type="application/ld+json">{"@type": "NewsArticle"}</script>
</body>
</html>`

func TestExtractTextStripsScriptAndStyle(t *testing.T) {
	text, err := ExtractText(strings.NewReader(samplePage), "text/html; charset=utf-8")
	require.NoError(t, err)

	assert.NotContains(t, text, "secret-tracker")
	assert.NotContains(t, text, "color: red")
	assert.NotContains(t, text, "NewsArticle")

	assert.Equal(t, strings.Join([]string{
		"City Council Approves Budget",
		"Home",
		"World",
		"Business",
		"City Council Approves Budget",
		"The council voted 7-2 on Tuesday.",
		"Spending rises by 4%.",
	}, "\n"), text)
}

func TestExtractTextDecodesCharset(t *testing.T) {
	// "café" in ISO-8859-1
	page := "<html><body><p>caf\xe9</p></body></html>"

	text, err := ExtractText(strings.NewReader(page), "text/html; charset=iso-8859-1")
	require.NoError(t, err)
	assert.Equal(t, "café", text)
}

func TestNormalizeText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only whitespace", in: " \n\t\n  \r\n", want: ""},
		{name: "trims lines", in: "  hello  \n\tworld\t", want: "hello\nworld"},
		{name: "splits double spaces", in: "Breaking  Sports   Weather", want: "Breaking\nSports\nWeather"},
		{name: "keeps single spaces", in: "one two three", want: "one two three"},
		{name: "crlf and form feed", in: "a\r\nb\fc", want: "a\nb\nc"},
		{name: "unicode separators", in: "a\u2028b\u0085c", want: "a\nb\nc"},
		{name: "unit separator is trimmed", in: "\x1fhello\x1f", want: "hello"},
		{name: "no-break space is trimmed", in: "\u00a0title\u00a0  body", want: "title\nbody"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeText(tt.in))
		})
	}
}

func TestNormalizeTextIdempotent(t *testing.T) {
	inputs := []string{
		samplePage,
		"  Top  Stories \n\n\n Markets   rally\t\t amid  hopes ",
		"x\r\n\r\n  y  \v z",
	}

	for _, in := range inputs {
		once := NormalizeText(in)
		assert.Equal(t, once, NormalizeText(once))
		for _, line := range strings.Split(once, "\n") {
			if once == "" {
				break
			}
			assert.NotEmpty(t, line)
			assert.Equal(t, strings.TrimSpace(line), line)
		}
	}
}

func TestFetch(t *testing.T) {
	var userAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent = r.UserAgent()
		switch r.URL.Path {
		case "/article":
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(samplePage))
		case "/server-error":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	fetcher := NewFetcher(Options{Timeout: 5 * time.Second, UserAgent: "test-agent"})

	t.Run("success", func(t *testing.T) {
		text, err := fetcher.Fetch(context.Background(), server.URL+"/article")
		require.NoError(t, err)
		assert.Contains(t, text, "The council voted 7-2 on Tuesday.")
		assert.Equal(t, "test-agent", userAgent)
	})

	t.Run("not found", func(t *testing.T) {
		text, err := fetcher.Fetch(context.Background(), server.URL+"/missing")
		assert.Empty(t, text)

		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
		assert.ErrorIs(t, err, ErrBadStatus)
	})

	t.Run("server error", func(t *testing.T) {
		_, err := fetcher.Fetch(context.Background(), server.URL+"/server-error")
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	})

	t.Run("invalid urls", func(t *testing.T) {
		for _, raw := range []string{"", "   ", "ftp://example.com/file", "not a url", "http://"} {
			_, err := fetcher.Fetch(context.Background(), raw)
			var fetchErr *FetchError
			assert.True(t, errors.As(err, &fetchErr), raw)
		}
	})

	t.Run("network error", func(t *testing.T) {
		closed := httptest.NewServer(http.NotFoundHandler())
		addr := closed.URL
		closed.Close()

		_, err := fetcher.Fetch(context.Background(), addr)
		var fetchErr *FetchError
		require.True(t, errors.As(err, &fetchErr))
		assert.Zero(t, fetchErr.StatusCode)
	})
}

func TestFetchMaxBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html><body><p>first</p><p>" + strings.Repeat("x", 1000) + "</p></body></html>"))
	}))
	defer server.Close()

	fetcher := NewFetcher(Options{MaxBytes: 30})
	text, err := fetcher.Fetch(context.Background(), server.URL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(text, "first"))
	assert.Less(t, len(text), 30)
}
