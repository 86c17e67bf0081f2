package document

import (
	"context"
	"fmt"
	"io"
	"net/http"
	neturl "net/url"
	"strings"

	"golang.org/x/net/html"
)

const maxFetchSize = 5 << 20 // 5MB

// LoadURL fetches a web page and extracts its visible text into a
// Document named after the URL's last path segment (or host).
func LoadURL(ctx context.Context, client *http.Client, rawURL string) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Document{}, fmt.Errorf("invalid url: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetching url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Document{}, fmt.Errorf("url returned status %d", resp.StatusCode)
	}

	body := io.LimitReader(resp.Body, maxFetchSize)
	text, err := ExtractHTMLText(body)
	if err != nil {
		return Document{}, fmt.Errorf("parsing html: %w", err)
	}

	return Document{
		Name:      urlDocName(rawURL),
		Text:      text,
		Pages:     1,
		CharCount: len(text),
	}, nil
}

// ExtractHTMLText parses HTML and returns the concatenated text of its
// visible nodes, one line per text node.
func ExtractHTMLText(r io.Reader) (string, error) {
	root, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var lines []string
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	return strings.Join(lines, "\n"), nil
}

func urlDocName(rawURL string) string {
	u, err := neturl.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	if segment := strings.Trim(u.Path, "/"); segment != "" {
		parts := strings.Split(segment, "/")
		return parts[len(parts)-1]
	}
	if u.Host != "" {
		return u.Host
	}
	return rawURL
}
