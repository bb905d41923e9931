package httpfile

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"

	"github.com/filetug/filepick/pkg/files"
)

type StoreOption func(*HttpStore)

func NewStore(root url.URL, o ...StoreOption) *HttpStore {
	store := &HttpStore{
		Root: root,
	}
	for _, opt := range o {
		opt(store)
	}
	return store
}

func WithHttpClient(client *http.Client) StoreOption {
	return func(store *HttpStore) {
		store.client = client
	}
}

var _ files.Store = (*HttpStore)(nil)

// HttpStore browses auto-index pages ("<a href=...>") served over HTTP.
type HttpStore struct {
	Root   url.URL
	client *http.Client
}

func (h HttpStore) RootURL() url.URL {
	return h.Root
}

func (h HttpStore) RootTitle() string {
	root := h.Root
	root.User = nil
	return root.String()
}

var hrefRe = regexp.MustCompile(`<a href="([^"]+)">`)

// OpenDir fetches the index page; the handle serves the parsed links.
func (h HttpStore) OpenDir(ctx context.Context, name string) (files.DirHandle, error) {
	u := h.Root
	u.Path = path.Join("/", h.Root.Path, name)
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	client := h.client
	if client == nil {
		client = http.DefaultClient
	}

	reqURL := u.String()
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch directory listing: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return files.NewListedHandle(parseIndex(string(body)), nil), nil
}

func parseIndex(bodyText string) []files.DirEntry {
	matches := hrefRe.FindAllStringSubmatch(bodyText, -1)

	var entries []files.DirEntry
	for _, match := range matches {
		href := match[1]
		if href == "../" || href == "/" || strings.HasPrefix(href, "?") || strings.Contains(href, "://") {
			continue
		}
		isDir := strings.HasSuffix(href, "/")
		entryName := strings.TrimSuffix(href, "/")
		entryName = strings.TrimPrefix(entryName, "./")
		if unescaped, err := url.PathUnescape(entryName); err == nil {
			entryName = unescaped
		}
		if entryName == "" || entryName == "." || entryName == ".." || strings.Contains(entryName, "/") {
			continue
		}
		kind := files.KindFile
		if isDir {
			kind = files.KindDirectory
		}
		entries = append(entries, files.NewDirEntry(entryName, kind))
	}
	return entries
}
