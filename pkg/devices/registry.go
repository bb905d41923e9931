// Package devices turns configured devices into filesystem stores the picker can browse.
package devices

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/filetug/filepick/pkg/files"
	"github.com/filetug/filepick/pkg/files/ftpfile"
	"github.com/filetug/filepick/pkg/files/httpfile"
	"github.com/filetug/filepick/pkg/files/memfile"
	"github.com/filetug/filepick/pkg/files/osfile"
	"github.com/filetug/filepick/pkg/files/s3file"
	"github.com/filetug/filepick/pkg/fpsettings"
	"github.com/filetug/filepick/pkg/picker"
)

var newS3Store = func(ctx context.Context, cfg s3file.Config) (files.Store, error) {
	return s3file.NewStore(ctx, cfg)
}

var _ picker.Resolver = (*Registry)(nil)

// Registry maps device names to stores. It is safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	stores map[string]files.Store
}

func NewRegistry() *Registry {
	return &Registry{stores: make(map[string]files.Store)}
}

// FromConfig builds a store for every configured device.
func FromConfig(ctx context.Context, configs []fpsettings.DeviceConfig) (*Registry, error) {
	r := NewRegistry()
	for _, cfg := range configs {
		store, err := NewStore(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to create device %q: %w", cfg.Name, err)
		}
		if err = r.Register(cfg.Name, store); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// NewStore creates the store for one device.
func NewStore(ctx context.Context, cfg fpsettings.DeviceConfig) (files.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	switch cfg.Type {
	case fpsettings.DeviceOS:
		return osfile.NewStore(cfg.Root), nil
	case fpsettings.DeviceHTTP:
		root, err := url.Parse(cfg.URL)
		if err != nil {
			return nil, fmt.Errorf("failed to parse url: %w", err)
		}
		if root.Scheme != "http" && root.Scheme != "https" {
			return nil, fmt.Errorf("unsupported url scheme %q", root.Scheme)
		}
		return httpfile.NewStore(*root), nil
	case fpsettings.DeviceFTP:
		root := url.URL{Scheme: "ftp", Host: cfg.Addr, Path: "/"}
		if cfg.User != "" {
			root.User = url.UserPassword(cfg.User, cfg.Password)
		}
		store := ftpfile.NewStore(root)
		store.SetTLS(cfg.TLS == "explicit", cfg.TLS == "implicit")
		return store, nil
	case fpsettings.DeviceS3:
		return newS3Store(ctx, s3file.Config{
			Bucket:    cfg.Bucket,
			Region:    cfg.Region,
			Endpoint:  cfg.Endpoint,
			AccessKey: cfg.AccessKey,
			SecretKey: cfg.SecretKey,
			Prefix:    cfg.Prefix,
		})
	case fpsettings.DeviceMem:
		return newMemStore(cfg.Name, cfg.Entries)
	}
	return nil, fmt.Errorf("unknown device type %q", cfg.Type)
}

// newMemStore builds an in-memory device from entries like "docs/" and "docs/readme.txt=120".
func newMemStore(name string, entries []string) (*memfile.Store, error) {
	store := memfile.NewStore(name)
	for _, entry := range entries {
		if strings.HasSuffix(entry, "/") {
			store.AddDir(entry)
			continue
		}
		p, sizeText, hasSize := strings.Cut(entry, "=")
		var size int64
		if hasSize {
			var err error
			if size, err = strconv.ParseInt(sizeText, 10, 64); err != nil || size < 0 {
				return nil, fmt.Errorf("invalid size in mem entry %q", entry)
			}
		}
		store.AddFile(p, size)
	}
	return store, nil
}

func (r *Registry) Register(name string, store files.Store) error {
	if name == "" || store == nil {
		return fmt.Errorf("%w: device name and store are required", picker.ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.stores[name]; exists {
		return fmt.Errorf("device %q is already registered", name)
	}
	r.stores[name] = store
	return nil
}

func (r *Registry) Resolve(device string) (files.Store, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	store, ok := r.stores[device]
	return store, ok
}

// Names returns the registered device names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.stores))
	for name := range r.stores {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Title is what the UI shows for a device, e.g. "local (/home/alice)".
func (r *Registry) Title(device string) string {
	store, ok := r.Resolve(device)
	if !ok {
		return device
	}
	return fmt.Sprintf("%s (%s)", device, store.RootTitle())
}
