package blob

import (
	"fmt"
	"net/url"
	"strings"
)

// Open returns the channel described by uri:
//
//	/path/to/dir or file:///path/to/dir   files in a directory
//	mem://                                in-memory store
//	redis://host:port/db                  Redis server
//
// A "prefix" query parameter namespaces every name, e.g.
// redis://localhost:6379/0?prefix=ci42_.
func Open(uri string) (Channel, error) {
	if uri == "" {
		return nil, fmt.Errorf("%w: empty channel URI", ErrUnsupportedScheme)
	}
	if !strings.Contains(uri, "://") {
		return NewDirChannel(uri)
	}

	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("invalid channel URI %q: %w", uri, err)
	}
	q := u.Query()
	prefix := q.Get("prefix")
	if prefix != "" {
		if err := ValidateName(prefix); err != nil {
			return nil, fmt.Errorf("invalid channel prefix: %w", err)
		}
	}

	var ch Channel
	switch u.Scheme {
	case "file":
		dir := u.Path
		if u.Host != "" {
			dir = u.Host + u.Path
		}
		if dir == "" {
			return nil, fmt.Errorf("%w: file URI without a path", ErrUnsupportedScheme)
		}
		fc, err := NewDirChannel(dir)
		if err != nil {
			return nil, err
		}
		ch = fc
	case "mem":
		ch = NewMemChannel()
	case "redis", "rediss":
		q.Del("prefix")
		u.RawQuery = q.Encode()
		ch = DialRedis(u.String())
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedScheme, u.Scheme)
	}
	return Prefixed(ch, prefix), nil
}
