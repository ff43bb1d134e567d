// Package endpoints maps symbolic journal resources to absolute URLs.
//
// Callers never build paths by hand: they pick an Endpoint (Trips,
// Trip(id), ...) and let a Resolver turn it into a *url.URL against the
// configured base origin.
package endpoints

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/tripjournal/internal/common"
)

// Kind tags an Endpoint.
type Kind int

const (
	KindRegister Kind = iota
	KindLogin
	KindTrips
	KindTrip
	KindEvents
	KindEvent
	KindMedia
	KindMediaItem
	KindMediaUpload
)

func (k Kind) String() string {
	switch k {
	case KindRegister:
		return "register"
	case KindLogin:
		return "login"
	case KindTrips:
		return "trips"
	case KindTrip:
		return "trip"
	case KindEvents:
		return "events"
	case KindEvent:
		return "event"
	case KindMedia:
		return "media"
	case KindMediaItem:
		return "media_item"
	case KindMediaUpload:
		return "media_upload"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Endpoint is a closed tagged union; values are created only by the
// constructors below.
type Endpoint struct {
	kind Kind
	id   int64
}

func Register() Endpoint          { return Endpoint{kind: KindRegister} }
func Login() Endpoint             { return Endpoint{kind: KindLogin} }
func Trips() Endpoint             { return Endpoint{kind: KindTrips} }
func Trip(id int64) Endpoint      { return Endpoint{kind: KindTrip, id: id} }
func Events() Endpoint            { return Endpoint{kind: KindEvents} }
func Event(id int64) Endpoint     { return Endpoint{kind: KindEvent, id: id} }
func Media() Endpoint             { return Endpoint{kind: KindMedia} }
func MediaItem(id int64) Endpoint { return Endpoint{kind: KindMediaItem, id: id} }
func MediaUpload() Endpoint       { return Endpoint{kind: KindMediaUpload} }

// RequiresAuth is false only for the register and login endpoints.
func (e Endpoint) RequiresAuth() bool {
	return e.kind != KindRegister && e.kind != KindLogin
}

func (e Endpoint) String() string {
	switch e.kind {
	case KindTrip, KindEvent, KindMediaItem:
		return fmt.Sprintf("%s(%d)", e.kind, e.id)
	default:
		return e.kind.String()
	}
}

// Resolver builds URLs from a fixed base origin.
type Resolver struct {
	base       *url.URL
	mediaPath  string
	uploadPath string
}

// Option customises a Resolver.
type Option func(*Resolver)

// WithMediaPath overrides the media collection path ("medias" by default).
func WithMediaPath(p string) Option {
	return func(r *Resolver) {
		if p = strings.Trim(p, "/"); p != "" {
			r.mediaPath = p
		}
	}
}

// WithUploadPath overrides the binary upload path. It defaults to the
// media collection path.
func WithUploadPath(p string) Option {
	return func(r *Resolver) {
		if p = strings.Trim(p, "/"); p != "" {
			r.uploadPath = p
		}
	}
}

// NewResolver validates base and returns a Resolver. The base must be an
// absolute http(s) URL.
func NewResolver(base string, opts ...Option) (*Resolver, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", common.ErrBadURL, base, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q: absolute http(s) origin required", common.ErrBadURL, base)
	}
	if u.RawQuery != "" || u.ForceQuery || u.Fragment != "" {
		return nil, fmt.Errorf("%w: %q: query and fragment are not allowed", common.ErrBadURL, base)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}

	r := &Resolver{base: u, mediaPath: "medias"}
	for _, o := range opts {
		o(r)
	}
	if r.uploadPath == "" {
		r.uploadPath = r.mediaPath
	}
	return r, nil
}

// MustResolver is NewResolver that panics on error.
func MustResolver(base string, opts ...Option) *Resolver {
	r, err := NewResolver(base, opts...)
	if err != nil {
		panic(err)
	}
	return r
}

func (r *Resolver) path(e Endpoint) string {
	id := strconv.FormatInt(e.id, 10)
	switch e.kind {
	case KindRegister:
		return "register"
	case KindLogin:
		return "token"
	case KindTrips:
		return "trips"
	case KindTrip:
		return "trips/" + id
	case KindEvents:
		return "events"
	case KindEvent:
		return "events/" + id
	case KindMedia:
		return r.mediaPath
	case KindMediaItem:
		return r.mediaPath + "/" + id
	case KindMediaUpload:
		return r.uploadPath
	default:
		return ""
	}
}

// Resolve returns the absolute URL of e. An unknown endpoint or a result
// that does not parse is a programming error and panics with ErrBadURL.
func (r *Resolver) Resolve(e Endpoint) *url.URL {
	p := r.path(e)
	if p == "" {
		panic(fmt.Errorf("%w: unknown endpoint %s", common.ErrBadURL, e))
	}
	u, err := url.Parse(r.base.String() + p)
	if err != nil || u.Host == "" {
		panic(fmt.Errorf("%w: %s", common.ErrBadURL, e))
	}
	return u
}
