package request

import (
	"fmt"

	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/common"
)

// Builder produces Descriptors for a fixed Resolver.
type Builder struct {
	resolver *endpoints.Resolver
}

func NewBuilder(r *endpoints.Resolver) *Builder {
	return &Builder{resolver: r}
}

type buildOptions struct {
	accept bool
}

// Option tweaks a single Build call.
type Option func(*buildOptions)

// WithoutAccept drops the Accept header. The binary upload sends only
// Authorization and its multipart Content-Type.
func WithoutAccept() Option {
	return func(o *buildOptions) { o.accept = false }
}

// Build assembles a request for ep. token may be nil only for endpoints
// that do not require authentication; otherwise ErrInvalidValue is
// returned. body may be nil.
func (b *Builder) Build(method string, ep endpoints.Endpoint, token *models.Token, body Encoder, opts ...Option) (*Descriptor, error) {
	if ep.RequiresAuth() && token == nil {
		return nil, fmt.Errorf("%s %s: %w", method, ep, common.ErrInvalidValue)
	}

	o := buildOptions{accept: true}
	for _, fn := range opts {
		fn(&o)
	}

	d := &Descriptor{
		method: method,
		url:    b.resolver.Resolve(ep).String(),
	}

	if o.accept {
		d.headers = append(d.headers, Header{common.HeaderAccept, common.MIMEJSON})
	}
	if token != nil {
		d.headers = append(d.headers, Header{common.HeaderAuthorization, common.BearerScheme + " " + token.AccessToken})
	}
	if body != nil {
		ct, data, err := body.Encode()
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", method, ep, err)
		}
		d.headers = append(d.headers, Header{common.HeaderContentType, ct})
		d.body = data
	}
	return d, nil
}
