// Package request builds immutable outbound request descriptors.
//
// A Descriptor is fully materialised before it reaches the transport:
// method, URL, ordered headers, and the encoded body. The Builder is the
// single place where the Accept, Authorization and Content-Type headers are
// decided, and body encoding is delegated to an Encoder (JSON, form, or
// multipart).
package request

import "net/http"

// Header is a single header field. Descriptors keep headers in the order
// they were set.
type Header struct {
	Name  string
	Value string
}

// Descriptor is an immutable outbound request.
type Descriptor struct {
	method  string
	url     string
	headers []Header
	body    []byte
}

func (d *Descriptor) Method() string { return d.method }
func (d *Descriptor) URL() string    { return d.url }

// Headers returns a copy of the ordered header list.
func (d *Descriptor) Headers() []Header {
	return append([]Header(nil), d.headers...)
}

// Header returns the first value of the named header (case-insensitive).
func (d *Descriptor) Header(name string) string {
	key := http.CanonicalHeaderKey(name)
	for _, h := range d.headers {
		if http.CanonicalHeaderKey(h.Name) == key {
			return h.Value
		}
	}
	return ""
}

// Body returns a copy of the encoded body, nil when there is none.
func (d *Descriptor) Body() []byte {
	if d.body == nil {
		return nil
	}
	return append([]byte(nil), d.body...)
}

// HTTPHeader converts the ordered headers to an http.Header.
func (d *Descriptor) HTTPHeader() http.Header {
	h := make(http.Header, len(d.headers))
	for _, f := range d.headers {
		h.Add(f.Name, f.Value)
	}
	return h
}
