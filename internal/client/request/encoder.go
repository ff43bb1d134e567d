package request

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/tripjournal/internal/common"
)

// Encoder turns a request body into bytes plus its Content-Type.
type Encoder interface {
	Encode() (contentType string, body []byte, err error)
}

type jsonEncoder struct{ v any }

// JSON encodes v with encoding/json.
func JSON(v any) Encoder { return jsonEncoder{v: v} }

func (e jsonEncoder) Encode() (string, []byte, error) {
	b, err := json.Marshal(e.v)
	if err != nil {
		return "", nil, fmt.Errorf("encode json body: %w", err)
	}
	return common.MIMEJSON, b, nil
}

// Field is one key/value pair of a form body.
type Field struct {
	Key   string
	Value string
}

type formEncoder struct{ fields []Field }

// Form encodes fields as application/x-www-form-urlencoded, keeping their
// order and escaping every key and value.
func Form(fields ...Field) Encoder { return formEncoder{fields: fields} }

func (e formEncoder) Encode() (string, []byte, error) {
	var sb strings.Builder
	for i, f := range e.fields {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(f.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(f.Value))
	}
	return common.MIMEForm, []byte(sb.String()), nil
}

type multipartEncoder struct {
	field       string
	filename    string
	contentType string
	data        []byte
}

// Multipart encodes a single file part named field.
func Multipart(field, filename, contentType string, data []byte) Encoder {
	return multipartEncoder{field: field, filename: filename, contentType: contentType, data: data}
}

func (e multipartEncoder) Encode() (string, []byte, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, e.field, e.filename))
	ct := e.contentType
	if ct == "" {
		ct = "application/octet-stream"
	}
	h.Set(common.HeaderContentType, ct)

	part, err := w.CreatePart(h)
	if err != nil {
		return "", nil, fmt.Errorf("multipart part: %w", err)
	}
	if _, err := part.Write(e.data); err != nil {
		return "", nil, fmt.Errorf("multipart write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", nil, fmt.Errorf("multipart close: %w", err)
	}
	return w.FormDataContentType(), buf.Bytes(), nil
}
