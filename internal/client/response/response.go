// Package response classifies raw HTTP results and decodes success bodies.
//
// Classification is identical for every resource:
//
//	200          decode into the expected type (ErrFailedToDecodeResponse on mismatch)
//	204          success without a body (void operations only)
//	422          ErrUnprocessableEntity; the body is logged, never returned
//	anything else ErrBadResponse
package response

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/tripjournal/internal/client/transport"
	"github.com/dmitrijs2005/tripjournal/internal/common"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

// Classify maps a non-success status to its sentinel error. It returns nil
// for 200, and for 204 when allowNoContent is set.
func Classify(ctx context.Context, log logging.Logger, res transport.Result, allowNoContent bool) error {
	switch {
	case res.Status == http.StatusOK:
		return nil
	case res.Status == http.StatusNoContent && allowNoContent:
		return nil
	case res.Status == http.StatusUnprocessableEntity:
		log.Warn(ctx, "unprocessable entity", "body", string(res.Body))
		return common.ErrUnprocessableEntity
	default:
		return fmt.Errorf("%w: status %d", common.ErrBadResponse, res.Status)
	}
}

// Decode classifies res and, on 200, decodes the body into T. Dates are
// parsed as RFC 3339 by time.Time.
func Decode[T any](ctx context.Context, log logging.Logger, res transport.Result) (T, error) {
	var v T
	if err := Classify(ctx, log, res, false); err != nil {
		return v, err
	}
	if err := json.Unmarshal(res.Body, &v); err != nil {
		log.Debug(ctx, "decode failed", "error", err)
		return v, fmt.Errorf("%w: %w", common.ErrFailedToDecodeResponse, err)
	}
	return v, nil
}

// Void accepts 200 and 204 without looking at the body.
func Void(ctx context.Context, log logging.Logger, res transport.Result) error {
	return Classify(ctx, log, res, true)
}
