package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/media"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/client/request"
	"github.com/dmitrijs2005/tripjournal/internal/client/response"
	"github.com/dmitrijs2005/tripjournal/internal/client/session"
	"github.com/dmitrijs2005/tripjournal/internal/client/transport"
	"github.com/dmitrijs2005/tripjournal/internal/common"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

// GetTrips failure policies.
const (
	FallbackEmpty     = "empty"
	FallbackPropagate = "propagate"
)

type Options struct {
	// TokenTTL is added to the adoption time to get a token's expiration.
	TokenTTL time.Duration
	// EnforceExpiry makes authenticated calls fail with ErrSessionExpired
	// once the token's expiration date has passed.
	EnforceExpiry bool
	// TripsFallback is FallbackEmpty (default) or FallbackPropagate.
	TripsFallback string
	// MediaMode is media.ModeURL (default) or media.ModeBase64.
	MediaMode string
	// Uploader is used in media.ModeURL. Defaults to a media.ServerUploader
	// sharing the client's builder and invoker.
	Uploader   media.Uploader
	Normalizer media.Normalizer
	Logger     logging.Logger
}

type JournalClient struct {
	session *session.Session
	builder *request.Builder
	invoker transport.Invoker
	opts    Options
	log     logging.Logger
}

var _ Client = (*JournalClient)(nil)

func New(s *session.Session, b *request.Builder, inv transport.Invoker, opts Options) (*JournalClient, error) {
	if opts.Logger == nil {
		opts.Logger = logging.Nop()
	}
	if opts.TokenTTL <= 0 {
		opts.TokenTTL = models.DefaultTokenTTL
	}

	switch opts.MediaMode {
	case "":
		opts.MediaMode = media.ModeURL
	case media.ModeURL, media.ModeBase64:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMediaMode, opts.MediaMode)
	}

	switch opts.TripsFallback {
	case "":
		opts.TripsFallback = FallbackEmpty
	case FallbackEmpty, FallbackPropagate:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownTripsFallback, opts.TripsFallback)
	}

	if opts.Uploader == nil {
		opts.Uploader = media.NewServerUploader(b, inv, opts.Logger)
	}

	return &JournalClient{
		session: s,
		builder: b,
		invoker: inv,
		opts:    opts,
		log:     opts.Logger.With("component", "client"),
	}, nil
}

// Session exposes the underlying session, e.g. for Restore at startup.
func (c *JournalClient) Session() *session.Session { return c.session }

// token returns the current token snapshot or the reason an authenticated
// call cannot be made.
func (c *JournalClient) token() (*models.Token, error) {
	t := c.session.Token()
	if t == nil {
		return nil, fmt.Errorf("not logged in: %w", common.ErrInvalidValue)
	}
	if c.opts.EnforceExpiry && t.Expired(c.session.Now()) {
		return nil, common.ErrSessionExpired
	}
	return t, nil
}

func fetch[T any](ctx context.Context, c *JournalClient, method string, ep endpoints.Endpoint, tok *models.Token, body request.Encoder) (T, error) {
	var zero T
	d, err := c.builder.Build(method, ep, tok, body)
	if err != nil {
		return zero, err
	}
	res, err := c.invoker.Do(ctx, d)
	if err != nil {
		return zero, err
	}
	return response.Decode[T](ctx, c.log, res)
}

func (c *JournalClient) exec(ctx context.Context, method string, ep endpoints.Endpoint, tok *models.Token) error {
	d, err := c.builder.Build(method, ep, tok, nil)
	if err != nil {
		return err
	}
	res, err := c.invoker.Do(ctx, d)
	if err != nil {
		return err
	}
	return response.Void(ctx, c.log, res)
}

// Register creates an account and logs it in.
func (c *JournalClient) Register(ctx context.Context, username, password string) (models.Token, error) {
	body := request.JSON(models.LoginRequest{Username: username, Password: password})
	return c.authenticate(ctx, endpoints.Register(), body)
}

// LogIn exchanges credentials for a bearer token using the password form.
func (c *JournalClient) LogIn(ctx context.Context, username, password string) (models.Token, error) {
	body := request.Form(request.LoginFields(username, password)...)
	return c.authenticate(ctx, endpoints.Login(), body)
}

func (c *JournalClient) authenticate(ctx context.Context, ep endpoints.Endpoint, body request.Encoder) (models.Token, error) {
	tok, err := fetch[models.Token](ctx, c, http.MethodPost, ep, nil, body)
	if err != nil {
		return models.Token{}, err
	}
	if tok.AccessToken == "" {
		return models.Token{}, fmt.Errorf("%w: empty access token", common.ErrFailedToDecodeResponse)
	}
	// a caller that gave up must not end up logged in
	if err := ctx.Err(); err != nil {
		return models.Token{}, err
	}

	tok = tok.WithExpiration(c.session.Now(), c.opts.TokenTTL)
	c.session.Adopt(ctx, tok)
	c.log.Info(ctx, "authenticated", "endpoint", ep.String(), "expires_at", tok.ExpirationDate)
	return tok, nil
}

// LogOut forgets the token. It never fails and makes no network call.
func (c *JournalClient) LogOut(ctx context.Context) {
	c.session.Clear(ctx)
}

// IsAuthenticated subscribes to the session's authentication state.
func (c *JournalClient) IsAuthenticated() (<-chan bool, func()) {
	return c.session.Subscribe()
}

// GetTrips lists the user's trips. Under FallbackEmpty any failure after
// the token check, other than cancellation, is logged and reported as an
// empty list.
func (c *JournalClient) GetTrips(ctx context.Context) ([]models.Trip, error) {
	tok, err := c.token()
	if err != nil {
		return nil, err
	}

	trips, err := fetch[[]models.Trip](ctx, c, http.MethodGet, endpoints.Trips(), tok, nil)
	if err != nil {
		if c.opts.TripsFallback == FallbackPropagate || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		c.log.Warn(ctx, "get trips failed, returning empty list", "error", err)
		return []models.Trip{}, nil
	}
	if trips == nil {
		trips = []models.Trip{}
	}
	return trips, nil
}

func (c *JournalClient) GetTrip(ctx context.Context, id int64) (models.Trip, error) {
	tok, err := c.token()
	if err != nil {
		return models.Trip{}, err
	}
	return fetch[models.Trip](ctx, c, http.MethodGet, endpoints.Trip(id), tok, nil)
}

func (c *JournalClient) CreateTrip(ctx context.Context, t models.TripCreate) (models.Trip, error) {
	tok, err := c.token()
	if err != nil {
		return models.Trip{}, err
	}
	return fetch[models.Trip](ctx, c, http.MethodPost, endpoints.Trips(), tok, request.JSON(request.NewTripCreatePayload(t)))
}

func (c *JournalClient) UpdateTrip(ctx context.Context, id int64, t models.TripUpdate) (models.Trip, error) {
	tok, err := c.token()
	if err != nil {
		return models.Trip{}, err
	}
	return fetch[models.Trip](ctx, c, http.MethodPut, endpoints.Trip(id), tok, request.JSON(request.NewTripUpdatePayload(t)))
}

func (c *JournalClient) DeleteTrip(ctx context.Context, id int64) error {
	tok, err := c.token()
	if err != nil {
		return err
	}
	return c.exec(ctx, http.MethodDelete, endpoints.Trip(id), tok)
}

func (c *JournalClient) CreateEvent(ctx context.Context, e models.EventCreate) (models.Event, error) {
	tok, err := c.token()
	if err != nil {
		return models.Event{}, err
	}
	return fetch[models.Event](ctx, c, http.MethodPost, endpoints.Events(), tok, request.JSON(request.NewEventCreatePayload(e)))
}

func (c *JournalClient) UpdateEvent(ctx context.Context, id int64, e models.EventUpdate) (models.Event, error) {
	tok, err := c.token()
	if err != nil {
		return models.Event{}, err
	}
	return fetch[models.Event](ctx, c, http.MethodPut, endpoints.Event(id), tok, request.JSON(request.NewEventUpdatePayload(e)))
}

func (c *JournalClient) DeleteEvent(ctx context.Context, id int64) error {
	tok, err := c.token()
	if err != nil {
		return err
	}
	return c.exec(ctx, http.MethodDelete, endpoints.Event(id), tok)
}

// CreateMedia attaches an image to an event. In media.ModeURL the bytes are
// uploaded first and only the resulting URL is sent with the record.
func (c *JournalClient) CreateMedia(ctx context.Context, m models.MediaCreate) (models.Media, error) {
	tok, err := c.token()
	if err != nil {
		return models.Media{}, err
	}

	data, err := c.opts.Normalizer.Normalize(m.Data)
	if err != nil {
		return models.Media{}, fmt.Errorf("normalize media: %w", err)
	}

	var body request.Encoder
	switch c.opts.MediaMode {
	case media.ModeBase64:
		body = request.JSON(request.NewMediaBase64Payload(m.EventID, data))
	default:
		url, err := c.opts.Uploader.Upload(ctx, *tok, data)
		if err != nil {
			return models.Media{}, err
		}
		body = request.JSON(request.MediaURLPayload{EventID: m.EventID, URL: url})
	}

	return fetch[models.Media](ctx, c, http.MethodPost, endpoints.Media(), tok, body)
}

func (c *JournalClient) DeleteMedia(ctx context.Context, id int64) error {
	tok, err := c.token()
	if err != nil {
		return err
	}
	return c.exec(ctx, http.MethodDelete, endpoints.MediaItem(id), tok)
}
