package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/dmitrijs2005/tripjournal/internal/client/client"
	"github.com/dmitrijs2005/tripjournal/internal/client/config"
	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/media"
	"github.com/dmitrijs2005/tripjournal/internal/client/request"
	"github.com/dmitrijs2005/tripjournal/internal/client/session"
	"github.com/dmitrijs2005/tripjournal/internal/client/tokenstore"
	"github.com/dmitrijs2005/tripjournal/internal/client/transport"
	"github.com/dmitrijs2005/tripjournal/internal/filex"
	"github.com/dmitrijs2005/tripjournal/internal/logging"
)

type App struct {
	config *config.Config
	client client.Client
	log    logging.Logger

	reader   *bufio.Reader
	out      io.Writer
	loggedIn atomic.Bool
	closers  []io.Closer
}

// NewApp wires the client stack described by c. Without a vault passphrase
// the token lives in memory only.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	a := &App{config: c, log: log, reader: bufio.NewReader(os.Stdin), out: os.Stdout}

	var store session.Store
	if c.VaultPassphrase != "" {
		path, err := filex.EnsureParentDir(c.VaultPath)
		if err != nil {
			return nil, err
		}
		vault, err := tokenstore.OpenVault(ctx, path, []byte(c.VaultPassphrase))
		if err != nil {
			return nil, fmt.Errorf("error opening token vault: %w", err)
		}
		a.closers = append(a.closers, vault)
		store = vault
	} else {
		log.Warn(ctx, "no vault passphrase configured, token will not survive restarts")
		store = tokenstore.NewMemoryStore()
	}

	resolver, err := endpoints.NewResolver(c.BaseURL,
		endpoints.WithMediaPath(c.MediaPath),
		endpoints.WithUploadPath(c.UploadPath),
	)
	if err != nil {
		a.Close()
		return nil, err
	}
	builder := request.NewBuilder(resolver)

	invoker, err := transport.NewHTTPInvoker(transport.Options{
		RequestTimeout:  c.RequestTimeout,
		ResourceTimeout: c.ResourceTimeout,
		Registerer:      prometheus.DefaultRegisterer,
		Logger:          log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	var uploader media.Uploader
	if c.MediaUploader == media.UploaderS3 {
		if uploader, err = media.NewS3Uploader(ctx, c.S3, log); err != nil {
			a.Close()
			return nil, err
		}
	}

	sess := session.New(store, log)
	if sess.Restore(ctx) {
		a.loggedIn.Store(true)
	}

	jc, err := client.New(sess, builder, invoker, client.Options{
		TokenTTL:      c.TokenTTL,
		EnforceExpiry: c.EnforceExpiry,
		TripsFallback: c.TripsFallback,
		MediaMode:     c.MediaMode,
		Uploader:      uploader,
		Normalizer:    media.Normalizer{MaxDimension: c.MaxImageDimension},
		Logger:        log,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.client = jc
	return a, nil
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn.Load()
}

// watchSession mirrors the client's authentication signal into a.loggedIn
// until ctx is done.
func (a *App) watchSession(ctx context.Context) func() {
	ch, cancel := a.client.IsAuthenticated()
	a.loggedIn.Store(<-ch)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					return
				}
				a.loggedIn.Store(v)
				a.log.Debug(ctx, "authentication changed", "authenticated", v)
			case <-ctx.Done():
				return
			}
		}
	}()
	return func() {
		cancel()
		<-done
	}
}

func (a *App) status() string {
	if a.loggedIn.Load() {
		return "(logged in)"
	}
	return "(guest)"
}

// Run starts the REPL on stdin and blocks until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()
	stop := a.watchSession(ctx)
	defer stop()

	a.log.Info(ctx, "Welcome to TripJournal (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
	a.closers = nil
}
