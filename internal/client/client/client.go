package client

import (
	"context"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
)

// Client is the journal API as seen by an application shell.
type Client interface {
	Register(ctx context.Context, username, password string) (models.Token, error)
	LogIn(ctx context.Context, username, password string) (models.Token, error)
	LogOut(ctx context.Context)
	IsAuthenticated() (<-chan bool, func())

	GetTrips(ctx context.Context) ([]models.Trip, error)
	GetTrip(ctx context.Context, id int64) (models.Trip, error)
	CreateTrip(ctx context.Context, t models.TripCreate) (models.Trip, error)
	UpdateTrip(ctx context.Context, id int64, t models.TripUpdate) (models.Trip, error)
	DeleteTrip(ctx context.Context, id int64) error

	CreateEvent(ctx context.Context, e models.EventCreate) (models.Event, error)
	UpdateEvent(ctx context.Context, id int64, e models.EventUpdate) (models.Event, error)
	DeleteEvent(ctx context.Context, id int64) error

	CreateMedia(ctx context.Context, m models.MediaCreate) (models.Media, error)
	DeleteMedia(ctx context.Context, id int64) error
}
