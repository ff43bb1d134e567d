package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/common"
)

// getSimpleText and getPassword are swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
)

func (a *App) credentials() (string, []byte, error) {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return username, password, nil
}

func (a *App) Register(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	if _, err := a.client.Register(ctx, username, string(password)); err != nil {
		return err
	}
	a.loggedIn.Store(true)
	fmt.Fprintln(a.out, "Registered and logged in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	tok, err := a.client.LogIn(ctx, username, string(password))
	if err != nil {
		return err
	}
	a.loggedIn.Store(true)
	fmt.Fprintf(a.out, "Logged in until %s.\n", tok.ExpirationDate.Local().Format(time.DateTime))
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.LogOut(ctx)
	a.loggedIn.Store(false)
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) Trips(ctx context.Context) error {
	trips, err := a.client.GetTrips(ctx)
	if err != nil {
		return err
	}
	if len(trips) == 0 {
		fmt.Fprintln(a.out, "No trips.")
		return nil
	}
	for _, t := range trips {
		fmt.Fprintln(a.out, formatTrip(t))
	}
	return nil
}

func (a *App) Trip(ctx context.Context, id int64) error {
	t, err := a.client.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, formatTrip(t))
	for _, e := range t.Events {
		fmt.Fprintln(a.out, "  "+formatEvent(e))
		for _, m := range e.Medias {
			fmt.Fprintf(a.out, "    [%d] %s\n", m.ID, m.URL)
		}
	}
	return nil
}

type tripFields struct {
	name       string
	start, end time.Time
}

func (a *App) readTrip(def tripFields) (tripFields, error) {
	var f tripFields
	var err error

	if f.name, err = getSimpleText(a.reader, "Trip name", a.out); err != nil {
		return f, err
	}
	if f.name == "" {
		f.name = def.name
	}
	if f.start, err = GetDate(a.reader, "Start date", def.start, a.out); err != nil {
		return f, err
	}
	if f.end, err = GetDate(a.reader, "End date", def.end, a.out); err != nil {
		return f, err
	}
	return f, nil
}

func (a *App) AddTrip(ctx context.Context) error {
	f, err := a.readTrip(tripFields{})
	if err != nil {
		return err
	}
	t, err := a.client.CreateTrip(ctx, models.TripCreate{Name: f.name, StartDate: f.start, EndDate: f.end})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip %d created.\n", t.ID)
	return nil
}

// EditTrip prompts for new values; empty answers keep the current ones.
func (a *App) EditTrip(ctx context.Context, id int64) error {
	cur, err := a.client.GetTrip(ctx, id)
	if err != nil {
		return err
	}
	f, err := a.readTrip(tripFields{name: cur.Name, start: cur.StartDate, end: cur.EndDate})
	if err != nil {
		return err
	}
	if _, err := a.client.UpdateTrip(ctx, id, models.TripUpdate{Name: f.name, StartDate: f.start, EndDate: f.end}); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip %d updated.\n", id)
	return nil
}

func (a *App) DeleteTrip(ctx context.Context, id int64) error {
	if err := a.client.DeleteTrip(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Trip %d deleted.\n", id)
	return nil
}

func (a *App) AddEvent(ctx context.Context, tripID int64) error {
	name, err := getSimpleText(a.reader, "Event name", a.out)
	if err != nil {
		return err
	}
	date, err := GetDate(a.reader, "Date", time.Now(), a.out)
	if err != nil {
		return err
	}
	note, err := GetMultiline(a.reader, "Note", a.out)
	if err != nil {
		return err
	}
	transition, err := GetOptional(a.reader, "How did you get there?", a.out)
	if err != nil {
		return err
	}
	loc, err := a.readLocation()
	if err != nil {
		return err
	}

	ev := models.EventCreate{
		TripID:                 tripID,
		Name:                   name,
		Date:                   date,
		Location:               loc,
		TransitionFromPrevious: transition,
	}
	if note != "" {
		ev.Note = &note
	}

	created, err := a.client.CreateEvent(ctx, ev)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Event %d created.\n", created.ID)
	return nil
}

func (a *App) readLocation() (*models.Location, error) {
	addr, err := GetOptional(a.reader, "Address", a.out)
	if err != nil || addr == nil {
		return nil, err
	}
	loc := &models.Location{Address: *addr}

	coords, err := GetOptional(a.reader, "Latitude,Longitude", a.out)
	if err != nil || coords == nil {
		return loc, err
	}
	var lat, lon float64
	if _, err := fmt.Sscanf(*coords, "%g,%g", &lat, &lon); err != nil {
		return nil, fmt.Errorf("bad coordinates %q: %w", *coords, err)
	}
	loc.Latitude, loc.Longitude = lat, lon
	return loc, nil
}

func (a *App) DeleteEvent(ctx context.Context, id int64) error {
	if err := a.client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Event %d deleted.\n", id)
	return nil
}

func (a *App) AddMedia(ctx context.Context, eventID int64, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("error reading file: %w", err)
	}
	m, err := a.client.CreateMedia(ctx, models.MediaCreate{EventID: eventID, Data: data})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Media %d attached: %s\n", m.ID, m.URL)
	return nil
}

func (a *App) DeleteMedia(ctx context.Context, id int64) error {
	if err := a.client.DeleteMedia(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Media %d deleted.\n", id)
	return nil
}

func formatTrip(t models.Trip) string {
	return fmt.Sprintf("[%d] %s (%s - %s)", t.ID, t.Name,
		t.StartDate.Local().Format(time.DateOnly), t.EndDate.Local().Format(time.DateOnly))
}

func formatEvent(e models.Event) string {
	s := "[" + strconv.FormatInt(e.ID, 10) + "] " + e.Date.Local().Format("2006-01-02 15:04") + " " + e.Name
	if e.Location != nil && e.Location.Address != "" {
		s += " @ " + e.Location.Address
	}
	if e.TransitionFromPrevious != nil {
		s += " (via " + *e.TransitionFromPrevious + ")"
	}
	if e.Note != nil {
		s += ": " + *e.Note
	}
	return s
}
