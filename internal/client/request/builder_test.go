package request

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/tripjournal/internal/client/endpoints"
	"github.com/dmitrijs2005/tripjournal/internal/client/models"
	"github.com/dmitrijs2005/tripjournal/internal/common"
)

func newBuilder() *Builder {
	return NewBuilder(endpoints.MustResolver("http://localhost:8000"))
}

func token() *models.Token {
	return &models.Token{AccessToken: "abc", TokenType: "bearer"}
}

func TestBuild_AuthenticatedJSON_SetsHeadersInOrder(t *testing.T) {
	d, err := newBuilder().Build(http.MethodPost, endpoints.Trips(), token(), JSON(map[string]string{"name": "x"}))
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, d.Method())
	assert.Equal(t, "http://localhost:8000/trips", d.URL())
	assert.Equal(t, []Header{
		{common.HeaderAccept, common.MIMEJSON},
		{common.HeaderAuthorization, "Bearer abc"},
		{common.HeaderContentType, common.MIMEJSON},
	}, d.Headers())
	assert.JSONEq(t, `{"name":"x"}`, string(d.Body()))
}

func TestBuild_NoBody_NoContentType(t *testing.T) {
	d, err := newBuilder().Build(http.MethodGet, endpoints.Trip(5), token(), nil)
	require.NoError(t, err)

	assert.Empty(t, d.Header(common.HeaderContentType))
	assert.Nil(t, d.Body())
	assert.Equal(t, "application/json", d.Header("accept"))
}

func TestBuild_RequiresTokenForProtectedEndpoints(t *testing.T) {
	b := newBuilder()
	for _, ep := range []endpoints.Endpoint{endpoints.Trips(), endpoints.Trip(1), endpoints.Events(), endpoints.Event(2), endpoints.Media(), endpoints.MediaItem(3), endpoints.MediaUpload()} {
		_, err := b.Build(http.MethodGet, ep, nil, nil)
		assert.True(t, errors.Is(err, common.ErrInvalidValue), ep.String())
	}
}

func TestBuild_LoginForm_NoAuthorization(t *testing.T) {
	d, err := newBuilder().Build(http.MethodPost, endpoints.Login(), nil, Form(LoginFields("u", "p")...))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000/token", d.URL())
	assert.Empty(t, d.Header(common.HeaderAuthorization))
	assert.Equal(t, common.MIMEForm, d.Header(common.HeaderContentType))
	assert.Equal(t, "grant_type=&username=u&password=p", string(d.Body()))
}

func TestForm_EscapesValues(t *testing.T) {
	_, body, err := Form(LoginFields("a b", "p&q=r")...).Encode()
	require.NoError(t, err)
	assert.Equal(t, "grant_type=&username=a+b&password=p%26q%3Dr", string(body))
}

func TestBuild_WithoutAccept(t *testing.T) {
	d, err := newBuilder().Build(http.MethodPost, endpoints.MediaUpload(), token(),
		Multipart("file", "a.png", "image/png", []byte{1, 2, 3}), WithoutAccept())
	require.NoError(t, err)

	assert.Empty(t, d.Header(common.HeaderAccept))
	assert.Equal(t, "Bearer abc", d.Header(common.HeaderAuthorization))
	assert.Len(t, d.Headers(), 2)
}

func TestMultipart_EncodesSingleFilePart(t *testing.T) {
	ct, body, err := Multipart("file", "a.png", "image/png", []byte("PNGDATA")).Encode()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(ct)
	require.NoError(t, err)
	assert.Equal(t, common.MIMEMultipart, mediaType)

	r := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	part, err := r.NextPart()
	require.NoError(t, err)
	assert.Equal(t, "file", part.FormName())
	assert.Equal(t, "a.png", part.FileName())
	assert.Equal(t, "image/png", part.Header.Get(common.HeaderContentType))
	data, err := io.ReadAll(part)
	require.NoError(t, err)
	assert.Equal(t, "PNGDATA", string(data))

	_, err = r.NextPart()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBuild_EncoderErrorIsReturned(t *testing.T) {
	_, err := newBuilder().Build(http.MethodPost, endpoints.Trips(), token(), JSON(make(chan int)))
	require.Error(t, err)
}

func TestDescriptor_AccessorsReturnCopies(t *testing.T) {
	d, err := newBuilder().Build(http.MethodPost, endpoints.Trips(), token(), JSON(map[string]int{"a": 1}))
	require.NoError(t, err)

	h := d.Headers()
	h[0].Value = "changed"
	b := d.Body()
	b[0] = 'X'

	assert.Equal(t, common.MIMEJSON, d.Header(common.HeaderAccept))
	assert.Equal(t, byte('{'), d.Body()[0])
}

func TestPayload_TripDatesRoundTripToSecond(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	start := time.Date(2024, 6, 1, 12, 30, 45, 987654321, loc)
	end := start.Add(72 * time.Hour)

	p := NewTripCreatePayload(models.TripCreate{Name: "Alps", StartDate: start, EndDate: end})
	assert.Equal(t, "2024-06-01T11:30:45Z", p.StartDate)

	raw, err := json.Marshal(map[string]any{"id": 1, "name": p.Name, "start_date": p.StartDate, "end_date": p.EndDate})
	require.NoError(t, err)
	var echoed models.Trip
	require.NoError(t, json.Unmarshal(raw, &echoed))

	assert.True(t, echoed.StartDate.Equal(start.Truncate(time.Second)))
	assert.True(t, echoed.EndDate.Equal(end.Truncate(time.Second)))
}

func TestPayload_EventCreateKeepsEveryKey(t *testing.T) {
	p := NewEventCreatePayload(models.EventCreate{
		TripID: 42,
		Name:   "Hike",
		Date:   time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
	})
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"trip_id": "42",
		"name": "Hike",
		"note": "",
		"date": "2024-06-02T08:00:00Z",
		"location": {"latitude": 0, "longitude": 0, "address": ""},
		"transition_from_previous": ""
	}`, string(raw))
}

func TestPayload_EventUpdateHasNoTripID(t *testing.T) {
	note := "bring water"
	p := NewEventUpdatePayload(models.EventUpdate{
		Name:     "Hike",
		Note:     &note,
		Date:     time.Date(2024, 6, 2, 8, 0, 0, 0, time.UTC),
		Location: &models.Location{Latitude: 46.5, Longitude: 8.1, Address: "Grindelwald"},
	})
	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.NotContains(t, m, "trip_id")
	assert.Equal(t, "bring water", m["note"])
	assert.Equal(t, "Grindelwald", m["location"].(map[string]any)["address"])
}

func TestPayload_MediaBase64(t *testing.T) {
	raw, err := json.Marshal(NewMediaBase64Payload(3, []byte("hi")))
	require.NoError(t, err)
	assert.JSONEq(t, `{"event_id":3,"base64_data":"aGk="}`, string(raw))
}
