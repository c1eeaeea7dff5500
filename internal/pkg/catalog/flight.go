package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TimestampLayout is the only accepted timestamp profile, YYYY-MM-DDTHH:MM:SS.
const TimestampLayout = "2006-01-02T15:04:05"

// Header is the column-name row. It is skipped wherever it appears.
var Header = []string{"source", "destination", "departure", "arrival", "flight_number"}

// fingerprintNamespace scopes catalog fingerprints.
var fingerprintNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("flight-itinerary-search/catalog"))

// Timestamp is a second precision wall clock time without zone.
type Timestamp struct {
	time.Time
}

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp{Time: t.Truncate(time.Second)}
}

// ParseTimestamp parses s with TimestampLayout. s must match the layout
// exactly; fractional seconds and other extras are rejected.
func ParseTimestamp(s string) (Timestamp, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil || t.Format(TimestampLayout) != s {
		return Timestamp{}, fmt.Errorf("%w: %q", errTimestamp, s)
	}

	return Timestamp{Time: t}, nil
}

func (t *Timestamp) UnmarshalText(text []byte) error {
	parsed, err := ParseTimestamp(string(text))
	if err != nil {
		return err
	}

	*t = parsed

	return nil
}

func (t Timestamp) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t Timestamp) String() string {
	return t.Format(TimestampLayout)
}

// Flight is one scheduled flight record.
type Flight struct {
	Origin       string    `csv:"source"`
	Destination  string    `csv:"destination"`
	Departure    Timestamp `csv:"departure"`
	Arrival      Timestamp `csv:"arrival"`
	FlightNumber string    `csv:"flight_number"`
}

// String renders the flight in its input form.
func (f Flight) String() string {
	return strings.Join([]string{
		f.Origin,
		f.Destination,
		f.Departure.String(),
		f.Arrival.String(),
		f.FlightNumber,
	}, ",")
}

// Catalog is an ordered, immutable collection of flights.
type Catalog struct {
	flights []Flight
}

func New(flights ...Flight) *Catalog {
	return &Catalog{
		flights: append([]Flight(nil), flights...),
	}
}

func (c *Catalog) Len() int {
	return len(c.flights)
}

func (c *Catalog) At(i int) Flight {
	return c.flights[i]
}

// Flights returns a copy of the catalog content in insertion order.
func (c *Catalog) Flights() []Flight {
	return append([]Flight(nil), c.flights...)
}

// Fingerprint identifies the catalog content. Catalogs holding the same
// flights in the same order share a fingerprint.
func (c *Catalog) Fingerprint() string {
	var b strings.Builder
	for _, f := range c.flights {
		b.WriteString(f.String())
		b.WriteByte('\n')
	}

	return uuid.NewSHA1(fingerprintNamespace, []byte(b.String())).String()
}
