// ABOUTME: Line-oriented interactive shell over one parkspot application
// ABOUTME: Drives a map view and a list view that share the same registry bridge

package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/harper/parkspot/internal/app"
	"github.com/harper/parkspot/internal/geo"
	"github.com/harper/parkspot/internal/models"
	"github.com/harper/parkspot/internal/registry"
	"github.com/harper/parkspot/internal/ui"
	"github.com/harper/parkspot/internal/viewstate"
)

// Prompt is printed before each line when prompting is enabled.
const Prompt = "parkspot> "

// ErrUsage is returned for malformed commands.
var ErrUsage = errors.New("usage")

const helpText = `Commands:
  locate                      refresh your location
  at <lat> <lng>              set your location and refresh
  deny                        deny location permission
  add <lat> <lng> <name...>   mark a parking spot near you
  list                        list spots, nearest first
  search [query]              filter the list by name (no query clears)
  markers                     show every marker on the map
  export <file>               write spots as .geojson, .yaml or .md
  radius                      show the search radius
  help                        show this help
  quit                        leave the shell`

// Session is one interactive shell. It is not safe for concurrent use.
type Session struct {
	app    *app.App
	mapv   *viewstate.Map
	list   *viewstate.View
	out    io.Writer
	prompt bool

	unsubscribe func()
}

// Option configures a Session.
type Option func(*Session)

// WithPrompt enables printing Prompt before each input line.
func WithPrompt(on bool) Option {
	return func(s *Session) {
		s.prompt = on
	}
}

// New opens a map view and a list view over a and prints to out.
func New(a *app.App, out io.Writer, opts ...Option) *Session {
	s := &Session{app: a, out: out}
	for _, opt := range opts {
		opt(s)
	}

	var viewOpts []viewstate.Option
	viewOpts = append(viewOpts, viewstate.WithClock(a.Now))
	if v := a.Viewer(); v != nil {
		viewOpts = append(viewOpts, viewstate.WithViewer(*v))
	}

	s.mapv = viewstate.NewMap(a.Registry, a.Bridge, viewOpts...)
	s.list = viewstate.NewView(a.Bridge, viewOpts...)

	// Subscribed after the list view, so it has already recomputed.
	s.unsubscribe = a.Bridge.Subscribe(func(snapshot []models.ParkingSpot) {
		s.printUpdate(len(snapshot))
	})
	return s
}

// Close unsubscribes both views from the bridge.
func (s *Session) Close() {
	s.unsubscribe()
	s.mapv.Close()
	s.list.Close()
}

// Run locates the viewer, then executes commands from in until quit, EOF,
// or ctx is cancelled. Command errors are printed and do not stop the loop.
func (s *Session) Run(ctx context.Context, in io.Reader) error {
	if err := s.locate(ctx); err != nil {
		s.println(ui.FormatError(err))
	}

	lines, readErr := readLines(ctx, in)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if s.prompt {
			fmt.Fprint(s.out, Prompt)
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			return <-readErr
		}

		quit, err := s.Exec(ctx, line)
		if err != nil {
			s.println(ui.FormatError(err))
		}
		if quit {
			return nil
		}
	}
}

// readLines scans in on its own goroutine so a blocked read never holds up
// cancellation. The error channel yields once lines is closed.
func readLines(ctx context.Context, in io.Reader) (<-chan string, <-chan error) {
	lines := make(chan string)
	errc := make(chan error, 1)

	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				errc <- ctx.Err()
				return
			}
		}
		errc <- scanner.Err()
	}()
	return lines, errc
}

// Exec runs a single command line and reports whether the session should end.
func (s *Session) Exec(ctx context.Context, line string) (bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := strings.ToLower(fields[0]), fields[1:]

	switch cmd {
	case "quit", "exit":
		return true, nil
	case "help", "?":
		s.println(helpText)
		return false, nil
	case "locate":
		return false, s.locate(ctx)
	case "at":
		return false, s.at(ctx, args)
	case "deny":
		s.app.Location.Deny()
		return false, s.locate(ctx)
	case "add":
		return false, s.add(args)
	case "list":
		s.printList()
		return false, nil
	case "search":
		s.list.SetQuery(strings.Join(args, " "))
		s.printList()
		return false, nil
	case "markers":
		s.printMarkers()
		return false, nil
	case "export":
		return false, s.export(args)
	case "radius":
		s.println(fmt.Sprintf("Search radius: %s", viewstate.FormatDistance(s.mapv.Radius()/1000)))
		return false, nil
	default:
		return false, fmt.Errorf("unknown command %q (try 'help')", cmd)
	}
}

// locate refreshes both views from the app's fetcher. A failure puts both
// into the error state.
func (s *Session) locate(ctx context.Context) error {
	c, err := s.mapv.Locate(ctx, s.app.Fetcher)
	if err != nil {
		if !errors.Is(err, viewstate.ErrStale) {
			s.list.SetError(err)
		}
		return err
	}
	s.list.SetViewer(c)
	s.println(ui.FormatViewer(&c, s.mapv.Radius()))
	return nil
}

func (s *Session) at(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("%w: at <lat> <lng>", ErrUsage)
	}
	c, err := parseCoordinate(args[0], args[1])
	if err != nil {
		return err
	}
	if err := s.app.Location.Set(c); err != nil {
		return err
	}
	return s.locate(ctx)
}

func (s *Session) add(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("%w: add <lat> <lng> <name...>", ErrUsage)
	}
	c, err := parseCoordinate(args[0], args[1])
	if err != nil {
		return err
	}

	spot, err := s.mapv.AddSpot(strings.Join(args[2:], " "), c)
	if errors.Is(err, registry.ErrOutOfRadius) {
		s.println(ui.FormatNotice(s.mapv.Notice(s.app.Now())))
		return nil
	}
	if err != nil {
		return err
	}
	s.println(ui.FormatAdded(spot))
	return nil
}

func (s *Session) export(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: export <file.geojson|file.yaml|file.md>", ErrUsage)
	}
	path, err := s.app.Export(args[0])
	if err != nil {
		return err
	}
	s.println(color.GreenString("✓ Exported %d spots to %s", s.app.Registry.Len(), path))
	return nil
}

func (s *Session) printList() {
	st := s.list.State()
	items := s.list.Recompute()
	if st.Query != "" {
		s.println(color.New(color.Faint).Sprintf("Search: %q", st.Query))
	}
	if st.Err != nil {
		s.println(ui.FormatError(st.Err))
	}
	s.println(ui.FormatSpotList(items, st.Query))
}

func (s *Session) printMarkers() {
	st := s.mapv.View().State()
	if st.Viewer != nil || st.Err == nil {
		s.println(ui.FormatViewer(st.Viewer, s.mapv.Radius()))
	}
	if st.Loading {
		s.println(color.New(color.Faint).Sprint("Locating..."))
	}
	if st.Err != nil {
		s.println(ui.FormatError(st.Err))
	}
	for _, it := range st.Items {
		s.println(ui.FormatMarker(it.Spot))
	}
	if notice := s.mapv.Notice(s.app.Now()); notice != "" {
		s.println(ui.FormatNotice(notice))
	}
}

func (s *Session) printUpdate(total int) {
	items := s.list.Items()
	msg := fmt.Sprintf("↻ %d spots", total)
	if len(items) > 0 && items[0].DistanceLabel != "" {
		msg += fmt.Sprintf(", nearest %s %s", items[0].Spot.Name, items[0].DistanceLabel)
	}
	s.println(color.New(color.Faint).Sprint(msg))
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func parseCoordinate(latArg, lngArg string) (geo.Coordinate, error) {
	lat, err := strconv.ParseFloat(latArg, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: latitude %q is not a number", geo.ErrInvalidCoordinate, latArg)
	}
	lng, err := strconv.ParseFloat(lngArg, 64)
	if err != nil {
		return geo.Coordinate{}, fmt.Errorf("%w: longitude %q is not a number", geo.ErrInvalidCoordinate, lngArg)
	}
	c := geo.Coordinate{Latitude: lat, Longitude: lng}
	if err := c.Validate(); err != nil {
		return geo.Coordinate{}, err
	}
	return c, nil
}
