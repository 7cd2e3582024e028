package dashboard

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/slidesmith/slidesmith/internal/client/client"
	"github.com/slidesmith/slidesmith/internal/client/editor"
	"github.com/slidesmith/slidesmith/internal/client/models"
	"github.com/slidesmith/slidesmith/internal/client/session"
	"github.com/slidesmith/slidesmith/internal/logging"
)

// UnauthorizedMessage replaces whatever the backend says on 401.
const UnauthorizedMessage = "Please log in to view your projects."

type State int

const (
	StateGuest State = iota
	StateEmpty
	StateError
	StateItems
)

func (s State) String() string {
	switch s {
	case StateGuest:
		return "guest"
	case StateEmpty:
		return "empty"
	case StateError:
		return "error"
	case StateItems:
		return "items"
	default:
		return "unknown"
	}
}

// View is the outcome of one dashboard load.
type View struct {
	State   State
	Items   []models.Item
	Status  int
	Message string
	// Stale is set when a newer load started before this one finished.
	Stale bool
}

// Lister is the part of the API client the loader needs.
type Lister interface {
	ListItems(ctx context.Context, token string) (models.Listing, error)
}

type Loader struct {
	api Lister
	log logging.Logger
	seq editor.Sequencer
}

func NewLoader(api Lister, log logging.Logger) *Loader {
	return &Loader{api: api, log: log.With("component", "dashboard")}
}

// Load fetches and aggregates the listing for the current session. Without
// a token no request is made. Failures become an error view, never an
// error return.
func (l *Loader) Load(ctx context.Context, sess session.Source) View {
	ticket := l.seq.Next("listing")
	v := l.load(ctx, sess.Snapshot())
	v.Stale = !l.seq.Current(ticket)
	return v
}

func (l *Loader) load(ctx context.Context, snap session.Snapshot) View {
	if !snap.Authenticated() {
		return View{State: StateGuest}
	}

	listing, err := l.api.ListItems(ctx, snap.Token)
	if err != nil {
		return l.failure(ctx, err)
	}

	items := Aggregate(listing)
	if len(items) == 0 {
		return View{State: StateEmpty, Status: http.StatusOK}
	}
	return View{State: StateItems, Items: items, Status: http.StatusOK}
}

func (l *Loader) failure(ctx context.Context, err error) View {
	status := client.StatusOf(err)
	switch {
	case errors.Is(err, client.ErrNotFound):
		return View{State: StateEmpty, Status: status}
	case errors.Is(err, client.ErrUnauthorized):
		return View{State: StateError, Status: status, Message: UnauthorizedMessage}
	case status != 0:
		msg := fmt.Sprintf("Request failed (%d)", status)
		if d := client.DetailOf(err); d != "" {
			msg += ": " + d
		}
		return View{State: StateError, Status: status, Message: msg}
	default:
		l.log.Error(ctx, "dashboard load failed", "error", err)
		return View{State: StateError, Message: err.Error()}
	}
}
