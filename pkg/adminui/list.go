package adminui

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"video-portfolio/pkg/models"
	"video-portfolio/pkg/ordering"
)

var ErrBusy = errors.New("a reorder is already in progress")

type API interface {
	Videos(ctx context.Context) ([]models.Video, error)
	Reorder(ctx context.Context, ids []string) (int, error)
}

// Outcome describes one reorder attempt. Changed is false when the move was a no-op and
// nothing was sent.
type Outcome struct {
	Changed   bool
	Requested int
	Updated   int
}

// List is the admin video list. Moves are shown immediately, sent as a full reorder, and
// followed by a reload of the server's list whatever the result.
type List struct {
	api API

	mu      sync.Mutex
	videos  []models.Video
	dragged string
	busy    bool
}

func NewList(api API) *List {
	return &List{api: api}
}

func (l *List) Load(ctx context.Context) error {
	videos, err := l.api.Videos(ctx)
	if err != nil {
		return err
	}
	l.mu.Lock()
	l.videos = videos
	l.mu.Unlock()
	return nil
}

func (l *List) Videos() []models.Video {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.Video(nil), l.videos...)
}

func (l *List) IDs() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.ids()
}

func (l *List) ids() []string {
	out := make([]string, len(l.videos))
	for i, v := range l.videos {
		out[i] = v.ID
	}
	return out
}

func (l *List) Busy() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.busy
}

func (l *List) Move(ctx context.Context, id string, dir ordering.Direction) (Outcome, error) {
	l.mu.Lock()
	next, ok := ordering.Move(l.ids(), id, dir)
	l.mu.Unlock()
	if !ok {
		return Outcome{}, nil
	}
	return l.apply(ctx, next)
}

func (l *List) BeginDrag(id string) {
	l.mu.Lock()
	l.dragged = id
	l.mu.Unlock()
}

func (l *List) Dragged() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dragged
}

func (l *List) CancelDrag() {
	l.BeginDrag("")
}

// DropOn ends the current drag on target.
func (l *List) DropOn(ctx context.Context, target string) (Outcome, error) {
	l.mu.Lock()
	dragged := l.dragged
	l.dragged = ""
	next, ok := ordering.Drop(l.ids(), dragged, target)
	l.mu.Unlock()
	if dragged == "" || !ok {
		return Outcome{}, nil
	}
	return l.apply(ctx, next)
}

// Apply sends an explicit order, e.g. from the command line.
func (l *List) Apply(ctx context.Context, ids []string) (Outcome, error) {
	return l.apply(ctx, ids)
}

func (l *List) apply(ctx context.Context, ids []string) (Outcome, error) {
	l.mu.Lock()
	if l.busy {
		l.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	l.busy = true
	l.videos = arrange(l.videos, ids)
	l.mu.Unlock()

	updated, err := l.api.Reorder(ctx, ids)

	l.mu.Lock()
	l.busy = false
	l.mu.Unlock()

	out := Outcome{Changed: true, Requested: len(ids), Updated: updated}
	if reloadErr := l.Load(ctx); reloadErr != nil && err == nil {
		err = errors.Wrap(reloadErr, "reload after reorder")
	}
	return out, err
}

// arrange returns videos in ids order. Unknown ids are skipped and videos missing from ids
// keep their relative order at the end.
func arrange(videos []models.Video, ids []string) []models.Video {
	byID := make(map[string]models.Video, len(videos))
	for _, v := range videos {
		byID[v.ID] = v
	}
	out := make([]models.Video, 0, len(videos))
	placed := make(map[string]bool, len(ids))
	for i, id := range ids {
		v, ok := byID[id]
		if !ok || placed[id] {
			continue
		}
		v.Order = i + 1
		out = append(out, v)
		placed[id] = true
	}
	for _, v := range videos {
		if !placed[v.ID] {
			out = append(out, v)
		}
	}
	return out
}
