package web

import (
	"context"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"support-console/internal/backend"
	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
)

// continuationWait bounds how long resolving a confirmation waits for the confirmed
// action to finish, so its toast shows on the page the browser lands on.
const continuationWait = 10 * time.Second

// continuation is the work queued behind one confirmation dialog.
type continuation struct {
	back string        // where the browser returns after resolving
	done chan struct{} // closed when the action finished or was abandoned
}

// continuationStore maps confirmation ids to their continuations.
type continuationStore struct {
	mu    sync.Mutex
	items map[string]*continuation
}

func newContinuationStore() *continuationStore {
	return &continuationStore{items: make(map[string]*continuation)}
}

func (s *continuationStore) put(id string, c *continuation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[id] = c
}

func (s *continuationStore) get(id string) (*continuation, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.items[id]
	return c, ok
}

func (s *continuationStore) delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, id)
}

// confirmThen opens a confirmation dialog and redirects the browser back to back,
// where the dialog renders. action runs only if the user accepts, bound to the
// workspace context so it is abandoned when the workspace logs out or expires.
func (h *Handler) confirmThen(w http.ResponseWriter, r *http.Request, ws *core.Workspace, req core.ConfirmRequest, back string, action func(ctx context.Context)) {
	p := ws.Gate.Open(req)
	c := &continuation{back: back, done: make(chan struct{})}
	h.continuations.put(p.ID, c)

	ctx := ws.Context()
	go func() {
		defer close(c.done)
		defer h.continuations.delete(p.ID)
		ok, err := p.Wait(ctx)
		switch {
		case err != nil:
			if !errors.Is(err, core.ErrGateClosed) && !errors.Is(err, context.Canceled) {
				log.Printf("workspace %s: confirmation %q: %v", ws.ID, req.Title, err)
			}
			return
		case !ok:
			return
		}
		action(ctx)
	}()
	http.Redirect(w, r, back, http.StatusSeeOther)
}

// resolveConfirm handles POST /confirm/{id} with action=confirm|cancel.
func (h *Handler) resolveConfirm(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Invalid form submission.", core.HomePath)
		return
	}
	accepted := r.FormValue("action") == "confirm"

	c, known := h.continuations.get(id)
	if err := ws.Gate.Resolve(id, accepted); err != nil {
		notifyAndRedirect(w, r, ws, core.NotifyInfo, "That confirmation is no longer pending.", core.HomePath)
		return
	}
	if !known {
		http.Redirect(w, r, core.HomePath, http.StatusSeeOther)
		return
	}
	if accepted {
		select {
		case <-c.done:
		case <-time.After(continuationWait):
			ws.Notifier.Notify(core.NotifyInfo, "Still working on it. Refresh in a moment.")
		case <-r.Context().Done():
			return
		}
	}
	http.Redirect(w, r, c.back, http.StatusSeeOther)
}

// confirmed wraps a backend call as a confirmation continuation: success or failure
// ends up as a toast, and a 401 signs the workspace out.
func confirmed(ws *core.Workspace, success, failure string, call func(ctx context.Context) error) func(ctx context.Context) {
	return func(ctx context.Context) {
		err := call(ctx)
		switch {
		case err == nil:
			ws.Notifier.Notify(core.NotifySuccess, success)
		case backend.IsUnauthorized(err):
			if lerr := ws.Logout(context.WithoutCancel(ctx)); lerr != nil {
				log.Printf("workspace %s: logout after 401: %v", ws.ID, lerr)
			}
			ws.Notifier.Notify(core.NotifyError, "Your session has expired. Please sign in again.")
		default:
			log.Printf("workspace %s: %s: %v", ws.ID, failure, err)
			ws.Notifier.Notify(core.NotifyError, backend.Message(err, failure))
		}
	}
}
