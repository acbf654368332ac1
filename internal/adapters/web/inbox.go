package web

import (
	"net/http"
	"net/url"
	"strings"

	"support-console/internal/app"
	"support-console/internal/core"

	"github.com/go-chi/chi/v5"
)

const maxReplyLength = 10000

type inboxView struct {
	Threads []app.Thread
	Channel app.Channel
	Status  string
}

// inboxPage handles GET /inbox?channel=&status=.
func (h *Handler) inboxPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	ws.Title.SetTitle("Inbox")

	view := inboxView{
		Channel: app.Channel(r.URL.Query().Get("channel")),
		Status:  r.URL.Query().Get("status"),
	}
	if view.Channel != "" && !view.Channel.Valid() {
		ws.Notifier.Notify(core.NotifyError, "Unknown channel "+string(view.Channel)+".")
		view.Channel = ""
	}

	if companyID := requireCompany(ws); companyID != "" {
		threads, err := h.service(ws).ListThreads(r.Context(), companyID, app.ThreadFilter{Channel: view.Channel, Status: view.Status})
		if err != nil && h.backendFailed(w, r, ws, err, "Failed to fetch messages") {
			return
		}
		view.Threads = threads
	}
	h.renderApp(w, r, ws, "inbox", "inbox", view)
}

type threadView struct {
	Detail *app.ThreadDetail
}

// threadPage handles GET /inbox/{threadID}.
func (h *Handler) threadPage(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	detail, err := h.service(ws).GetThread(r.Context(), chi.URLParam(r, "threadID"))
	if err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to fetch the conversation") {
			http.Redirect(w, r, "/inbox", http.StatusSeeOther)
		}
		return
	}
	ws.Title.SetTitle(threadTitle(detail.Thread))
	h.renderApp(w, r, ws, "thread", "inbox", threadView{Detail: detail})
}

func threadPath(id string) string {
	return "/inbox/" + url.PathEscape(id)
}

func threadTitle(t app.Thread) string {
	if t.Subject != "" {
		return t.Subject
	}
	if t.CustomerName != "" {
		return t.CustomerName
	}
	return "Conversation"
}

// reply handles POST /inbox/{threadID}/reply.
func (h *Handler) reply(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	threadID := chi.URLParam(r, "threadID")
	back := threadPath(threadID)

	req := app.ReplyRequest{
		ThreadID: threadID,
		Channel:  app.Channel(r.FormValue("channel")),
		Body:     strings.TrimSpace(r.FormValue("body")),
	}
	switch {
	case !req.Channel.Valid():
		notifyAndRedirect(w, r, ws, core.NotifyError, "Choose a channel to reply on.", back)
		return
	case req.Body == "":
		notifyAndRedirect(w, r, ws, core.NotifyError, "Reply cannot be empty.", back)
		return
	case len(req.Body) > maxReplyLength:
		notifyAndRedirect(w, r, ws, core.NotifyError, "Reply is too long.", back)
		return
	}

	if _, err := h.service(ws).Reply(r.Context(), req); err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to send reply") {
			http.Redirect(w, r, back, http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Reply sent.", back)
}

// addComment handles POST /inbox/{threadID}/comments. Read-only users may leave
// internal notes.
func (h *Handler) addComment(w http.ResponseWriter, r *http.Request) {
	ws := workspaceFromContext(r.Context())
	threadID := chi.URLParam(r, "threadID")
	back := threadPath(threadID)

	body := strings.TrimSpace(r.FormValue("body"))
	if body == "" {
		notifyAndRedirect(w, r, ws, core.NotifyError, "Comment cannot be empty.", back)
		return
	}
	if _, err := h.service(ws).AddComment(r.Context(), threadID, body); err != nil {
		if !h.backendFailed(w, r, ws, err, "Failed to add comment") {
			http.Redirect(w, r, back, http.StatusSeeOther)
		}
		return
	}
	notifyAndRedirect(w, r, ws, core.NotifySuccess, "Comment added.", back)
}
