package newsletter

import (
	"log"
	"net/http"

	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
	"github.com/officialpathway/pathwei-website/internal/platform/httpx"
)

// PathSubscribe is the public signup endpoint.
const PathSubscribe = "/api/newsletter"

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
	Locale string `json:"locale"`
}

type subscribeResponse struct {
	Email   string `json:"email"`
	Created bool   `json:"created"`
}

// SubscribeHandler accepts signups as JSON or a urlencoded form. locale
// resolves the visitor language when the request does not name one.
func SubscribeHandler(store *Store, locale func(*http.Request) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if httpx.IsJSONRequest(r) {
			if err := httpx.DecodeJSON(r, &req); err != nil {
				httpx.WriteError(w, r, err)
				return
			}
		} else {
			if err := r.ParseForm(); err != nil {
				httpx.WriteError(w, r, apperrors.New(apperrors.CodeInvalidArgument, "invalid form body"))
				return
			}
			req.Email = r.PostForm.Get("email")
			req.Source = r.PostForm.Get("source")
			req.Locale = r.PostForm.Get("locale")
		}
		if req.Locale == "" && locale != nil {
			req.Locale = locale(r)
		}

		sub, created, err := store.Subscribe(r.Context(), req.Email, req.Source, req.Locale)
		if err != nil {
			httpx.WriteError(w, r, err)
			return
		}
		status := http.StatusOK
		if created {
			status = http.StatusCreated
			log.Printf("newsletter signup source=%s locale=%s", sub.Source, sub.Locale)
		}
		_ = httpx.WriteJSON(w, status, subscribeResponse{Email: sub.Email, Created: created})
	}
}
