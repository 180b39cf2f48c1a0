package http

import (
	"net/http"
	"strings"
)

type RouterConfig struct {
	Users      *UserHandler
	Schedules  *ScheduleHandler
	Middleware []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	mux := http.NewServeMux()

	if cfg.Users != nil {
		mux.HandleFunc("/users", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Users.List(w, r)
		})
	}

	if cfg.Schedules != nil {
		mux.HandleFunc("/schedules/view", func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedules.ViewAll(w, r)
		})
	}

	mux.HandleFunc("/users/", func(w http.ResponseWriter, r *http.Request) {
		rest := strings.TrimPrefix(r.URL.Path, "/users/")
		if rest == "" {
			http.NotFound(w, r)
			return
		}

		id, sub, _ := strings.Cut(rest, "/")
		if id == "" {
			http.NotFound(w, r)
			return
		}
		r = r.WithContext(ContextWithUserID(r.Context(), id))

		switch sub {
		case "":
			if cfg.Users == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Users.Get(w, r)
		case "timezone":
			if cfg.Users == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Users.SetTimezone(w, r)
		case "status":
			if cfg.Users == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodPut {
				methodNotAllowed(w, http.MethodPut)
				return
			}
			cfg.Users.SetStatus(w, r)
		case "schedule":
			if cfg.Schedules == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.List(w, r)
			case http.MethodPut:
				cfg.Schedules.SetEntry(w, r)
			case http.MethodDelete:
				cfg.Schedules.Clear(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut, http.MethodDelete)
			}
		case "schedule/view":
			if cfg.Schedules == nil {
				http.NotFound(w, r)
				return
			}
			if r.Method != http.MethodGet {
				methodNotAllowed(w, http.MethodGet)
				return
			}
			cfg.Schedules.View(w, r)
		case "default":
			if cfg.Schedules == nil {
				http.NotFound(w, r)
				return
			}
			switch r.Method {
			case http.MethodGet:
				cfg.Schedules.GetDefault(w, r)
			case http.MethodPut:
				cfg.Schedules.SetDefault(w, r)
			default:
				methodNotAllowed(w, http.MethodGet, http.MethodPut)
			}
		default:
			http.NotFound(w, r)
		}
	})

	var handler http.Handler = mux
	if len(cfg.Middleware) > 0 {
		for i := len(cfg.Middleware) - 1; i >= 0; i-- {
			if cfg.Middleware[i] != nil {
				handler = cfg.Middleware[i](handler)
			}
		}
	}

	return handler
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	if len(allowed) > 0 {
		w.Header().Set("Allow", strings.Join(allowed, ", "))
	}
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
