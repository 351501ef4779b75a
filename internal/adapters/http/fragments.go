package http

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/a-h/templ"
	"go.uber.org/zap"
)

func renderHTMLFragments(ctx context.Context, w http.ResponseWriter, status int, fragments ...templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	for _, fragment := range fragments {
		if fragment == nil {
			continue
		}
		_ = fragment.Render(ctx, w)
	}
}

func (h *Handler) renderFlash(ctx context.Context, w http.ResponseWriter, status int, message string) {
	kind := "info"
	if status >= 400 {
		kind = "error"
	}
	renderHTMLFragments(ctx, w, status, flash(message, kind))
}

// renderCommandError maps a service error onto a flash fragment. Internal
// failures are logged and never echoed back.
func (h *Handler) renderCommandError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("command failed", zap.String("path", r.URL.Path), zap.Error(err))
		message = "internal error"
	}
	h.renderFlash(r.Context(), w, status, message)
}

func flash(message, kind string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<div id="flash" class="flash flash-%s">%s</div>`,
			templ.EscapeString(kind), templ.EscapeString(message))
		return err
	})
}

func loginPage(errMessage string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!doctype html><html><head><meta charset="utf-8"><title>PCESP | Sign in</title></head><body><main class="login">`); err != nil {
			return err
		}
		if errMessage != "" {
			if err := flash(errMessage, "error").Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `<form method="post" action="/login">`+
			`<label>Badge <input name="badge" autocomplete="username" required></label>`+
			`<label>Password <input name="password" type="password" autocomplete="current-password" required></label>`+
			`<button type="submit">Sign in</button></form></main></body></html>`)
		return err
	})
}

func itemRow(item domain.SeizedItem) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w,
			`<tr id="item-%d"><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td><td>%s</td></tr>`,
			item.ID,
			templ.EscapeString(item.Serial),
			templ.EscapeString(item.Category),
			templ.EscapeString(item.Model),
			templ.EscapeString(string(item.Collection)),
			templ.EscapeString(string(item.Status)),
			templ.EscapeString(item.Location))
		return err
	})
}

func officerRankBadge(o domain.Officer) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<span id="officer-%d-rank" class="rank" data-level="%d">%s</span>`,
			o.ID, o.EffectiveLevel(), templ.EscapeString(o.RankName()))
		return err
	})
}

func reportStatusBadge(report domain.IncidentReport) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<span id="report-%d-status" class="status">%s</span>`,
			report.ID, templ.EscapeString(report.Status))
		return err
	})
}
