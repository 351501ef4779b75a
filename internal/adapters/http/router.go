package http

import (
	"net/http"
	"time"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const sessionCookieName = "pcesp_session"

type Options struct {
	Logger     *zap.Logger
	Gatherer   prometheus.Gatherer
	UploadDir  string
	SessionTTL time.Duration
}

type Handler struct {
	service    *application.RecordsService
	logger     *zap.Logger
	sessionTTL time.Duration
}

func NewRouter(service *application.RecordsService, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 12 * time.Hour
	}
	h := &Handler{service: service, logger: opts.Logger, sessionTTL: opts.SessionTTL}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(h.logRequests)
	r.Use(h.recoverPanics)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)

	if opts.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))
	}
	if opts.UploadDir != "" {
		files := http.StripPrefix("/files/", http.FileServer(http.Dir(opts.UploadDir)))
		r.With(h.requireAuthGUI).Get("/files/*", files.ServeHTTP)
	}

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/login", h.handleAPILogin)
		api.Get("/announcements", h.handleAPIListAnnouncements)

		api.Group(func(api chi.Router) {
			api.Use(h.requireAuthAPI)

			api.Get("/auth/whoami", h.handleAPIWhoAmI)
			api.Post("/auth/logout", h.handleAPILogout)

			api.Get("/ranks", h.handleAPIListRanks)
			api.Post("/ranks", h.handleAPICreateRank)

			api.Get("/officers", h.handleAPIListOfficers)
			api.Post("/officers", h.handleAPIRegisterOfficer)
			api.Get("/officers/{id}", h.handleAPIGetProfile)
			api.Patch("/officers/{id}", h.handleAPIUpdateProfile)
			api.Delete("/officers/{id}", h.handleAPIDeleteOfficer)
			api.Post("/officers/{id}/photo", h.handleAPIUploadPhoto)
			api.Post("/officers/{id}/rank", h.handleAPIChangeRank)
			api.Post("/officers/{id}/discipline", h.handleAPIApplyDiscipline)
			api.Get("/officers/{id}/history", h.handleAPIPersonnelHistory)

			api.Get("/items", h.handleAPIListItems)
			api.Post("/items", h.handleAPIRegisterItem)
			api.Get("/items/{id}", h.handleAPIGetItem)
			api.Get("/items/{id}/movements", h.handleAPIItemHistory)
			api.Post("/items/{id}/movements", h.handleAPIMoveItem)

			api.Get("/reports", h.handleAPIListReports)
			api.Post("/reports", h.handleAPICreateReport)
			api.Get("/reports/{id}", h.handleAPIGetReport)
			api.Put("/reports/{id}", h.handleAPIUpdateReport)
			api.Post("/reports/{id}/toggle", h.handleAPIToggleReport)
			api.Post("/reports/{id}/attachments", h.handleAPIAddAttachment)
			api.Delete("/attachments/{id}", h.handleAPIRemoveAttachment)

			api.Get("/arrests", h.handleAPIListArrests)
			api.Post("/arrests", h.handleAPICreateArrest)
			api.Get("/arrests/{id}", h.handleAPIGetArrest)
			api.Put("/arrests/{id}", h.handleAPIUpdateArrest)

			api.Get("/citizens", h.handleAPISearchCitizens)
			api.Post("/citizens", h.handleAPIRegisterCitizen)
			api.Get("/crimes", h.handleAPIListCrimes)
			api.Post("/crimes", h.handleAPICreateCrime)

			api.Post("/announcements", h.handleAPIPublishAnnouncement)
			api.Get("/announcements/all", h.handleAPIListAllAnnouncements)
			api.Delete("/announcements/{id}", h.handleAPIDeleteAnnouncement)

			api.Get("/audit/logs", h.handleAPIListAuditLogs)
		})
	})

	r.Group(func(gui chi.Router) {
		gui.Use(h.requireAuthGUI)

		gui.Post("/commands/items", h.handleRegisterItemCommand)
		gui.Post("/commands/items/{id}/move", h.handleMoveItemCommand)
		gui.Post("/commands/officers/{id}/rank", h.handleChangeRankCommand)
		gui.Post("/commands/officers/{id}/discipline", h.handleDisciplineCommand)
		gui.Post("/commands/reports/{id}/toggle", h.handleToggleReportCommand)
	})

	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		info := &requestInfo{}
		next.ServeHTTP(ww, r.WithContext(withRequestInfo(r.Context(), info)))

		fields := []zap.Field{
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		}
		if info.officerID != 0 {
			fields = append(fields, zap.Uint("officer_id", info.officerID))
		}
		h.logger.Info("http request", fields...)
	})
}

func (h *Handler) recoverPanics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				h.logger.Error("panic recovered",
					zap.String("request_id", middleware.GetReqID(r.Context())),
					zap.Any("error", rec),
					zap.Stack("stack"))
				writeJSON(w, http.StatusInternalServerError, map[string]any{"error": "internal error"})
			}
		}()
		next.ServeHTTP(w, r)
	})
}
