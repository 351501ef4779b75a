package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/starfederation/datastar-go/datastar"
)

type itemSignals struct {
	ItemCollection string `json:"itemCollection"`
	ItemCategory   string `json:"itemCategory"`
	ItemModel      string `json:"itemModel"`
	ItemBrand      string `json:"itemBrand"`
	ItemCaliber    string `json:"itemCaliber"`
	ItemSerial     string `json:"itemSerial"`
	ItemReportID   string `json:"itemReportId"`
	ItemArrestID   string `json:"itemArrestId"`
}

func (h *Handler) handleRegisterItemCommand(w http.ResponseWriter, r *http.Request) {
	var sig itemSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid item payload")
		return
	}
	reportID, err := optionalID(sig.ItemReportID)
	if err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "Report ID must be a number")
		return
	}
	arrestID, err := optionalID(sig.ItemArrestID)
	if err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "Arrest ID must be a number")
		return
	}

	item, err := h.service.RegisterItem(r.Context(), actor(r.Context()), application.RegisterItemInput{
		Collection: domain.CollectionType(strings.TrimSpace(sig.ItemCollection)),
		Category:   sig.ItemCategory,
		Model:      sig.ItemModel,
		Brand:      sig.ItemBrand,
		Caliber:    sig.ItemCaliber,
		Serial:     sig.ItemSerial,
		ReportID:   reportID,
		ArrestID:   arrestID,
	})
	if err != nil {
		h.renderCommandError(w, r, err)
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		flash("Item "+item.Serial+" registered", "info"),
		itemRow(item))
}

type moveSignals struct {
	MoveType        string `json:"moveType"`
	MoveSelector    string `json:"moveSelector"`
	MoveFreeText    string `json:"moveFreeText"`
	MoveDestination string `json:"moveDestination"`
	MoveNote        string `json:"moveNote"`
}

func (h *Handler) handleMoveItemCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commandID(w, r)
	if !ok {
		return
	}
	var sig moveSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid movement payload")
		return
	}
	item, _, err := h.service.MoveItem(r.Context(), actor(r.Context()), id, application.MoveItemInput{
		MovementType: domain.MovementType(strings.TrimSpace(sig.MoveType)),
		Selector:     sig.MoveSelector,
		FreeText:     sig.MoveFreeText,
		Destination:  sig.MoveDestination,
		Note:         sig.MoveNote,
	})
	if err != nil {
		h.renderCommandError(w, r, err)
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		flash("Movement recorded", "info"),
		itemRow(item))
}

type rankSignals struct {
	RankID     string `json:"rankId"`
	RankReason string `json:"rankReason"`
}

func (h *Handler) handleChangeRankCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commandID(w, r)
	if !ok {
		return
	}
	var sig rankSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid rank payload")
		return
	}
	rankID, err := optionalID(sig.RankID)
	if err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "Rank ID must be a number")
		return
	}
	o, err := h.service.ChangeRank(r.Context(), actor(r.Context()), id, rankID, sig.RankReason)
	if err != nil {
		h.renderCommandError(w, r, err)
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		flash("Rank updated", "info"),
		officerRankBadge(o))
}

type disciplineSignals struct {
	DisciplineCategory    string `json:"disciplineCategory"`
	DisciplineDescription string `json:"disciplineDescription"`
}

func (h *Handler) handleDisciplineCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commandID(w, r)
	if !ok {
		return
	}
	var sig disciplineSignals
	if err := datastar.ReadSignals(r, &sig); err != nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid disciplinary payload")
		return
	}
	if _, err := h.service.ApplyDiscipline(r.Context(), actor(r.Context()), id, sig.DisciplineCategory, sig.DisciplineDescription); err != nil {
		h.renderCommandError(w, r, err)
		return
	}
	h.renderFlash(r.Context(), w, http.StatusOK, "Disciplinary record added")
}

func (h *Handler) handleToggleReportCommand(w http.ResponseWriter, r *http.Request) {
	id, ok := h.commandID(w, r)
	if !ok {
		return
	}
	report, err := h.service.ToggleReportStatus(r.Context(), actor(r.Context()), id)
	if err != nil {
		h.renderCommandError(w, r, err)
		return
	}
	renderHTMLFragments(r.Context(), w, http.StatusOK,
		flash("Report "+report.Number()+" is now "+report.Status, "info"),
		reportStatusBadge(report))
}

func (h *Handler) commandID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	id, err := optionalID(chi.URLParam(r, "id"))
	if err != nil || id == nil {
		h.renderFlash(r.Context(), w, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return *id, true
}

// optionalID parses a signal that may be left blank. Blank means nil.
func optionalID(raw string) (*uint, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, err
	}
	v := uint(parsed)
	return &v, nil
}
