package http

import (
	"net/http"
	"strings"

	"github.com/SoloPlayerFront-Dev/pcesp/internal/application"
	"github.com/SoloPlayerFront-Dev/pcesp/internal/domain"
)

type rankRequest struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
}

func (h *Handler) handleAPIListRanks(w http.ResponseWriter, r *http.Request) {
	ranks, err := h.service.ListRanks(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ranks": ranks})
}

func (h *Handler) handleAPICreateRank(w http.ResponseWriter, r *http.Request) {
	var req rankRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rank, err := h.service.CreateRank(r.Context(), actor(r.Context()), req.Name, req.Level)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rank)
}

type officerRequest struct {
	Name       string `json:"name"`
	Badge      string `json:"badge"`
	Password   string `json:"password"`
	RankID     *uint  `json:"rank_id"`
	Station    string `json:"station"`
	Department string `json:"department"`
	Address    string `json:"address"`
	Notes      string `json:"notes"`
}

type profilePatch struct {
	Name       *string `json:"name"`
	Badge      *string `json:"badge"`
	Password   *string `json:"password"`
	Station    *string `json:"station"`
	Department *string `json:"department"`
	Address    *string `json:"address"`
	Notes      *string `json:"notes"`
}

func (h *Handler) handleAPIListOfficers(w http.ResponseWriter, r *http.Request) {
	officers, err := h.service.ListOfficers(r.Context(), r.URL.Query().Get("q"), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"officers": officers})
}

func (h *Handler) handleAPIRegisterOfficer(w http.ResponseWriter, r *http.Request) {
	var req officerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.service.RegisterOfficer(r.Context(), actor(r.Context()), application.RegisterOfficerInput{
		Name:       req.Name,
		Badge:      req.Badge,
		Password:   req.Password,
		RankID:     req.RankID,
		Station:    req.Station,
		Department: req.Department,
		Address:    req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) handleAPIGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	profile, err := h.service.GetProfile(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *Handler) handleAPIUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req profilePatch
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.service.UpdateProfile(r.Context(), actor(r.Context()), id, application.ProfileUpdate{
		Name:       req.Name,
		Badge:      req.Badge,
		Password:   req.Password,
		Station:    req.Station,
		Department: req.Department,
		Address:    req.Address,
		Notes:      req.Notes,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleAPIUploadPhoto(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	upload, cleanup, ok := readUpload(w, r, "photo")
	if !ok {
		return
	}
	defer cleanup()

	o, err := h.service.UpdateProfile(r.Context(), actor(r.Context()), id, application.ProfileUpdate{
		PhotoName: upload.Name,
		Photo:     upload.Content,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) handleAPIDeleteOfficer(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteOfficer(r.Context(), actor(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

type rankChangeRequest struct {
	RankID *uint  `json:"rank_id"`
	Reason string `json:"reason"`
}

func (h *Handler) handleAPIChangeRank(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req rankChangeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	o, err := h.service.ChangeRank(r.Context(), actor(r.Context()), id, req.RankID, req.Reason)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

type disciplineRequest struct {
	Category    string `json:"category"`
	Description string `json:"description"`
}

func (h *Handler) handleAPIApplyDiscipline(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req disciplineRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	record, err := h.service.ApplyDiscipline(r.Context(), actor(r.Context()), id, req.Category, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (h *Handler) handleAPIPersonnelHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	promotions, disciplinary, err := h.service.PersonnelHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"promotions": promotions, "disciplinary": disciplinary})
}

type itemRequest struct {
	Collection string `json:"collection"`
	Category   string `json:"category"`
	Model      string `json:"model"`
	Brand      string `json:"brand"`
	Caliber    string `json:"caliber"`
	Serial     string `json:"serial"`
	ReportID   *uint  `json:"report_id"`
	ArrestID   *uint  `json:"arrest_id"`
}

func (req itemRequest) input() application.RegisterItemInput {
	return application.RegisterItemInput{
		Collection: domain.CollectionType(req.Collection),
		Category:   req.Category,
		Model:      req.Model,
		Brand:      req.Brand,
		Caliber:    req.Caliber,
		Serial:     req.Serial,
		ReportID:   req.ReportID,
		ArrestID:   req.ArrestID,
	}
}

type movementRequest struct {
	MovementType string `json:"movement_type"`
	Selector     string `json:"selector"`
	FreeText     string `json:"free_text"`
	Destination  string `json:"destination"`
	Note         string `json:"note"`
}

func (req movementRequest) input() application.MoveItemInput {
	return application.MoveItemInput{
		MovementType: domain.MovementType(req.MovementType),
		Selector:     req.Selector,
		FreeText:     req.FreeText,
		Destination:  req.Destination,
		Note:         req.Note,
	}
}

func (h *Handler) handleAPIListItems(w http.ResponseWriter, r *http.Request) {
	var collection *domain.CollectionType
	if raw := strings.TrimSpace(r.URL.Query().Get("collection")); raw != "" {
		c := domain.CollectionType(raw)
		collection = &c
	}
	items, err := h.service.ListItems(r.Context(), collection)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) handleAPIRegisterItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.service.RegisterItem(r.Context(), actor(r.Context()), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) handleAPIGetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	item, err := h.service.GetItem(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) handleAPIItemHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	movements, err := h.service.ItemHistory(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"movements": movements})
}

func (h *Handler) handleAPIMoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req movementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, movement, err := h.service.MoveItem(r.Context(), actor(r.Context()), id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"item": item, "movement": movement})
}

type reportRequest struct {
	Complainant        string `json:"complainant"`
	Victim             string `json:"victim"`
	Nature             string `json:"nature"`
	Description        string `json:"description"`
	ResponsibleOfficer string `json:"responsible_officer"`
	Status             string `json:"status"`
}

func (req reportRequest) input() application.ReportInput {
	return application.ReportInput{
		Complainant:        req.Complainant,
		Victim:             req.Victim,
		Nature:             req.Nature,
		Description:        req.Description,
		ResponsibleOfficer: req.ResponsibleOfficer,
		Status:             req.Status,
	}
}

func (h *Handler) handleAPIListReports(w http.ResponseWriter, r *http.Request) {
	reports, err := h.service.ListReports(r.Context(), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (h *Handler) handleAPICreateReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.service.CreateReport(r.Context(), actor(r.Context()), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, report)
}

func (h *Handler) handleAPIGetReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetReportDetails(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleAPIUpdateReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req reportRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	report, err := h.service.UpdateReport(r.Context(), actor(r.Context()), id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAPIToggleReport(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	report, err := h.service.ToggleReportStatus(r.Context(), actor(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleAPIAddAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	upload, cleanup, ok := readUpload(w, r, "file")
	if !ok {
		return
	}
	defer cleanup()

	attachment, err := h.service.AddReportAttachment(r.Context(), actor(r.Context()), id, upload)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, attachment)
}

func (h *Handler) handleAPIRemoveAttachment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	reportID, err := h.service.RemoveReportAttachment(r.Context(), actor(r.Context()), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "report_id": reportID})
}

type arrestRequest struct {
	Detainee    string `json:"detainee"`
	Nature      string `json:"nature"`
	Description string `json:"description"`
	Witnesses   string `json:"witnesses"`
}

func (req arrestRequest) input() application.ArrestInput {
	return application.ArrestInput{
		Detainee:    req.Detainee,
		Nature:      req.Nature,
		Description: req.Description,
		Witnesses:   req.Witnesses,
	}
}

func (h *Handler) handleAPIListArrests(w http.ResponseWriter, r *http.Request) {
	arrests, err := h.service.ListArrests(r.Context(), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"arrests": arrests})
}

func (h *Handler) handleAPICreateArrest(w http.ResponseWriter, r *http.Request) {
	var req arrestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	arrest, err := h.service.CreateArrest(r.Context(), actor(r.Context()), req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, arrest)
}

func (h *Handler) handleAPIGetArrest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	details, err := h.service.GetArrestDetails(r.Context(), id)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *Handler) handleAPIUpdateArrest(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req arrestRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	arrest, err := h.service.UpdateArrest(r.Context(), actor(r.Context()), id, req.input())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, arrest)
}

type citizenRequest struct {
	Name       string `json:"name"`
	Document   string `json:"document"`
	BirthDate  string `json:"birth_date"`
	MotherName string `json:"mother_name"`
	Address    string `json:"address"`
	Record     string `json:"record"`
}

func (h *Handler) handleAPISearchCitizens(w http.ResponseWriter, r *http.Request) {
	citizens, err := h.service.SearchCitizens(r.Context(), r.URL.Query().Get("q"), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"citizens": citizens})
}

func (h *Handler) handleAPIRegisterCitizen(w http.ResponseWriter, r *http.Request) {
	var req citizenRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	citizen, err := h.service.RegisterCitizen(r.Context(), actor(r.Context()), application.CitizenInput{
		Name:       req.Name,
		Document:   req.Document,
		BirthDate:  req.BirthDate,
		MotherName: req.MotherName,
		Address:    req.Address,
		Record:     req.Record,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, citizen)
}

type crimeRequest struct {
	Name    string `json:"name"`
	Article string `json:"article"`
	Penalty string `json:"penalty"`
}

func (h *Handler) handleAPIListCrimes(w http.ResponseWriter, r *http.Request) {
	crimes, err := h.service.ListCrimes(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"crimes": crimes})
}

func (h *Handler) handleAPICreateCrime(w http.ResponseWriter, r *http.Request) {
	var req crimeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	crime, err := h.service.CreateCrime(r.Context(), actor(r.Context()), req.Name, req.Article, req.Penalty)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, crime)
}

type announcementRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

func (h *Handler) handleAPIListAnnouncements(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.service.ListAnnouncements(r.Context(), q.Get("category"), q.Get("q"), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcements": list})
}

func (h *Handler) handleAPIListAllAnnouncements(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListAllAnnouncements(r.Context(), actor(r.Context()), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"announcements": list})
}

func (h *Handler) handleAPIPublishAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req announcementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	a, err := h.service.PublishAnnouncement(r.Context(), actor(r.Context()), application.AnnouncementInput{
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
		Priority: req.Priority,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (h *Handler) handleAPIDeleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.service.DeleteAnnouncement(r.Context(), actor(r.Context()), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (h *Handler) handleAPIListAuditLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.service.ListAuditLogs(r.Context(), actor(r.Context()), queryLimit(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"logs": logs})
}

// readUpload pulls a single multipart file field out of the request.
func readUpload(w http.ResponseWriter, r *http.Request, field string) (application.Upload, func(), bool) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid multipart payload"})
		return application.Upload{}, nil, false
	}
	file, header, err := r.FormFile(field)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "missing file field " + field})
		return application.Upload{}, nil, false
	}
	cleanup := func() {
		_ = file.Close()
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}
	return application.Upload{Name: header.Filename, Content: file}, cleanup, true
}
