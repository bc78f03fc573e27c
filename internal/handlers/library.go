package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"ImageLibrary/internal/cli/api"
	"ImageLibrary/internal/cli/model"
	"ImageLibrary/internal/cli/repo"
	"ImageLibrary/internal/cli/service"
	"ImageLibrary/internal/cli/store"
	"ImageLibrary/internal/config"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// LibraryHandler отдаёт рабочий набор библиотеки по HTTP.
type LibraryHandler struct {
	Library   *service.Library
	Workspace repo.WorkspaceRepository
	Logger    *zap.SugaredLogger
}

// NewLibraryHandler создаёт хендлер библиотеки
func NewLibraryHandler(lib *service.Library, ws repo.WorkspaceRepository, logger *zap.SugaredLogger) *LibraryHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &LibraryHandler{Library: lib, Workspace: ws, Logger: logger}
}

// EditRequest — тело POST /images/{id}/edit.
type EditRequest struct {
	Description            string            `json:"description"`
	Category               string            `json:"category"`
	Tags                   []string          `json:"tags"`
	AppMetadata            model.AppMetadata `json:"appMetadata"`
	LinkedProductGlobalIDs []int64           `json:"linkedProductGlobalIds"`
}

type listResponse struct {
	Count  int                   `json:"count"`
	Images []service.ExportImage `json:"images"`
}

type syncResponse struct {
	Uploaded      int    `json:"uploaded"`
	Reconciled    int    `json:"reconciled"`
	NothingToSync bool   `json:"nothingToSync"`
	Error         string `json:"error,omitempty"`
}

// List отдаёт отфильтрованное представление.
func (h *LibraryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	deleted, _ := strconv.ParseBool(q.Get("deleted"))
	list := h.Library.Filter(store.Query{
		Text:           q.Get("q"),
		Category:       q.Get("category"),
		Status:         q.Get("status"),
		IncludeDeleted: deleted,
	})
	writeJSON(w, http.StatusOK, listResponse{Count: len(list), Images: service.ExportImages(list)})
}

// Show отдаёт одну запись.
func (h *LibraryHandler) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	rec, err := h.Library.Get(id)
	if err != nil {
		h.fail(w, "Show", err)
		return
	}
	writeJSON(w, http.StatusOK, service.ExportImages([]model.ImageRecord{rec})[0])
}

// Preview отдаёт превью staged-записи.
func (h *LibraryHandler) Preview(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	path, err := h.Library.Preview(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			h.fail(w, "Preview", err)
			return
		}
		http.Error(w, "no preview", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	http.ServeFile(w, r, path)
}

// Stats отдаёт счётчики.
func (h *LibraryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Stats())
}

// Delete помечает запись удалённой.
func (h *LibraryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "Delete", h.Library.Delete)
}

// Restore снимает пометку удаления.
func (h *LibraryHandler) Restore(w http.ResponseWriter, r *http.Request) {
	h.toggle(w, r, "Restore", h.Library.Restore)
}

func (h *LibraryHandler) toggle(w http.ResponseWriter, r *http.Request, op string, fn func(int64) error) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	if err := fn(id); err != nil {
		h.fail(w, op, err)
		return
	}
	h.persist(op)
	w.WriteHeader(http.StatusNoContent)
}

// Edit меняет редактируемые поля записи.
func (h *LibraryHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := h.parseID(w, r)
	if !ok {
		return
	}
	var req EditRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.Logger.Warnw("Edit: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	err := h.Library.Edit(r.Context(), id, store.Edit{
		Description:            req.Description,
		Category:               req.Category,
		Tags:                   req.Tags,
		AppMetadata:            req.AppMetadata,
		LinkedProductGlobalIDs: req.LinkedProductGlobalIDs,
	})
	if err != nil {
		h.fail(w, "Edit", err)
		return
	}
	h.persist("Edit")
	rec, _ := h.Library.Get(id)
	writeJSON(w, http.StatusOK, service.ExportImages([]model.ImageRecord{rec})[0])
}

// Sync отправляет staged-записи и состояние удаления.
func (h *LibraryHandler) Sync(w http.ResponseWriter, r *http.Request) {
	rep, err := h.Library.Sync(r.Context())
	if errors.Is(err, service.ErrSyncInProgress) {
		http.Error(w, err.Error(), http.StatusConflict)
		return
	}
	// частичный результат тоже надо сохранить
	h.persist("Sync")
	resp := syncResponse{Uploaded: rep.Uploaded, Reconciled: rep.Reconciled, NothingToSync: rep.NothingToSync}
	if err != nil {
		h.Logger.Errorw("Sync failed", "error", err)
		resp.Error = err.Error()
		writeJSON(w, http.StatusBadGateway, resp)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Load перезагружает набор с бэкенда.
func (h *LibraryHandler) Load(w http.ResponseWriter, r *http.Request) {
	apps := config.SplitList(r.URL.Query().Get("apps"))
	// при ошибке набор в памяти пуст, сохранённый рабочий набор не трогаем
	if err := h.Library.Load(r.Context(), apps); err != nil {
		h.fail(w, "Load", err)
		return
	}
	h.persist("Load")
	writeJSON(w, http.StatusOK, h.Library.Stats())
}

// Settings отдаёт глобальные метаданные по умолчанию.
func (h *LibraryHandler) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Library.Settings())
}

// SaveSettings заменяет глобальные метаданные по умолчанию.
func (h *LibraryHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	var m model.AppMetadata
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		h.Logger.Warnw("SaveSettings: invalid request body", "error", err)
		http.Error(w, "invalid request", http.StatusBadRequest)
		return
	}
	if err := h.Library.SaveSettings(m); err != nil {
		h.fail(w, "SaveSettings", err)
		return
	}
	writeJSON(w, http.StatusOK, h.Library.Settings())
}

// Export отдаёт манифест текущего представления.
func (h *LibraryHandler) Export(w http.ResponseWriter, r *http.Request) {
	list := h.Library.Filter(store.Query{Text: r.URL.Query().Get("q")})
	m := service.BuildManifest(list, h.Library.Stats(), time.Now())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="image-library.json"`)
	if err := service.WriteManifest(w, m); err != nil {
		h.Logger.Errorw("Export: write failed", "error", err)
	}
}

func (h *LibraryHandler) parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *LibraryHandler) persist(op string) {
	if h.Workspace == nil {
		return
	}
	if err := h.Workspace.SaveAll(h.Library.Snapshot()); err != nil {
		h.Logger.Errorw("workspace save failed", "op", op, "error", err)
	}
}

func (h *LibraryHandler) fail(w http.ResponseWriter, op string, err error) {
	var se *api.StatusError
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, service.ErrSyncInProgress):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.As(err, &se), errors.Is(err, api.ErrShape):
		h.Logger.Warnw(op+": backend error", "error", err)
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		h.Logger.Errorw(op+" failed", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
