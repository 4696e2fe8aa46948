package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/shouni/vibe-ui-kit/pkg/adapters"
	"github.com/shouni/vibe-ui-kit/pkg/controller"
	"github.com/shouni/vibe-ui-kit/pkg/domain"
	"github.com/shouni/vibe-ui-kit/pkg/imgutil"
	"github.com/shouni/vibe-ui-kit/pkg/metrics"
	"github.com/shouni/vibe-ui-kit/pkg/project"
)

// previewCSP は生成されたマークアップを独立したオリジンのサンドボックスで動かします。
const previewCSP = "sandbox allow-scripts allow-forms allow-popups allow-modals"

type fileSummary struct {
	Name        string `json:"name"`
	Path        string `json:"path"`
	Language    string `json:"language"`
	Description string `json:"description,omitempty"`
}

type stateResponse struct {
	Status       domain.Status `json:"status"`
	HasImage     bool          `json:"hasImage"`
	MimeType     string        `json:"mimeType,omitempty"`
	Prompt       string        `json:"prompt"`
	ErrorMessage string        `json:"errorMessage,omitempty"`
	ActiveView   domain.View   `json:"activeView"`
	Files        []fileSummary `json:"files"`
}

func newStateResponse(st controller.State) stateResponse {
	resp := stateResponse{
		Status:       st.Status,
		HasImage:     st.HasImage(),
		MimeType:     st.MimeType,
		Prompt:       st.Prompt,
		ErrorMessage: st.ErrorMessage,
		ActiveView:   st.ActiveView,
		Files:        []fileSummary{},
	}
	for _, f := range st.Files() {
		resp.Files = append(resp.Files, fileSummary{
			Name:        f.Name,
			Path:        f.Path,
			Language:    f.Language,
			Description: f.Description,
		})
	}
	return resp
}

func (s *Server) withSession(w http.ResponseWriter, r *http.Request) (*session, bool) {
	sess, err := s.sessionFrom(w, r)
	if err != nil {
		slog.ErrorContext(r.Context(), "セッションの解決に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return sess, true
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()))
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	st := sess.ctrl.State()
	if !st.HasImage() {
		writeError(w, http.StatusNotFound, "no image selected")
		return
	}
	w.Header().Set("Content-Type", st.MimeType)
	w.Header().Set("Cache-Control", "no-store")
	w.Write(st.Image)
}

type dataURLRequest struct {
	DataURL string `json:"dataUrl"`
}

// handleUpload は multipart の image フィールド、または JSON の data URL を受け付けます。
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)

	var (
		data     []byte
		mimeType string
		err      error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "multipart/form-data":
		data, mimeType, err = readMultipartImage(r, s.opts.MaxUploadBytes)
	case "application/json":
		var req dataURLRequest
		if err = json.NewDecoder(r.Body).Decode(&req); err == nil {
			data, mimeType, err = imgutil.DecodeDataURL(req.DataURL)
		}
	default:
		writeError(w, http.StatusUnsupportedMediaType, "expected multipart/form-data or application/json")
		return
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "image too large")
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.selectImage(w, r, sess, data, mimeType)
}

func readMultipartImage(r *http.Request, maxBytes int64) ([]byte, string, error) {
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return nil, "", err
	}
	f, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", fmt.Errorf("image フィールドが見つかりません: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", fmt.Errorf("アップロードの読み込みに失敗しました: %w", err)
	}
	return data, header.Header.Get("Content-Type"), nil
}

type imageURLRequest struct {
	URL string `json:"url"`
}

func (s *Server) handleImageURL(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	if s.loader == nil {
		writeError(w, http.StatusNotImplemented, "remote images are disabled")
		return
	}
	var req imageURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	img, err := s.loader.Load(r.Context(), req.URL)
	if err != nil {
		switch {
		case errors.Is(err, adapters.ErrUnsafeURL):
			writeError(w, http.StatusBadRequest, "url is not allowed")
		case errors.Is(err, imgutil.ErrNotImage):
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
		default:
			slog.WarnContext(r.Context(), "参照画像の取得に失敗しました", "url", req.URL, "error", err)
			writeError(w, http.StatusBadGateway, "failed to fetch image")
		}
		return
	}
	if int64(len(img.Data)) > s.opts.MaxUploadBytes {
		writeError(w, http.StatusRequestEntityTooLarge, "image too large")
		return
	}
	s.selectImage(w, r, sess, img.Data, img.MimeType)
}

func (s *Server) selectImage(w http.ResponseWriter, r *http.Request, sess *session, data []byte, mimeType string) {
	if len(data) == 0 {
		writeError(w, http.StatusBadRequest, "image is empty")
		return
	}
	if err := sess.ctrl.SelectImage(data, mimeType); err != nil {
		switch {
		case errors.Is(err, imgutil.ErrNotImage):
			writeError(w, http.StatusUnsupportedMediaType, err.Error())
		case errors.Is(err, controller.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		default:
			writeError(w, http.StatusBadRequest, err.Error())
		}
		return
	}
	slog.DebugContext(r.Context(), "画像を選択しました", "session", sess.id, "bytes", len(data))
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()))
}

type promptRequest struct {
	Prompt string `json:"prompt"`
}

func (s *Server) handlePrompt(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var req promptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	sess.ctrl.SetPrompt(req.Prompt)
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()))
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.Presets)
}

func (s *Server) handleApplyPreset(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	if _, err := sess.ctrl.ApplyPreset(chi.URLParam(r, "id")); err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()))
}

// handleGenerate は生成を開始して即座に 202 を返します。
// 生成はリクエストの終了後も継続し、結果は /api/state で確認します。
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	// 受け付けられない要求でトークンを消費しないよう、先に状態を確認する
	switch st := sess.ctrl.State(); {
	case !st.HasImage():
		metrics.RejectedActionsTotal.WithLabelValues("no_image").Inc()
		writeError(w, http.StatusBadRequest, controller.ErrNoImage.Error())
		return
	case st.Status == domain.StatusGenerating:
		metrics.RejectedActionsTotal.WithLabelValues("busy").Inc()
		writeError(w, http.StatusConflict, controller.ErrBusy.Error())
		return
	}
	if !sess.limiter.Allow() {
		metrics.RejectedActionsTotal.WithLabelValues("rate_limited").Inc()
		writeError(w, http.StatusTooManyRequests, "too many generation requests")
		return
	}

	if _, err := sess.ctrl.Start(r.Context()); err != nil {
		switch {
		case errors.Is(err, controller.ErrBusy):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, controller.ErrNoImage):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	slog.InfoContext(r.Context(), "UI 生成を開始しました", "session", sess.id)
	writeJSON(w, http.StatusAccepted, newStateResponse(sess.ctrl.State()))
}

type viewRequest struct {
	View domain.View `json:"view"`
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	var req viewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := sess.ctrl.SwitchView(req.View); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()))
}

// handlePreview は生成されたマークアップをそのまま返します。
// UI 側は iframe で読み込み、CSP の sandbox で親ページから隔離します。
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	st := sess.ctrl.State()
	if st.Status != domain.StatusSuccess {
		writeError(w, http.StatusNotFound, "no generated markup")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Security-Policy", previewCSP)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Cache-Control", "no-store")
	io.WriteString(w, st.Markup)
}

func (s *Server) handleFiles(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(sess.ctrl.State()).Files)
}

// handleFile は1ファイルを返します。?format=html ではハイライト済みの HTML 断片を返します。
func (s *Server) handleFile(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	f, found := project.Find(sess.ctrl.Files(), chi.URLParam(r, "*"))
	if !found {
		writeError(w, http.StatusNotFound, "file not found")
		return
	}

	w.Header().Set("X-Content-Type-Options", "nosniff")
	if r.URL.Query().Get("format") == "html" {
		out, err := s.renderer.File(f)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, out)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, f.Content)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.withSession(w, r)
	if !ok {
		return
	}
	files := sess.ctrl.Files()
	if len(files) == 0 {
		writeError(w, http.StatusNotFound, "nothing to export")
		return
	}

	var buf bytes.Buffer
	if err := project.Export(&buf, files); err != nil {
		slog.ErrorContext(r.Context(), "アーカイブの作成に失敗しました", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build archive")
		return
	}
	metrics.ExportsTotal.Inc()

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", project.ArchiveName))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
