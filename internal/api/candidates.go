package api

import (
	"net/http"
)

const candidateFormLimit = 16 << 20

// applyCandidate 处理公开的职位申请，jobId 与简历文件缺一不可。
func (h *Handler) applyCandidate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(candidateFormLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "multipart form data required"})
		return
	}

	cand, err := h.candidates.Apply(r.Context(), r.FormValue("jobId"), fileHeader(r, "cv"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"message":   "Application submitted successfully",
		"candidate": cand,
	})
}

// listCandidates 返回申请列表，带职位信息。
func (h *Handler) listCandidates(w http.ResponseWriter, r *http.Request) {
	rows, err := h.candidates.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": rows})
}
