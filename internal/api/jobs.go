package api

import (
	"encoding/json"
	"net/http"

	"job-portal/internal/job"
)

// adminListJobs 返回后台职位列表，包含草稿。
func (h *Handler) adminListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, meta, err := h.jobs.List(r.Context(), job.ListRequest{
		Page:     queryInt(r, "page"),
		Limit:    queryInt(r, "limit"),
		Status:   q.Get("status"),
		JobType:  q.Get("type"),
		Location: q.Get("location"),
		Search:   q.Get("search"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": jobs, "meta": meta})
}

// createJob 创建职位，slug 自动分配。
func (h *Handler) createJob(w http.ResponseWriter, r *http.Request) {
	var req job.CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	created, err := h.jobs.Create(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// updateJob 对职位做局部更新。
func (h *Handler) updateJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req job.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	updated, err := h.jobs.Update(r.Context(), id, req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// setJobStatus 在 draft 与 published 之间切换。
func (h *Handler) setJobStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid payload"})
		return
	}
	updated, err := h.jobs.SetStatus(r.Context(), id, req.Status)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// deleteJob 删除职位。
func (h *Handler) deleteJob(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.jobs.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Job deleted"})
}

// publicListJobs 返回已发布职位，查询参数无法改变状态过滤。
func (h *Handler) publicListJobs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	jobs, meta, err := h.jobs.List(r.Context(), job.ListRequest{
		Page:       queryInt(r, "page"),
		Limit:      queryInt(r, "limit"),
		JobType:    q.Get("type"),
		Location:   q.Get("location"),
		Search:     q.Get("search"),
		PublicOnly: true,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"data": jobs, "meta": meta})
}

// publicGetJob 按 slug 返回单个已发布职位，草稿视为不存在。
func (h *Handler) publicGetJob(w http.ResponseWriter, r *http.Request) {
	found, err := h.jobs.GetPublished(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}
