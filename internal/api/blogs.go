package api

import (
	"mime/multipart"
	"net/http"

	"job-portal/internal/blog"
)

const blogFormLimit = 16 << 20

// listBlogs 返回博客列表，支持 city 过滤与分页。
func (h *Handler) listBlogs(w http.ResponseWriter, r *http.Request) {
	blogs, meta, err := h.blogs.List(r.Context(), blog.ListRequest{
		City:  r.URL.Query().Get("city"),
		Page:  queryInt(r, "page"),
		Limit: queryInt(r, "limit"),
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": blogs, "meta": meta})
}

// getBlog 返回单篇博客。
func (h *Handler) getBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	found, err := h.blogs.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": found})
}

// createBlog 接收 multipart 表单创建博客，图片字段可选。
func (h *Handler) createBlog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(blogFormLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "multipart form data required"})
		return
	}

	created, err := h.blogs.Create(r.Context(), blogForm(r), fileHeader(r, "bannerImage"), fileHeader(r, "extraImage"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"success": true, "data": created})
}

// updateBlog 局部更新博客，提交新图片时替换并清理旧文件。
func (h *Handler) updateBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := r.ParseMultipartForm(blogFormLimit); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "multipart form data required"})
		return
	}

	updated, err := h.blogs.Update(r.Context(), id, blogForm(r), fileHeader(r, "bannerImage"), fileHeader(r, "extraImage"))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "data": updated})
}

// deleteBlog 删除博客及其归属文件。
func (h *Handler) deleteBlog(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.blogs.Delete(r.Context(), id); err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Deleted"})
}

func blogForm(r *http.Request) blog.Form {
	return blog.Form{
		City:            formValue(r, "city"),
		Title:           formValue(r, "title"),
		MetaTitle:       formValue(r, "metaTitle"),
		MetaDescription: formValue(r, "metaDescription"),
		Description:     formValue(r, "description"),
		Services:        formValue(r, "services"),
		FAQs:            formValue(r, "faqs"),
		RedirectLink:    formValue(r, "redirectLink"),
	}
}

// formValue 区分「未提交」与「提交了空值」，前者返回 nil。
func formValue(r *http.Request, key string) *string {
	if r.MultipartForm == nil {
		return nil
	}
	values, ok := r.MultipartForm.Value[key]
	if !ok || len(values) == 0 {
		return nil
	}
	return &values[0]
}

func fileHeader(r *http.Request, field string) *multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return nil
	}
	return files[0]
}
