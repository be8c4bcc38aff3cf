package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/tidewater/internal/content"
)

type moveRequest struct {
	Direction string `json:"direction"`
}

func draftPayload(slug string, editor content.Editor) gin.H {
	draft, _ := editor.Snapshot()
	return gin.H{
		"slug":     slug,
		"title":    editor.Title(),
		"state":    editor.State(),
		"sections": editor.Sections(),
		"draft":    draft,
		"notice":   editor.Notice(),
	}
}

// ListPages 返回可编辑的页面类型。
func (a *API) ListPages(c *gin.Context) {
	types := a.pages.Types()
	pages := make([]gin.H, 0, len(types))
	for _, p := range types {
		pages = append(pages, gin.H{"slug": p.Slug, "title": p.Title})
	}
	c.JSON(http.StatusOK, gin.H{"pages": pages})
}

// withPageDraft 打开当前会话的页面草稿并执行 fn，成功时返回最新草稿。
func (a *API) withPageDraft(c *gin.Context, status int, fn func(editor content.Editor) (gin.H, error)) {
	slug := c.Param("slug")
	editor, err := a.pages.Open(c.Request.Context(), draftKey(c), slug)
	if err != nil {
		var extra gin.H
		if editor != nil {
			extra = draftPayload(slug, editor)
		}
		respondServiceError(c, err, extra)
		return
	}

	var result gin.H
	if fn != nil {
		if result, err = fn(editor); err != nil {
			respondServiceError(c, err, draftPayload(slug, editor))
			return
		}
	}

	payload := draftPayload(slug, editor)
	for key, value := range result {
		payload[key] = value
	}
	c.JSON(status, payload)
}

// GetPageDraft 返回页面草稿，首次打开时从存储加载。
func (a *API) GetPageDraft(c *gin.Context) {
	a.withPageDraft(c, http.StatusOK, nil)
}

// DiscardPageDraft 丢弃当前会话的页面草稿。
func (a *API) DiscardPageDraft(c *gin.Context) {
	slug := c.Param("slug")
	if _, err := a.pages.Lookup(slug); err != nil {
		respondServiceError(c, err, nil)
		return
	}
	a.pages.Discard(draftKey(c), slug)
	c.Status(http.StatusNoContent)
}

// AssignPageSection 更新记录型分区，例如 hero、seo。
func (a *API) AssignPageSection(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, editor.AssignRecord(c.Param("section"), raw)
	})
}

// AppendPageEntry 在列表分区末尾追加默认条目。
func (a *API) AppendPageEntry(c *gin.Context) {
	a.withPageDraft(c, http.StatusCreated, func(editor content.Editor) (gin.H, error) {
		id, err := editor.Append(c.Param("section"))
		if err != nil {
			return nil, err
		}
		return gin.H{"id": id}, nil
	})
}

// UpdatePageEntry 按标识更新列表条目的字段。
func (a *API) UpdatePageEntry(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, editor.UpdateEntry(c.Param("section"), c.Param("id"), raw)
	})
}

// RemovePageEntry 删除列表条目。
func (a *API) RemovePageEntry(c *gin.Context) {
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, editor.RemoveEntry(c.Param("section"), c.Param("id"))
	})
}

// MovePageEntry 上移或下移列表条目。
func (a *API) MovePageEntry(c *gin.Context) {
	var payload moveRequest
	if !bindJSON(c, &payload, "请指定移动方向") {
		return
	}
	dir, err := content.ParseDirection(payload.Direction)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, editor.MoveEntry(c.Param("section"), c.Param("id"), dir)
	})
}

// ImportPageEntries 用 JSON 数组替换整个列表分区，无法解析时草稿保持不变。
func (a *API) ImportPageEntries(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		applied, err := editor.ImportEntries(c.Param("section"), raw)
		if err != nil {
			return nil, err
		}
		return gin.H{"applied": applied}, nil
	})
}

// SavePageDraft 校验并保存页面草稿。
func (a *API) SavePageDraft(c *gin.Context) {
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, a.pages.Save(c.Request.Context(), editor, c.Param("slug"))
	})
}

// ResetPageDraft 将草稿恢复为默认内容，保存后才会生效。
func (a *API) ResetPageDraft(c *gin.Context) {
	a.withPageDraft(c, http.StatusOK, func(editor content.Editor) (gin.H, error) {
		return nil, editor.Reset()
	})
}
