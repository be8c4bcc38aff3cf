package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/tidewater/internal/content"
)

type editorRequest struct {
	ID string `json:"id"`
}

type listValueRequest struct {
	Value string `json:"value"`
}

func collectionPayload(editor content.CollectionEditor) gin.H {
	draft, open := editor.EditorDraft()
	return gin.H{
		"title":      editor.Title(),
		"items":      editor.Items(),
		"notice":     editor.Notice(),
		"editor":     draft,
		"editorOpen": open,
	}
}

// withID 把路径中的 id 写入请求体；id 为空时移除请求体中的 id，保证按创建处理。
func withID(raw []byte, id string) ([]byte, error) {
	fields := map[string]any{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, content.ErrInvalidPayload
		}
	}
	if id == "" {
		delete(fields, "id")
	} else {
		fields["id"] = id
	}
	return json.Marshal(fields)
}

// ListCollection 返回集合内全部记录。
func (a *API) ListCollection(c *gin.Context) {
	panel, err := a.collections.Panel(c.Param("name"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	if err := panel.List(c.Request.Context()); err != nil {
		respondServiceError(c, err, gin.H{"title": panel.Title(), "items": panel.Items(), "notice": panel.Notice()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"title": panel.Title(), "items": panel.Items()})
}

// submitCollectionItem 每个请求使用独立面板，重复提交保护只由会话编辑器接口提供。
func (a *API) submitCollectionItem(c *gin.Context, id string, status int) {
	panel, err := a.collections.Panel(c.Param("name"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	raw, ok := readBody(c)
	if !ok {
		return
	}
	body, err := withID(raw, id)
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	item, err := panel.Submit(c.Request.Context(), body)
	if err != nil {
		respondServiceError(c, err, gin.H{"notice": panel.Notice()})
		return
	}
	c.JSON(status, gin.H{"item": item, "items": panel.Items(), "notice": panel.Notice()})
}

// CreateCollectionItem 新建一条记录。
func (a *API) CreateCollectionItem(c *gin.Context) {
	a.submitCollectionItem(c, "", http.StatusCreated)
}

// UpdateCollectionItem 局部更新一条记录，只写入变化的字段。
func (a *API) UpdateCollectionItem(c *gin.Context) {
	a.submitCollectionItem(c, c.Param("id"), http.StatusOK)
}

// DeleteCollectionItem 删除记录，必须携带 confirm=true。
func (a *API) DeleteCollectionItem(c *gin.Context) {
	panel, err := a.collections.Panel(c.Param("name"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	confirmed, _ := strconv.ParseBool(c.Query("confirm"))
	if err := panel.Remove(c.Request.Context(), c.Param("id"), confirmed); err != nil {
		respondServiceError(c, err, gin.H{"notice": panel.Notice()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": panel.Items(), "notice": panel.Notice()})
}

// withCollectionEditor 取出当前会话的集合编辑面板并执行 fn。
func (a *API) withCollectionEditor(c *gin.Context, fn func(editor content.CollectionEditor) (gin.H, error)) {
	editor, err := a.collections.Editor(draftKey(c), c.Param("name"))
	if err != nil {
		respondServiceError(c, err, nil)
		return
	}
	result, err := fn(editor)
	if err != nil {
		respondServiceError(c, err, collectionPayload(editor))
		return
	}
	payload := collectionPayload(editor)
	for key, value := range result {
		payload[key] = value
	}
	c.JSON(http.StatusOK, payload)
}

// OpenCollectionEditor 打开编辑器：带 id 时编辑已有记录，否则新建。
func (a *API) OpenCollectionEditor(c *gin.Context) {
	var payload editorRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &payload, "请求格式不正确") {
		return
	}
	a.withCollectionEditor(c, func(editor content.CollectionEditor) (gin.H, error) {
		if payload.ID == "" {
			editor.StartCreate()
			return nil, nil
		}
		if err := editor.List(c.Request.Context()); err != nil {
			return nil, err
		}
		_, err := editor.StartEdit(c.Request.Context(), payload.ID)
		return nil, err
	})
}

// EditCollectionDraft 将字段合并到编辑中的记录。
func (a *API) EditCollectionDraft(c *gin.Context) {
	raw, ok := readBody(c)
	if !ok {
		return
	}
	a.withCollectionEditor(c, func(editor content.CollectionEditor) (gin.H, error) {
		return nil, editor.EditDraft(raw)
	})
}

// AppendCollectionListValue 向记录内的字符串列表追加一项。
func (a *API) AppendCollectionListValue(c *gin.Context) {
	var payload listValueRequest
	if !bindJSON(c, &payload, "请填写内容") {
		return
	}
	a.withCollectionEditor(c, func(editor content.CollectionEditor) (gin.H, error) {
		return nil, editor.AppendListValue(c.Param("field"), payload.Value)
	})
}

// RemoveCollectionListValue 按下标删除字符串列表中的一项。
func (a *API) RemoveCollectionListValue(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		respondError(c, http.StatusBadRequest, "下标不合法")
		return
	}
	a.withCollectionEditor(c, func(editor content.CollectionEditor) (gin.H, error) {
		return nil, editor.RemoveListValue(c.Param("field"), index)
	})
}

// SubmitCollectionDraft 提交编辑器中的记录。
func (a *API) SubmitCollectionDraft(c *gin.Context) {
	a.withCollectionEditor(c, func(editor content.CollectionEditor) (gin.H, error) {
		item, err := editor.SubmitDraft(c.Request.Context())
		if err != nil {
			return nil, err
		}
		return gin.H{"item": item}, nil
	})
}

// CloseCollectionEditor 关闭编辑器并丢弃未提交的修改。
func (a *API) CloseCollectionEditor(c *gin.Context) {
	name := c.Param("name")
	if _, err := a.collections.Lookup(name); err != nil {
		respondServiceError(c, err, nil)
		return
	}
	a.collections.DiscardEditor(draftKey(c), name)
	c.Status(http.StatusNoContent)
}
