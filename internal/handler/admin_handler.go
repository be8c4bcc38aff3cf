package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/tidewater/internal/db"
	"gorm.io/gorm"
)

const (
	sessionUserID   = "user_id"
	sessionUsername = "username"
	sessionDraftKey = "draft_key"
)

type loginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Login 校验管理员账号并建立会话，同时分配本次会话的草稿键。
func (a *API) Login(c *gin.Context) {
	var payload loginRequest
	if err := c.ShouldBind(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "请输入用户名和密码")
		return
	}
	username := strings.TrimSpace(payload.Username)
	if username == "" || payload.Password == "" {
		respondError(c, http.StatusBadRequest, "请输入用户名和密码")
		return
	}

	var user db.User
	if err := a.db.WithContext(c.Request.Context()).Where("username = ?", username).First(&user).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Error().Err(err).Msg("load admin user failed")
		}
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}
	if !user.CheckPassword(payload.Password) {
		respondError(c, http.StatusUnauthorized, "用户名或密码错误")
		return
	}

	session := sessions.Default(c)
	session.Set(sessionUserID, user.ID)
	session.Set(sessionUsername, user.Username)
	session.Set(sessionDraftKey, uuid.NewString())
	if err := session.Save(); err != nil {
		respondError(c, http.StatusInternalServerError, "会话保存失败")
		return
	}

	log.Info().Str("username", user.Username).Msg("admin logged in")
	c.JSON(http.StatusOK, gin.H{"username": user.Username})
}

// Logout 清除会话并丢弃该会话中未保存的草稿。
func (a *API) Logout(c *gin.Context) {
	session := sessions.Default(c)
	if key, ok := session.Get(sessionDraftKey).(string); ok && key != "" {
		a.workspace.DiscardSession(key)
	}
	session.Clear()
	if err := session.Save(); err != nil {
		c.Error(err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "已退出登录"})
}

// Me 返回当前登录的管理员。
func (a *API) Me(c *gin.Context) {
	username, _ := sessions.Default(c).Get(sessionUsername).(string)
	c.JSON(http.StatusOK, gin.H{"username": username})
}

// AuthRequired 要求请求携带已登录的后台会话。
func AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if session.Get(sessionUserID) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "请先登录"})
			return
		}
		// 旧会话没有草稿键时补发一个
		if key, _ := session.Get(sessionDraftKey).(string); key == "" {
			session.Set(sessionDraftKey, uuid.NewString())
			if err := session.Save(); err != nil {
				c.Error(err)
			}
		}
		c.Next()
	}
}
