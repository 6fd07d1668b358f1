package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jokari-ai/knowledge-hub/app/core"
	v1 "github.com/jokari-ai/knowledge-hub/app/logic/v1"
	"github.com/jokari-ai/knowledge-hub/app/response"
	"github.com/jokari-ai/knowledge-hub/pkg/errors"
	"github.com/jokari-ai/knowledge-hub/pkg/i18n"
	"github.com/jokari-ai/knowledge-hub/pkg/utils"
)

func I18n() gin.HandlerFunc {
	var allowList []string
	for k := range i18n.ALLOW_LANG {
		allowList = append(allowList, k)
	}
	l := i18n.NewLocalizer(allowList...)

	return response.ProvideResponseLocalizer(l)
}

// AcceptLanguage 目前服务端支持 en: English, de: Deutsch
func AcceptLanguage() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		lang := i18n.DEFAULT_LANG
		if header := ctx.Request.Header.Get("Accept-Language"); header != "" {
			if res := utils.ParseAcceptLanguage(header); len(res) > 0 && i18n.ALLOW_LANG[res[0].Tag] {
				lang = res[0].Tag
			}
		}
		ctx.Set(v1.LANGUAGE_KEY, lang)
	}
}

const ACTOR_HEADER_KEY = "X-Actor"

// SetActor 从请求头带入审核人身份，审计与评审记录都挂在它名下
func SetActor() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if actor := ctx.Request.Header.Get(ACTOR_HEADER_KEY); actor != "" {
			ctx.Set(v1.ACTOR_CONTEXT_KEY, actor)
		}
	}
}

func Cors(c *gin.Context) {
	method := c.Request.Method
	origin := c.Request.Header.Get("Origin")
	if origin != "" {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE, UPDATE")
		c.Header("Access-Control-Allow-Headers", "Origin, X-Requested-With, Content-Type, Accept, Authorization, X-Actor")
		c.Header("Access-Control-Expose-Headers", "Content-Length, Access-Control-Allow-Origin, Access-Control-Allow-Headers, Cache-Control, Content-Language, Content-Type")
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
	}
	c.Next()
}

func Metrics(appCore *core.Core) gin.HandlerFunc {
	return func(c *gin.Context) {
		timer := appCore.Metrics().ApiResponseTimer(c.FullPath())
		c.Next()
		timer.ObserveDuration()
		if status := c.Writer.Status(); status >= http.StatusBadRequest {
			appCore.Metrics().ApiErrorInc(c.Request.Method, c.FullPath(), status)
		}
	}
}

type LimiterFunc func(key string, opts ...core.LimitOption) gin.HandlerFunc

func UseLimit(appCore *core.Core, operation string, genKeyFunc func(c *gin.Context) string, opts ...core.LimitOption) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !appCore.UseLimiter(c, genKeyFunc(c), operation, opts...).Allow() {
			response.APIError(c, errors.New("middleware.limiter", i18n.ERROR_TOO_MANY_REQUESTS, nil).Code(http.StatusTooManyRequests))
		}
	}
}
