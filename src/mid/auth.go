package mid

import (
	"fmt"
	"github.com/gin-gonic/gin"
	_ "github.com/jom-io/gorig-prof/src/defaults" // gorig config fallback
	"github.com/jom-io/gorig/apix/response"
	"github.com/jom-io/gorig/cache"
	"github.com/jom-io/gorig/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"time"
)

const (
	maxFails  = 5
	lockFor   = 10 * time.Minute
	failCache = "profilerAuthFails"
	realm     = `Basic realm="profiler report"`
)

type authFails struct {
	Count    int   `json:"count"`
	LockTime int64 `json:"lock_time"`
}

var (
	loadFails = func(key string) authFails {
		f, _ := cache.New[authFails](cache.JSON, failCache).Get(key)
		return f
	}
	saveFails = func(key string, f authFails) {
		_ = cache.New[authFails](cache.JSON, failCache).Set(key, f, 0)
	}
	clearFails = func(key string) {
		_ = cache.New[authFails](cache.JSON, failCache).Del(key)
	}
)

// BasicAuth guards the report with a bcrypt password hash. An empty hash
// leaves the routes open. Clients are locked out after repeated failures.
func BasicAuth(hash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hash == "" {
			c.Next()
			return
		}
		key := fmt.Sprintf("PROF-%s", c.ClientIP())
		fails := loadFails(key)
		recorded := fails.Count > 0
		if fails.Count >= maxFails {
			if time.Now().Unix() < fails.LockTime {
				response.ErrorTooManyRequests(c)
				c.Abort()
				return
			}
			fails = authFails{}
		}

		_, pwd, ok := c.Request.BasicAuth()
		if !ok || bcrypt.CompareHashAndPassword([]byte(hash), []byte(pwd)) != nil {
			if ok {
				fails.Count++
				if fails.Count >= maxFails {
					fails.LockTime = time.Now().Add(lockFor).Unix()
					logger.Warn(c, "Profiler report locked", zap.String("ip", c.ClientIP()))
				}
				saveFails(key, fails)
			}
			deny(c)
			return
		}
		if recorded {
			clearFails(key)
		}
		c.Next()
	}
}

// deny answers 401 with a challenge so that browsers prompt for credentials.
func deny(c *gin.Context) {
	c.Header("WWW-Authenticate", realm)
	response.ErrorTokenAuthFail(c)
	c.Abort()
}
