package common

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
	NA       = "N/A"
)

var (
	idNode     *snowflake.Node
	idNodeOnce sync.Once
)

func node() *snowflake.Node {
	idNodeOnce.Do(func() {
		n, err := snowflake.NewNode(1)
		if err != nil {
			panic(err)
		}
		idNode = n
	})
	return idNode
}

// UUIDint64 returns a time ordered unique int64 id
func UUIDint64() int64 {
	return node().Generate().Int64()
}

// NewProductID returns a time based product identifier
func NewProductID() string {
	return node().Generate().String()
}

// NewBannerID returns banner-<unix millis>
func NewBannerID(now time.Time) string {
	return fmt.Sprintf("banner-%d", now.UnixMilli())
}

// SplitTrim splits s by sep, trims each part and drops empty parts
func SplitTrim(s string, sep string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// InSlice reports whether v is in sl
func InSlice(v string, sl []string) bool {
	for _, vv := range sl {
		if vv == v {
			return true
		}
	}
	return false
}

// IfEmptyStr returns defval when src is blank
func IfEmptyStr(src string, defval string) string {
	if strings.TrimSpace(src) == "" {
		return defval
	}
	return src
}

// Today formats t as YYYY-MM-DD
func Today(t time.Time) string {
	return t.Format("2006-01-02")
}
