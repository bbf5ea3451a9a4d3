package adminapi

import (
	"fmt"
	"runtime"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shirou/gopsutil/v4/host"
	"gorm.io/gorm"

	"github.com/adsarees/storefront/internal/domain"
	"github.com/adsarees/storefront/internal/webserver"
)

// TableInfo is the row count of one catalog table
type TableInfo struct {
	Name     string `json:"name"`
	RowCount int64  `json:"row_count"`
}

// ServerInfo describes the running instance and its database
type ServerInfo struct {
	DatabaseType    string      `json:"database_type"`
	DatabaseVersion string      `json:"database_version"`
	DatabaseSize    string      `json:"database_size"`
	StoreDriver     string      `json:"store_driver"`
	ServerTime      string      `json:"server_time"`
	GoVersion       string      `json:"go_version"`
	Hostname        string      `json:"hostname,omitempty"`
	Platform        string      `json:"platform,omitempty"`
	Uptime          uint64      `json:"uptime,omitempty"`
	Tables          []TableInfo `json:"tables"`
}

func registerSystemRoutes() {
	webserver.ApiGET("/system/info", getServerInfo)
}

func getServerInfo(c echo.Context) error {
	db := GetDB(c)
	dbType := db.Dialector.Name()

	info := ServerInfo{
		DatabaseType: dbType,
		StoreDriver:  GetStore(c).Driver,
		ServerTime:   time.Now().Format("2006-01-02 15:04:05"),
		GoVersion:    runtime.Version(),
		Tables:       tableCounts(db),
	}
	if h, err := host.InfoWithContext(c.Request().Context()); err == nil {
		info.Hostname = h.Hostname
		info.Platform = h.Platform + " " + h.PlatformVersion
		info.Uptime = h.Uptime
	}

	switch dbType {
	case "postgres":
		var version, size string
		db.Raw("SELECT version()").Scan(&version)
		db.Raw("SELECT pg_size_pretty(pg_database_size(current_database()))").Scan(&size)
		info.DatabaseVersion = version
		info.DatabaseSize = size
	case "sqlite":
		var version string
		db.Raw("SELECT sqlite_version()").Scan(&version)
		info.DatabaseVersion = "SQLite " + version

		var pageCount, pageSize int64
		db.Raw("PRAGMA page_count").Scan(&pageCount)
		db.Raw("PRAGMA page_size").Scan(&pageSize)
		info.DatabaseSize = formatBytes(pageCount * pageSize)
	}

	return ok(c, info)
}

func tableCounts(db *gorm.DB) []TableInfo {
	tables := make([]TableInfo, 0, len(domain.Tables))
	for _, model := range domain.Tables {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			continue
		}
		var count int64
		db.Model(model).Count(&count)
		tables = append(tables, TableInfo{Name: stmt.Schema.Table, RowCount: count})
	}
	return tables
}

func formatBytes(n int64) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.2f KB", float64(n)/1024)
	case n < 1024*1024*1024:
		return fmt.Sprintf("%.2f MB", float64(n)/(1024*1024))
	default:
		return fmt.Sprintf("%.2f GB", float64(n)/(1024*1024*1024))
	}
}
