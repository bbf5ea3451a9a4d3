package domain

import (
	"time"
)

// Operation log actions
const (
	OptLogin       = "login"
	OptLoginFailed = "login_failed"
	OptLoginLocked = "login_locked"
	OptCreate      = "create"
	OptUpdate      = "update"
	OptDelete      = "delete"
	OptToggle      = "toggle"
	OptImport      = "import"
	OptUpload      = "upload"
	OptBackup      = "backup"
)

// SysOprLog records one back office operation
type SysOprLog struct {
	ID        int64     `json:"id,string"`
	OprName   string    `gorm:"index" json:"opr_name"`
	OprIp     string    `json:"opr_ip"`
	OptAction string    `gorm:"index" json:"opt_action"`
	OptDesc   string    `json:"opt_desc"`
	OptTime   time.Time `gorm:"index" json:"opt_time"`
}

// TableName Specify table name
func (SysOprLog) TableName() string {
	return "sys_opr_log"
}
