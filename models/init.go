package models

import (
	"faceattend/db"
)

func Init() {
	db.Instance.AutoMigrate(&User{})
	db.Instance.AutoMigrate(&Course{})
	db.Instance.AutoMigrate(&Attendance{})
	db.Instance.AutoMigrate(&ConsentRecord{})
	db.Instance.AutoMigrate(&AuditLog{})
}
