package types

import (
	"path/filepath"
	"strings"
	"time"
)

const (
	NO_PAGINATION = 0

	DEFAULT_ACTOR = "system"
)

type Department string

const (
	DEPARTMENT_SALES     Department = "sales"
	DEPARTMENT_SUPPORT   Department = "support"
	DEPARTMENT_MARKETING Department = "marketing"
	DEPARTMENT_PRODUCT   Department = "product"
	DEPARTMENT_LEGAL     Department = "legal"
)

var allDepartments = []Department{
	DEPARTMENT_SALES,
	DEPARTMENT_SUPPORT,
	DEPARTMENT_MARKETING,
	DEPARTMENT_PRODUCT,
	DEPARTMENT_LEGAL,
}

func Departments() []Department {
	return allDepartments
}

func DepartmentFromString(s string) (Department, bool) {
	d := Department(strings.ToLower(s))
	for _, v := range allDepartments {
		if v == d {
			return d, true
		}
	}
	return "", false
}

func (d Department) String() string {
	return string(d)
}

type Confidentiality string

const (
	CONFIDENTIALITY_INTERNAL Confidentiality = "internal"
	CONFIDENTIALITY_PUBLIC   Confidentiality = "public"
)

func ConfidentialityFromString(s string) Confidentiality {
	if strings.ToLower(s) == string(CONFIDENTIALITY_PUBLIC) {
		return CONFIDENTIALITY_PUBLIC
	}
	return CONFIDENTIALITY_INTERNAL
}

const FIXED_S3_UPLOAD_PATH_PREFIX = "/khub"

// GenS3FilePath builds the object storage key for an uploaded file, bucketed
// by kind and upload date.
func GenS3FilePath(kind, fileName string) string {
	return filepath.Join(FIXED_S3_UPLOAD_PATH_PREFIX, kind, time.Now().Format("20060102"), fileName)
}

// GetCurrentTimestamp 获取当前时间戳（便于测试时mock）
var GetCurrentTimestamp = func() int64 {
	return time.Now().Unix()
}
