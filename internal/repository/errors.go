package repository

import "errors"

// 行が無い（他人の行も含む）
var ErrNotFound = errors.New("not found")

// 一意制約違反など
var ErrConflict = errors.New("conflict")
