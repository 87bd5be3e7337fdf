package service

import (
	"errors"

	"yatube/internal/model"

	"gorm.io/gorm"
)

// notFoundOr 把 gorm 的 ErrRecordNotFound 转成 NotFound，其余错误原样返回
func notFoundOr(err error, resource string, key any) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.NewNotFoundError(resource, key)
	}
	return err
}
