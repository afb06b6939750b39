package fieldconfig

import "errors"

var (
	ErrDuplicateField = errors.New("field declared more than once")
	ErrReservedField  = errors.New("field name is reserved")
	ErrEmptyFieldName = errors.New("field name is empty")
	ErrUnkeyableField = errors.New("field cannot be part of the dedup key")
)
