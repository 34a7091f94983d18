package utils

import "errors"

var (
	ErrorRecordNotFound    = errors.New("record not found")
	ErrorInsufficientStock = errors.New("insufficient stock")
)

func ErrorPanic(err error) {
	if err != nil {
		panic(err)
	}
}
