package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument — общий класс ошибок некорректных входных данных.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrOrderAlreadyExists возвращается при добавлении заказа с уже занятым ID.
	ErrOrderAlreadyExists = fmt.Errorf("%w: order already exists", ErrInvalidArgument)
)

// IsInvalidArgument проверяет, относится ли ошибка к некорректным входным данным.
func IsInvalidArgument(err error) bool {
	return errors.Is(err, ErrInvalidArgument)
}
