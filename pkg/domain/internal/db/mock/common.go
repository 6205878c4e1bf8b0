// Package mocks holds shared pieces for database mocks.
package mocks

// CallLog records arguments passed to a mocked method, in call order.
type CallLog[T any] []T

func (l CallLog[T]) Times() uint {
	return uint(len(l))
}
