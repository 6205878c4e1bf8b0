package db

import (
	khistory "github.com/opst/skein/pkg/domain/history/db"
	kschema "github.com/opst/skein/pkg/domain/schema/db"
)

type SkeinDatabase interface {
	History() khistory.HistoryInterface
	Schema() kschema.SchemaInterface

	Close() error
}
