package history

import "github.com/opst/skein/pkg/domain/history/db"

type Interface interface {
	Database() db.HistoryInterface
}

type impl struct {
	db db.HistoryInterface
}

func New(db db.HistoryInterface) Interface {
	return &impl{db: db}
}

func (i *impl) Database() db.HistoryInterface {
	return i.db
}
