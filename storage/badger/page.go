package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/booksearch/core"
	"github.com/poiesic/booksearch/storage"
)

type PageRepository struct {
	backend *Backend
}

var _ storage.PageRepository = (*PageRepository)(nil)

func NewPageRepository(backend *Backend) (*PageRepository, error) {
	return &PageRepository{
		backend: backend,
	}, nil
}

func (r *PageRepository) Close() error {
	return nil
}

func (r *PageRepository) ReplaceIndex(ctx context.Context, pages []*core.Page, levels []core.LevelTitle) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteIndex(tx); err != nil {
			return err
		}
		for _, page := range pages {
			if err := writePage(tx, page); err != nil {
				return err
			}
		}
		for _, level := range levels {
			if err := tx.Set(makeLevelKey(level.Level), storage.MarshalLevelTitle(level)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *PageRepository) AddPages(ctx context.Context, pages ...*core.Page) ([]*core.Page, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, page := range pages {
			// Drop the order index entry of a page being overwritten
			old, err := readPage(tx, makePageKey(pageID(page)))
			if err != nil {
				return err
			}
			if old != nil && old.Order != page.Order {
				if err := tx.Delete(makePageOrderKey(old.Order, old.Id)); err != nil {
					return err
				}
			}
			if err := writePage(tx, page); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return pages, err
}

func (r *PageRepository) GetPage(ctx context.Context, id core.ID) (*core.Page, error) {
	var result *core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		var err error
		result, err = readPage(tx, makePageKey(id))
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

func (r *PageRepository) GetAllPages(ctx context.Context) ([]*core.Page, error) {
	var results []*core.Page
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = pageOrderKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			id := idFromPageOrderKey(iter.Item().Key())
			page, err := readPage(tx, makePageKey(id))
			if err != nil {
				return err
			}
			if page != nil {
				results = append(results, page)
			}
		}
		return nil
	}, false)

	return results, err
}

func (r *PageRepository) SetLevels(ctx context.Context, levels ...core.LevelTitle) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, level := range levels {
			if err := tx.Set(makeLevelKey(level.Level), storage.MarshalLevelTitle(level)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

func (r *PageRepository) GetLevels(ctx context.Context) (map[string]string, error) {
	levels := make(map[string]string)
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = levelKeyPrefix()
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			err := iter.Item().Value(func(val []byte) error {
				level, err := storage.UnmarshalLevelTitle(val)
				if err != nil {
					return err
				}
				levels[level.Level] = level.Title
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	}, false)

	return levels, err
}

func (r *PageRepository) Count(ctx context.Context) (int, error) {
	count := 0
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		count = len(keysWithPrefix(tx, pageOrderKeyPrefix()))
		return nil
	}, false)
	return count, err
}

func (r *PageRepository) Clear(ctx context.Context) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		if err := deleteIndex(tx); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
}

func pageID(page *core.Page) core.ID {
	if page.Id == 0 {
		page.Id = core.PageID(page.URL)
	}
	return page.Id
}

func writePage(tx *badger.Txn, page *core.Page) error {
	id := pageID(page)
	if err := tx.Set(makePageKey(id), storage.MarshalPage(page)); err != nil {
		return err
	}
	return tx.Set(makePageOrderKey(page.Order, id), storage.MarshalID(id))
}

func deleteIndex(tx *badger.Txn) error {
	for _, prefix := range [][]byte{pageKeyPrefix(), pageOrderKeyPrefix(), levelKeyPrefix()} {
		for _, key := range keysWithPrefix(tx, prefix) {
			if err := tx.Delete(key); err != nil {
				return err
			}
		}
	}
	return nil
}

func readPage(tx *badger.Txn, key []byte) (*core.Page, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var page *core.Page
	err = item.Value(func(val []byte) error {
		var err error
		page, err = storage.UnmarshalPage(val)
		return err
	})
	return page, err
}
