package badger

import (
	"encoding/binary"
	"fmt"

	"github.com/poiesic/booksearch/core"
)

const (
	pagePrefix      = "page"
	pageOrderPrefix = "pageo"
	levelPrefix     = "level"
)

func makePageKey(id core.ID) []byte {
	return []byte(fmt.Sprintf("%s:%d", pagePrefix, id))
}

func pageKeyPrefix() []byte {
	return []byte(pagePrefix + ":")
}

func makePageOrderKey(order int, id core.ID) []byte {
	prefix := pageOrderPrefix + ":"
	prefixBytes := []byte(prefix)
	totalSize := len(prefixBytes) + 16 // 8 bytes for order + 8 bytes for ID
	buf := make([]byte, totalSize)
	offset := copy(buf, prefixBytes)
	// Write in BigEndian order so lexicographic sort works correctly
	binary.BigEndian.PutUint64(buf[offset:], uint64(order))
	offset += 8
	binary.BigEndian.PutUint64(buf[offset:], uint64(id))
	return buf
}

func pageOrderKeyPrefix() []byte {
	return []byte(pageOrderPrefix + ":")
}

func idFromPageOrderKey(key []byte) core.ID {
	return core.ID(binary.BigEndian.Uint64(key[len(key)-8:]))
}

func makeLevelKey(level string) []byte {
	prefix := levelPrefix + ":"
	buf := make([]byte, len(prefix)+len(level))
	offset := copy(buf, prefix)
	copy(buf[offset:], level)
	return buf
}

func levelKeyPrefix() []byte {
	return []byte(levelPrefix + ":")
}
