package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// Binary serializers for the records kept by the reference index.
// Field order is part of the storage format; append new fields at the end.

var (
	IDMUS         = idMUS{}
	PageMUS       = pageMUS{}
	LevelTitleMUS = levelTitleMUS{}
)

type idMUS struct{}

func (s idMUS) Marshal(v ID, bs []byte) (n int) {
	return varint.Uint64.Marshal(uint64(v), bs)
}

func (s idMUS) Unmarshal(bs []byte) (v ID, n int, err error) {
	u, n, err := varint.Uint64.Unmarshal(bs)
	return ID(u), n, err
}

func (s idMUS) Size(v ID) (size int) {
	return varint.Uint64.Size(uint64(v))
}

type pageMUS struct{}

func (s pageMUS) Marshal(v Page, bs []byte) (n int) {
	n = IDMUS.Marshal(v.Id, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += ord.String.Marshal(v.URL, bs[n:])
	n += ord.String.Marshal(v.Body, bs[n:])
	n += ord.String.Marshal(v.Level, bs[n:])
	n += varint.Int.Marshal(v.Order, bs[n:])
	return
}

func (s pageMUS) Unmarshal(bs []byte) (v Page, n int, err error) {
	v.Id, n, err = IDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.URL, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Body, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Level, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.Order, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	return
}

func (s pageMUS) Size(v Page) (size int) {
	size = IDMUS.Size(v.Id)
	size += ord.String.Size(v.Title)
	size += ord.String.Size(v.URL)
	size += ord.String.Size(v.Body)
	size += ord.String.Size(v.Level)
	return size + varint.Int.Size(v.Order)
}

type levelTitleMUS struct{}

func (s levelTitleMUS) Marshal(v LevelTitle, bs []byte) (n int) {
	n = ord.String.Marshal(v.Level, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	return
}

func (s levelTitleMUS) Unmarshal(bs []byte) (v LevelTitle, n int, err error) {
	v.Level, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	return
}

func (s levelTitleMUS) Size(v LevelTitle) (size int) {
	return ord.String.Size(v.Level) + ord.String.Size(v.Title)
}
