package models

import (
	"context"
	"database/sql/driver"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"
)

// IDCodec описывает, как идентификатор хранится в конкретной СУБД.
type IDCodec interface {
	// ColumnType — тип колонки для миграций.
	ColumnType() string
	// Encode превращает UUID в значение для параметра запроса.
	Encode(id uuid.UUID) any
	// Decode разбирает значение, прочитанное из колонки.
	Decode(src any) (uuid.UUID, error)
}

// nativeCodec — Postgres, колонка типа uuid.
type nativeCodec struct{}

func (nativeCodec) ColumnType() string { return "uuid" }

func (nativeCodec) Encode(id uuid.UUID) any { return id }

func (nativeCodec) Decode(src any) (uuid.UUID, error) {
	switch v := src.(type) {
	case [16]byte:
		return uuid.UUID(v), nil
	case []byte:
		if len(v) == 16 {
			return uuid.FromBytes(v)
		}
		return uuid.ParseBytes(v)
	case string:
		return uuid.Parse(v)
	}
	return uuid.Nil, fmt.Errorf("uuid: unsupported source %T", src)
}

// stringCodec — SQLite и прочие СУБД без нативного uuid: каноничная строка из 36 символов.
type stringCodec struct{}

func (stringCodec) ColumnType() string { return "varchar(36)" }

func (stringCodec) Encode(id uuid.UUID) any { return id.String() }

func (stringCodec) Decode(src any) (uuid.UUID, error) {
	switch v := src.(type) {
	case string:
		return uuid.Parse(v)
	case []byte:
		return uuid.ParseBytes(v)
	}
	return uuid.Nil, fmt.Errorf("uuid: unsupported source %T", src)
}

var codecs = map[string]IDCodec{
	"postgres": nativeCodec{},
	"sqlite":   stringCodec{},
}

// CodecFor возвращает кодек для диалекта GORM (db.Dialector.Name()).
func CodecFor(dialect string) IDCodec {
	if c, ok := codecs[dialect]; ok {
		return c
	}
	return stringCodec{}
}

// UUID — идентификатор, одинаково представленный для всех бэкендов.
// Вызывающий код работает только с разобранным uuid.UUID.
type UUID uuid.UUID

func NewUUID() UUID {
	return UUID(uuid.New())
}

func (u UUID) UUID() uuid.UUID { return uuid.UUID(u) }

func (u UUID) String() string { return uuid.UUID(u).String() }

func (u UUID) IsNil() bool { return uuid.UUID(u) == uuid.Nil }

func (u UUID) MarshalText() ([]byte, error) {
	return uuid.UUID(u).MarshalText()
}

func (u *UUID) UnmarshalText(b []byte) error {
	id, err := uuid.ParseBytes(b)
	if err != nil {
		return err
	}
	*u = UUID(id)
	return nil
}

// GormDataType — общий тип поля в схеме GORM.
func (UUID) GormDataType() string { return "uuid" }

// GormDBDataType — тип колонки для конкретного диалекта.
func (UUID) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	return CodecFor(db.Dialector.Name()).ColumnType()
}

// GormValue кодирует значение под диалект текущего соединения.
func (u UUID) GormValue(_ context.Context, db *gorm.DB) clause.Expr {
	return clause.Expr{SQL: "?", Vars: []any{CodecFor(db.Dialector.Name()).Encode(uuid.UUID(u))}}
}

// Value используется, когда значение уходит в database/sql в обход GORM.
func (u UUID) Value() (driver.Value, error) {
	return uuid.UUID(u).String(), nil
}

// Scan не знает диалект, поэтому кодек выбирается по форме прочитанного значения.
func (u *UUID) Scan(src any) error {
	if src == nil {
		*u = UUID(uuid.Nil)
		return nil
	}
	var codec IDCodec = stringCodec{}
	switch v := src.(type) {
	case [16]byte:
		codec = nativeCodec{}
	case []byte:
		if len(v) == 16 {
			codec = nativeCodec{}
		}
	}
	id, err := codec.Decode(src)
	if err != nil {
		return err
	}
	*u = UUID(id)
	return nil
}
