package persistence

import (
	"reflect"

	"github.com/pulosarok/desa/internal/domain/shared"
	"gorm.io/gorm"
)

const versionCallbackName = "desa:stored_version"

// versioned is an aggregate that remembers the row version it was loaded with
type versioned interface {
	GetVersion() int
	IncrementVersion()
	StoredVersion() int
	MarkStored()
}

// RegisterVersionTracking makes every query record the loaded version on the
// aggregates it fills, so Save can reject writes based on a stale copy
func RegisterVersionTracking(db *gorm.DB) error {
	if db.Callback().Query().Get(versionCallbackName) != nil {
		return nil
	}
	return db.Callback().Query().After("gorm:after_query").Register(versionCallbackName, markLoaded)
}

func markLoaded(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}
	rv := db.Statement.ReflectValue
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			markValue(rv.Index(i))
		}
	case reflect.Struct:
		markValue(rv)
	}
}

func markValue(v reflect.Value) {
	for v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct || !v.CanAddr() {
		return
	}
	if e, ok := v.Addr().Interface().(versioned); ok {
		e.MarkStored()
	}
}

// saveVersioned inserts or upserts rows that were never loaded. A loaded row is
// updated only while the database still holds the version it was read at;
// otherwise shared.ErrConcurrencyConflict is returned and nothing is written.
func saveVersioned(db *gorm.DB, entity any) error {
	v, ok := entity.(versioned)
	if !ok || v.StoredVersion() == 0 {
		if err := translate(db.Save(entity).Error); err != nil {
			return err
		}
		if ok {
			v.MarkStored()
		}
		return nil
	}

	stored := v.StoredVersion()
	if v.GetVersion() <= stored {
		v.IncrementVersion()
	}
	result := db.Model(entity).Where("version = ?", stored).Select("*").Updates(entity)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	v.MarkStored()
	return nil
}
