// Copyright (c) 2018 The learn-blockchain developers

package benchmark

// $ go test -run='^$' -bench=. -benchmem

import (
	"path/filepath"
	"testing"

	"github.com/aronisstav/learn-blockchain/core/dbnamespace"
	"github.com/aronisstav/learn-blockchain/database"
	_ "github.com/aronisstav/learn-blockchain/database/badgerdb"
	_ "github.com/aronisstav/learn-blockchain/database/bdb"
	_ "github.com/aronisstav/learn-blockchain/database/ldb"
	_ "github.com/aronisstav/learn-blockchain/database/memdb"
)

var (
	testKey       = []byte("testKey")
	testValue     = []byte("testValue")
	testValueSize = int64(len(testValue))
)

// benchDB creates a fresh database of the given type under the benchmark
// temp directory.
func benchDB(b *testing.B, dbType string) database.DB {
	b.Helper()

	var args []interface{}
	if dbType != "memdb" {
		args = append(args, filepath.Join(b.TempDir(), "bench_"+dbType))
	}
	db, err := database.Create(dbType, args...)
	if err != nil {
		b.Fatal(err)
	}
	b.Cleanup(func() {
		db.Close()
	})
	return db
}

func benchmarkLookup(b *testing.B, dbType string) {
	db := benchDB(b, dbType)
	if err := db.Blocks().Insert(testKey, testValue); err != nil {
		b.Fatal(err)
	}

	b.SetBytes(testValueSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := db.Blocks().Lookup(testKey); err != nil {
			b.Fatal(err)
		}
	}
}

func benchmarkInsert(b *testing.B, dbType string) {
	db := benchDB(b, dbType)

	var key [8]byte
	b.SetBytes(testValueSize)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		dbnamespace.ByteOrder.PutUint64(key[:], uint64(i))
		if err := db.Headers().Insert(key[:], testValue); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLookupBadger(b *testing.B)  { benchmarkLookup(b, "badger") }
func BenchmarkLookupLevelDB(b *testing.B) { benchmarkLookup(b, "leveldb") }
func BenchmarkLookupBolt(b *testing.B)    { benchmarkLookup(b, "bdb") }
func BenchmarkLookupMemDb(b *testing.B)   { benchmarkLookup(b, "memdb") }

func BenchmarkInsertBadger(b *testing.B)  { benchmarkInsert(b, "badger") }
func BenchmarkInsertLevelDB(b *testing.B) { benchmarkInsert(b, "leveldb") }
func BenchmarkInsertBolt(b *testing.B)    { benchmarkInsert(b, "bdb") }
func BenchmarkInsertMemDb(b *testing.B)   { benchmarkInsert(b, "memdb") }
