package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/df-mc/goleveldb/leveldb"
	"github.com/df-mc/goleveldb/leveldb/opt"
	"github.com/df-mc/goleveldb/leveldb/util"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/pelletier/go-toml"

	"github.com/OCharnyshevich/arcticgen/pkg/world/gen"
)

// ErrSeedMismatch is returned by Bind when the data directory holds chunks
// generated from another seed or generator.
var ErrSeedMismatch = errors.New("world was generated with different settings")

var chunkPrefix = []byte("c/")

// Storage persists generated chunks in LevelDB and the world metadata and
// reserve registry as TOML files.
type Storage struct {
	dir string
	log *slog.Logger

	db  *leveldb.DB
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// New opens (or creates) the store rooted at dir.
func New(dir string, log *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create directory %s: %w", dir, err)
	}
	// Payloads are zstd-compressed before they reach LevelDB.
	db, err := leveldb.OpenFile(filepath.Join(dir, "chunks"), &opt.Options{Compression: opt.NoCompression})
	if err != nil {
		return nil, fmt.Errorf("open chunk db: %w", err)
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		db.Close()
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Storage{dir: dir, log: log, db: db, enc: enc, dec: dec}, nil
}

// Close releases the chunk database.
func (s *Storage) Close() error {
	s.dec.Close()
	if err := s.enc.Close(); err != nil {
		s.db.Close()
		return fmt.Errorf("close zstd encoder: %w", err)
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close chunk db: %w", err)
	}
	return nil
}

func chunkKey(pos gen.ChunkPos) []byte {
	return fmt.Appendf(chunkPrefix[:len(chunkPrefix):len(chunkPrefix)], "%d/%d", pos.X, pos.Z)
}

func (s *Storage) encode(c *gen.ChunkData) []byte {
	return s.enc.EncodeAll(gen.EncodeChunk(c), nil)
}

// SaveChunk stores one chunk.
func (s *Storage) SaveChunk(pos gen.ChunkPos, c *gen.ChunkData) error {
	if err := s.db.Put(chunkKey(pos), s.encode(c), nil); err != nil {
		return fmt.Errorf("save chunk %d,%d: %w", pos.X, pos.Z, err)
	}
	return nil
}

// SaveChunks stores a batch of chunks in one write.
func (s *Storage) SaveChunks(chunks map[gen.ChunkPos]*gen.ChunkData) error {
	batch := new(leveldb.Batch)
	for pos, c := range chunks {
		batch.Put(chunkKey(pos), s.encode(c))
	}
	if err := s.db.Write(batch, nil); err != nil {
		return fmt.Errorf("save %d chunks: %w", len(chunks), err)
	}
	return nil
}

// LoadChunk returns the stored chunk, or ok=false when none is stored.
func (s *Storage) LoadChunk(pos gen.ChunkPos) (c *gen.ChunkData, ok bool, err error) {
	data, err := s.db.Get(chunkKey(pos), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load chunk %d,%d: %w", pos.X, pos.Z, err)
	}
	raw, err := s.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, false, fmt.Errorf("decompress chunk %d,%d: %w", pos.X, pos.Z, err)
	}
	c, err = gen.DecodeChunk(raw)
	if err != nil {
		return nil, false, fmt.Errorf("load chunk %d,%d: %w", pos.X, pos.Z, err)
	}
	return c, true, nil
}

// HasChunk reports whether a chunk is stored.
func (s *Storage) HasChunk(pos gen.ChunkPos) (bool, error) {
	ok, err := s.db.Has(chunkKey(pos), nil)
	if err != nil {
		return false, fmt.Errorf("check chunk %d,%d: %w", pos.X, pos.Z, err)
	}
	return ok, nil
}

// ChunkCount returns the number of stored chunks.
func (s *Storage) ChunkCount() (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix(chunkPrefix), nil)
	defer iter.Release()
	n := 0
	for iter.Next() {
		n++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Bind records the seed and generator the stored chunks belong to. A fresh
// directory gets a new world id; an existing one must match.
func (s *Storage) Bind(seed int64, generator string) (Meta, error) {
	path := filepath.Join(s.dir, "world.toml")
	var meta Meta
	err := readTOML(path, &meta)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		meta = Meta{WorldID: uuid.NewString(), Seed: seed, Generator: generator}
		if err := atomicWriteTOML(path, meta); err != nil {
			return Meta{}, err
		}
		s.log.Info("created world", "id", meta.WorldID, "seed", seed, "generator", generator)
		return meta, nil
	case err != nil:
		return Meta{}, fmt.Errorf("read world meta: %w", err)
	}
	if _, err := uuid.Parse(meta.WorldID); err != nil {
		return Meta{}, fmt.Errorf("world meta id %q: %w", meta.WorldID, err)
	}
	if meta.Seed != seed || meta.Generator != generator {
		return Meta{}, fmt.Errorf("bind seed %d generator %q to world %s (seed %d generator %q): %w",
			seed, generator, meta.WorldID, meta.Seed, meta.Generator, ErrSeedMismatch)
	}
	return meta, nil
}

// LoadReserves reads reserves.toml into rs. A missing file leaves rs unchanged.
func (s *Storage) LoadReserves(rs *gen.Reserves) error {
	path := filepath.Join(s.dir, "reserves.toml")
	var rf ReservesFile
	if err := readTOML(path, &rf); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read reserves: %w", err)
	}
	rs.Restore(rf.Reserves, rf.Sites)
	s.log.Info("loaded reserves", "reserves", len(rf.Reserves), "sites", len(rf.Sites))
	return nil
}

// SaveReserves writes the registry to reserves.toml atomically.
func (s *Storage) SaveReserves(rs *gen.Reserves) error {
	rf := ReservesFile{Reserves: rs.All(), Sites: rs.Sites()}
	return atomicWriteTOML(filepath.Join(s.dir, "reserves.toml"), rf)
}

func readTOML(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := toml.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return nil
}

// atomicWriteTOML marshals v to TOML and writes it atomically using a temp file + rename.
func atomicWriteTOML(path string, v any) error {
	data, err := toml.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal toml: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
