//go:build !tinygo

package store

import (
	"os"

	"torchfw-go/errcode"
)

// FileStore persists the store image in a host file so simulated power
// cycles survive process restarts, the same way the real store survives
// power loss.
type FileStore struct {
	f     *os.File
	cells []byte
}

// OpenFileStore opens or creates a store image of the given size. A new
// image starts fully erased.
func OpenFileStore(path string, size int) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &errcode.E{C: errcode.StoreIO, Op: "open", Err: err}
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, &errcode.E{C: errcode.StoreIO, Op: "open", Err: err}
	}

	cells := make([]byte, size)
	if fi.Size() == int64(size) {
		if _, err := f.ReadAt(cells, 0); err != nil {
			f.Close()
			return nil, &errcode.E{C: errcode.StoreIO, Op: "open", Err: err}
		}
	} else {
		for i := range cells {
			cells[i] = 0xff
		}
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, &errcode.E{C: errcode.StoreIO, Op: "open", Err: err}
		}
		if _, err := f.WriteAt(cells, 0); err != nil {
			f.Close()
			return nil, &errcode.E{C: errcode.StoreIO, Op: "open", Err: err}
		}
	}
	return &FileStore{f: f, cells: cells}, nil
}

func (s *FileStore) Size() int { return len(s.cells) }

func (s *FileStore) ReadByte(addr int) (byte, error) {
	if addr < 0 || addr >= len(s.cells) {
		return 0, &errcode.E{C: errcode.InvalidParams, Op: "read", Msg: "address out of range"}
	}
	return s.cells[addr], nil
}

func (s *FileStore) WriteByte(addr int, b byte) error {
	return s.put(addr, b, "write")
}

func (s *FileStore) EraseByte(addr int) error {
	return s.put(addr, 0xff, "erase")
}

func (s *FileStore) put(addr int, b byte, op string) error {
	if addr < 0 || addr >= len(s.cells) {
		return &errcode.E{C: errcode.InvalidParams, Op: op, Msg: "address out of range"}
	}
	s.cells[addr] = b
	if _, err := s.f.WriteAt([]byte{b}, int64(addr)); err != nil {
		return &errcode.E{C: errcode.StoreIO, Op: op, Err: err}
	}
	return nil
}

// Close flushes and releases the backing file.
func (s *FileStore) Close() error {
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		return &errcode.E{C: errcode.StoreIO, Op: "close", Err: err}
	}
	return s.f.Close()
}
