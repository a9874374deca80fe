package vectorindex

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// The checkpoint is two artifacts written side by side: a binary vector file
// and a JSON identifier list. They are only meaningful as a pair; loadPair
// verifies they agree.
const (
	vectorFile = "vector_store.bin"
	idMapFile  = "id_map.json"

	checkpointMagic   = "NLVX"
	checkpointVersion = 1
)

// writePair persists the index and id map. Each file is written to a temp
// file and renamed into place, so a crash mid-write never exposes a
// half-written artifact to the next load.
func writePair(dir string, f *Flat, ids []string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating index directory: %w", err)
	}
	if err := writeVectors(filepath.Join(dir, vectorFile), f); err != nil {
		return err
	}
	return writeIDs(filepath.Join(dir, idMapFile), ids)
}

func writeVectors(path string, f *Flat) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".vector_store-*")
	if err != nil {
		return fmt.Errorf("creating temp vector file: %w", err)
	}
	defer os.Remove(tmp.Name())

	count := f.Count()
	header := make([]byte, 0, 16)
	header = append(header, checkpointMagic...)
	header = binary.LittleEndian.AppendUint32(header, checkpointVersion)
	header = binary.LittleEndian.AppendUint32(header, uint32(f.dim))
	header = binary.LittleEndian.AppendUint32(header, uint32(count))
	if _, err := tmp.Write(header); err != nil {
		tmp.Close()
		return fmt.Errorf("writing vector header: %w", err)
	}

	buf := make([]byte, 4)
	for i := 0; i < count; i++ {
		for _, v := range f.row(i) {
			binary.LittleEndian.PutUint32(buf, math.Float32bits(v))
			if _, err := tmp.Write(buf); err != nil {
				tmp.Close()
				return fmt.Errorf("writing vector data: %w", err)
			}
		}
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing vector file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing vector file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

func writeIDs(path string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("marshalling id map: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".id_map-*")
	if err != nil {
		return fmt.Errorf("creating temp id map file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing id map: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing id map: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing id map: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// loadPair restores a checkpoint. A completely absent checkpoint yields an
// empty index. A pair that disagrees (one file missing, wrong dimension, or
// count != len(ids)) is reported via ErrInconsistent so the caller can
// degrade instead of serving corrupted mappings.
func loadPair(dir string, dim int) (*Flat, []string, error) {
	vecPath := filepath.Join(dir, vectorFile)
	idPath := filepath.Join(dir, idMapFile)

	_, vecErr := os.Stat(vecPath)
	_, idErr := os.Stat(idPath)
	if os.IsNotExist(vecErr) && os.IsNotExist(idErr) {
		return NewFlat(dim), nil, nil
	}
	if os.IsNotExist(vecErr) != os.IsNotExist(idErr) {
		return nil, nil, fmt.Errorf("%w: checkpoint has only one of %s/%s", ErrInconsistent, vectorFile, idMapFile)
	}

	f, err := readVectors(vecPath)
	if err != nil {
		return nil, nil, err
	}
	if f.dim != dim {
		return nil, nil, fmt.Errorf("%w: checkpoint dimension %d, embedder produces %d", ErrInconsistent, f.dim, dim)
	}

	ids, err := readIDs(idPath)
	if err != nil {
		return nil, nil, err
	}
	if f.Count() != len(ids) {
		return nil, nil, fmt.Errorf("%w: %d vectors, %d identifiers", ErrInconsistent, f.Count(), len(ids))
	}
	return f, ids, nil
}

func readVectors(path string) (*Flat, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vector file: %w", err)
	}
	if len(data) < 16 || string(data[:4]) != checkpointMagic {
		return nil, fmt.Errorf("%s is not a vector checkpoint", path)
	}
	version := binary.LittleEndian.Uint32(data[4:8])
	if version != checkpointVersion {
		return nil, fmt.Errorf("unsupported vector checkpoint version %d", version)
	}
	dim := int(binary.LittleEndian.Uint32(data[8:12]))
	count := int(binary.LittleEndian.Uint32(data[12:16]))

	body := data[16:]
	if len(body) != dim*count*4 {
		return nil, fmt.Errorf("vector checkpoint truncated: header says %d×%d, body has %d bytes", count, dim, len(body))
	}

	f := NewFlat(dim)
	f.data = make([]float32, dim*count)
	for i := range f.data {
		f.data[i] = math.Float32frombits(binary.LittleEndian.Uint32(body[i*4 : i*4+4]))
	}
	return f, nil
}

func readIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading id map: %w", err)
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parsing id map: %w", err)
	}
	return ids, nil
}

// removePair deletes both checkpoint artifacts. Missing files are fine.
func removePair(dir string) error {
	for _, name := range []string{vectorFile, idMapFile} {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing %s: %w", name, err)
		}
	}
	return nil
}
