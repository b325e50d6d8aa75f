// Package filestore хранит коллекции в JSON-документах: по одному файлу на коллекцию.
//
// Каждое изменение переписывает документ целиком. Запись атомарна: данные
// пишутся во временный файл рядом с целевым, сбрасываются на диск, затем файл
// переименовывается поверх старого и синхронизируется каталог. Читатель видит
// либо старый, либо новый документ, но никогда частичную запись.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// document - один JSON-файл с мьютексом на цикл чтение-изменение-запись
type document struct {
	path string
	mu   sync.Mutex
}

func newDocument(path string) *document {
	return &document{path: path}
}

// readRaw возвращает содержимое файла; exists=false, если файла нет
func (d *document) readRaw() ([]byte, bool, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", d.path, err)
	}
	return data, true, nil
}

// read декодирует документ в v; exists=false, если файла нет
func (d *document) read(v any) (bool, error) {
	data, exists, err := d.readRaw()
	if err != nil || !exists {
		return exists, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("failed to decode %s: %w", d.path, err)
	}
	return true, nil
}

// write атомарно заменяет документ
func (d *document) write(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", d.path, err)
	}
	data = append(data, '\n')
	return writeFileAtomic(d.path, data, 0o644)
}

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	tmpPath := tmp.Name()

	// write, sync, close; при любой ошибке временный файл удаляется
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temporary file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync temporary file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temporary file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return syncDir(dir)
}

// syncDir фиксирует переименование в каталоге
func syncDir(dir string) error {
	f, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("failed to open directory %s: %w", dir, err)
	}
	defer f.Close()
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync directory %s: %w", dir, err)
	}
	return nil
}
