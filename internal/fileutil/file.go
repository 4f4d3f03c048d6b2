package fileutil

import (
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

func MkdirAllIfNotExist(fs afero.Fs, dir string) error {
	if _, err := fs.Stat(dir); os.IsNotExist(err) {
		return fs.MkdirAll(dir, 0700)
	}
	return nil
}

// 一時ファイルに書いてから rename する
// 書き込み途中のファイルを読み手が見ることはない
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	if err := MkdirAllIfNotExist(fs, filepath.Dir(path)); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0600); err != nil {
		return err
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return err
	}
	return nil
}
