package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
)

// errors.Is に nil 同士の比較も扱えるようにしたもの
// 第一引数に gotErr
// 第二引数に wantErr が期待されている
func ErrorsIs(err error, target error) bool {
	// nil と nil の比較のため
	if err == nil || target == nil {
		return err == target
	}
	return errors.Is(err, target)
}

// テストのあるパッケージからの相対パスでフィクスチャを読む
func ReadFixture(t testing.TB, path string) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.FromSlash(path))
	if err != nil {
		t.Fatalf("read fixture %s: %v", path, err)
	}
	return b
}

// "2006-01-02 15:04" を loc で解釈する
func MustTime(t testing.TB, value string, loc *time.Location) time.Time {
	t.Helper()
	tm, err := time.ParseInLocation("2006-01-02 15:04", value, loc)
	if err != nil {
		t.Fatalf("parse time %q: %v", value, err)
	}
	return tm
}
