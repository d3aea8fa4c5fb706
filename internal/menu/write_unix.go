//go:build !windows

package menu

import (
	"os"

	"github.com/google/renameio/v2"
)

func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	return renameio.WriteFile(path, data, perm)
}
