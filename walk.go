package ludtwig

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/juju/errors"
)

// CollectFiles expands a mix of file and directory positionals into the
// flat list of files to process (§6 "CLI surface"): a file named directly is
// always included, whatever its name; directories are walked recursively,
// and inside them non-".twig" files and dotfiles/dotdirs are skipped, except
// that "." and "./" themselves are never considered hidden (so `ludtwig .`
// works from inside a dotdir-named checkout).
func CollectFiles(roots []string) ([]string, error) {
	var out []string
	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, errors.Annotatef(err, "resolving %s", root)
		}
		if !info.IsDir() {
			out = append(out, root)
			continue
		}
		err = filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if path != root && isHidden(filepath.Base(path)) {
				if fi.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if fi.IsDir() {
				return nil
			}
			if strings.HasSuffix(path, ".twig") {
				out = append(out, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.Annotatef(err, "walking %s", root)
		}
	}
	return out, nil
}

func isHidden(base string) bool {
	return base != "." && base != "./" && strings.HasPrefix(base, ".")
}
