package archive

import (
	"fmt"
	"path"
	"strings"

	"github.com/phambaophuc/webp-converter/internal/models"
)

const (
	webpExtension   = ".webp"
	defaultBaseName = "image"
)

// EntryName derives the archive entry name for a converted image. Only a
// trailing ".webp" is swapped for the target extension; any other name keeps
// its extension and gets the target one appended. Directory parts are dropped.
func EntryName(originalName string, format models.Format) string {
	name := path.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if name == "." || name == "/" {
		name = ""
	}

	if strings.EqualFold(path.Ext(name), webpExtension) {
		name = name[:len(name)-len(webpExtension)]
	}

	if strings.TrimSpace(name) == "" {
		name = defaultBaseName
	}

	return name + format.Extension()
}

// nameSet hands out unique entry names, suffixing repeats with -1, -2, ...
type nameSet map[string]struct{}

func (s nameSet) unique(name string) string {
	if _, taken := s[name]; !taken {
		s[name] = struct{}{}
		return name
	}

	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if _, taken := s[candidate]; !taken {
			s[candidate] = struct{}{}
			return candidate
		}
	}
}
