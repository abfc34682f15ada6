package sound

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sandeepkv93/countdown/internal/model"
)

var audioExtensions = map[string]bool{
	".wav":  true,
	".mp3":  true,
	".ogg":  true,
	".oga":  true,
	".aiff": true,
	".flac": true,
}

// Catalog lists the selectable sounds: built-ins first, then user files.
type Catalog struct {
	sounds []model.Sound
}

func BuiltIn() []model.Sound {
	return []model.Sound{model.BellSound}
}

func NewCatalog(user ...model.Sound) *Catalog {
	return &Catalog{sounds: append(BuiltIn(), user...)}
}

// LoadCatalog scans dir for audio files. A missing dir yields the built-ins.
func LoadCatalog(dir string) (*Catalog, error) {
	if strings.TrimSpace(dir) == "" {
		return NewCatalog(), nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewCatalog(), nil
		}
		return NewCatalog(), fmt.Errorf("read sounds dir: %w", err)
	}
	user := make([]model.Sound, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if !audioExtensions[ext] {
			continue
		}
		user = append(user, model.Sound{
			Name: strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Path: filepath.Join(dir, entry.Name()),
		})
	}
	sort.Slice(user, func(i, j int) bool {
		return strings.ToLower(user[i].Name) < strings.ToLower(user[j].Name)
	})
	return NewCatalog(user...), nil
}

func (c *Catalog) All() []model.Sound {
	out := make([]model.Sound, len(c.sounds))
	copy(out, c.sounds)
	return out
}

// Find resolves a sound by case-insensitive name. "none" resolves to a nil
// sound with ok set.
func (c *Catalog) Find(name string) (*model.Sound, bool) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "none") {
		return nil, true
	}
	for _, s := range c.sounds {
		if strings.EqualFold(s.Name, name) {
			out := s
			return &out, true
		}
	}
	return nil, false
}

// Next cycles through None followed by every catalog entry.
func (c *Catalog) Next(current *model.Sound) *model.Sound {
	if current == nil {
		if len(c.sounds) == 0 {
			return nil
		}
		out := c.sounds[0]
		return &out
	}
	for i, s := range c.sounds {
		if model.SameSound(&s, current) {
			if i+1 < len(c.sounds) {
				out := c.sounds[i+1]
				return &out
			}
			return nil
		}
	}
	return nil
}
