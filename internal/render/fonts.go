package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/golang/freetype/truetype"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
)

type faceKey struct {
	family string
	bold   bool
	italic bool
}

var (
	fontsMu sync.Mutex
	fonts   = map[faceKey]*truetype.Font{}
)

// loadFace returns a face for style. Family is a path to a TrueType file;
// when empty or unreadable the bundled Go fonts are used.
func loadFace(style TextStyle) (font.Face, error) {
	f, err := loadFont(faceKey{family: style.Family, bold: style.Bold, italic: style.Italic})
	if err != nil && style.Family != "" {
		log.Warn().Err(err).Str("family", style.Family).Msg("Falling back to built-in font")
		f, err = loadFont(faceKey{bold: style.Bold, italic: style.Italic})
	}
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{Size: style.Size, Hinting: font.HintingFull}), nil
}

func loadFont(key faceKey) (*truetype.Font, error) {
	fontsMu.Lock()
	defer fontsMu.Unlock()

	if f, ok := fonts[key]; ok {
		return f, nil
	}

	var (
		f   *truetype.Font
		err error
	)
	if key.family != "" {
		f, err = loadFontFile(key.family)
	} else {
		f, err = truetype.Parse(builtin(key.bold, key.italic))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load font: %w", err)
	}
	fonts[key] = f
	return f, nil
}

func builtin(bold, italic bool) []byte {
	switch {
	case bold && italic:
		return gobolditalic.TTF
	case bold:
		return gobold.TTF
	case italic:
		return goitalic.TTF
	default:
		return goregular.TTF
	}
}

func loadFontFile(path string) (*truetype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return truetype.Parse(data)
}
