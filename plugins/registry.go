package plugins

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"github.com/signadot/richtext/config"
	"github.com/signadot/richtext/editor"
	"github.com/signadot/richtext/links"
	"github.com/signadot/richtext/tracking"
)

// BuildContext is what a factory sees while a pipeline is composed.
type BuildContext struct {
	Host            *config.Host
	RestrictedMarks []string
	Picker          links.Picker
	Links           *links.Manager
	Tracker         tracking.Handler
	Log             zerolog.Logger

	palette *Palette
}

// Factory builds a unit. A nil unit without error means the unit is
// disabled by the host configuration and is left out.
type Factory func(bc *BuildContext) (*editor.Unit, error)

var (
	mu sync.RWMutex
	d  = map[string]Factory{}
)

var (
	ErrFactoryExists  = errors.New("factory exists")
	ErrUnknownFactory = errors.New("unknown factory")
)

// Register makes f available under name for Options.PreLoad and
// Options.PostLoad.
func Register(name string, f Factory) error {
	mu.Lock()
	defer mu.Unlock()
	if _, present := d[name]; present {
		return fmt.Errorf("%s: %w", name, ErrFactoryExists)
	}
	d[name] = f
	return nil
}

func MustRegister(name string, f Factory) {
	if err := Register(name, f); err != nil {
		panic(err)
	}
}

func Lookup(name string) Factory {
	mu.RLock()
	defer mu.RUnlock()
	return d[name]
}

// Names returns the registered factory names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	res := make([]string, 0, len(d))
	for k := range d {
		res = append(res, k)
	}
	slices.Sort(res)
	return res
}

func init() {
	MustRegister(TrackingKey, Tracking)
	MustRegister(DragAndDropKey, DragAndDrop)
	MustRegister(PaletteKey, CommandPalette)
	MustRegister(ParagraphKey, Paragraph)
	MustRegister(ListKey, List)
	MustRegister(HRKey, HR)
	MustRegister(HeadingKey, Heading)
	MustRegister(QuoteKey, Quote)
	MustRegister(TableKey, Table)
	MustRegister(EmbeddedEntryBlockKey, EmbeddedEntryBlock)
	MustRegister(EmbeddedAssetBlockKey, EmbeddedAssetBlock)
	MustRegister(EmbeddedResourceBlockKey, EmbeddedResourceBlock)
	MustRegister(links.UnitKey, Hyperlink)
	MustRegister(EmbeddedEntityInlineKey, EmbeddedEntityInline)
	MustRegister(EmbeddedResourceInlineKey, EmbeddedResourceInline)
	MustRegister(MarksKey, Marks)
	MustRegister(TrailingParagraphKey, TrailingParagraph)
	MustRegister(TextKey, Text)
	MustRegister(VoidsKey, Voids)
	MustRegister(SelectOnBackspaceKey, SelectOnBackspace)
	MustRegister(PasteHTMLKey, PasteHTML)
	MustRegister(SoftBreakKey, SoftBreak)
	MustRegister(ExitBreakKey, ExitBreak)
	MustRegister(ResetNodeKey, ResetNode)
	MustRegister(NormalizerKey, Normalizer)
}
