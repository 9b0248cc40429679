//go:build windows

package winocr

import (
	"errors"
	"unsafe"

	"github.com/MeKo-Tech/winocr/internal/winrt"
)

// nativeState holds the lazily created native singletons: activation
// factories and the currently loaded engine. All access is serialized by
// Client.mu.
type nativeState struct {
	ocrStatics     *winrt.Handle
	decoderStatics *winrt.Handle
	langFactory    *winrt.Handle
	engine         *winrt.Handle
	engineTag      string
}

func (c *Client) ensureOcrStatics() (*winrt.Handle, error) {
	if c.native.ocrStatics != nil {
		return c.native.ocrStatics, nil
	}
	h, err := winrt.GetActivationFactory(winrt.ClassOcrEngine, winrt.IIDIOcrEngineStatics)
	if err != nil {
		return nil, err
	}
	c.native.ocrStatics = h
	return h, nil
}

func (c *Client) ensureDecoderStatics() (*winrt.Handle, error) {
	if c.native.decoderStatics != nil {
		return c.native.decoderStatics, nil
	}
	h, err := winrt.GetActivationFactory(winrt.ClassBitmapDecoder, winrt.IIDIBitmapDecoderStatics)
	if err != nil {
		return nil, err
	}
	c.native.decoderStatics = h
	return h, nil
}

func (c *Client) ensureLanguageFactory() (*winrt.Handle, error) {
	if c.native.langFactory != nil {
		return c.native.langFactory, nil
	}
	h, err := winrt.GetActivationFactory(winrt.ClassLanguage, winrt.IIDILanguageFactory)
	if err != nil {
		return nil, err
	}
	c.native.langFactory = h
	return h, nil
}

func (c *Client) closeNative() error {
	for _, h := range []*winrt.Handle{
		c.native.engine,
		c.native.langFactory,
		c.native.decoderStatics,
		c.native.ocrStatics,
	} {
		if h != nil {
			_ = h.Close()
		}
	}
	c.native = nativeState{}
	return nil
}

// MaxDimension returns the largest pixel dimension the engine accepts on
// either axis.
func (c *Client) MaxDimension() (uint32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.maxDimensionLocked()
}

func (c *Client) maxDimensionLocked() (uint32, error) {
	statics, err := c.ensureOcrStatics()
	if err != nil {
		return 0, err
	}
	var dim uint32
	hr, err := statics.Call(winrt.SlotOcrStaticsMaxImageDimension, uintptr(unsafe.Pointer(&dim)))
	if err != nil {
		return 0, err
	}
	if hr.Failed() {
		return 0, &winrt.CallError{Method: "IOcrEngineStatics.get_MaxImageDimension", HR: hr}
	}
	return dim, nil
}

// Languages lists the installed languages the engine can recognize.
func (c *Client) Languages() ([]Language, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	statics, err := c.ensureOcrStatics()
	if err != nil {
		return nil, err
	}
	var raw *winrt.Unknown
	hr, err := statics.Call(winrt.SlotOcrStaticsAvailableRecognizerLanguages, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return nil, err
	}
	if hr.Failed() {
		return nil, &winrt.CallError{Method: "IOcrEngineStatics.get_AvailableRecognizerLanguages", HR: hr}
	}
	vec, err := winrt.NewHandle(raw)
	if err != nil {
		return nil, err
	}
	defer vec.Close()

	size, err := winrt.VectorSize(vec)
	if err != nil {
		return nil, err
	}
	out := make([]Language, 0, size)
	for i := uint32(0); i < size; i++ {
		item, err := winrt.VectorAt(vec, i)
		if err != nil {
			return nil, err
		}
		tag, err := winrt.ReadHString(item, winrt.SlotLanguageTag, "ILanguage.get_LanguageTag")
		if err != nil {
			_ = item.Close()
			return nil, err
		}
		name, err := winrt.ReadHString(item, winrt.SlotLanguageDisplayName, "ILanguage.get_DisplayName")
		if err != nil {
			_ = item.Close()
			return nil, err
		}
		_ = item.Close()
		out = append(out, Language{Tag: tag, DisplayName: name})
	}
	return out, nil
}

// LoadLanguage makes tag the active recognition language. Loading the tag
// that is already active is a no-op. On any failure the previously active
// engine stays in place.
func (c *Client) LoadLanguage(tag string) error {
	if tag == "" {
		return errors.New("empty language tag")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadLanguageLocked(tag)
}

func (c *Client) loadLanguageLocked(tag string) error {
	if c.native.engine != nil && sameTag(tag, c.native.engineTag) {
		return nil
	}

	statics, err := c.ensureOcrStatics()
	if err != nil {
		return err
	}
	lang, err := c.createLanguage(tag)
	if err != nil {
		return err
	}
	defer lang.Close()

	supported, err := c.isLanguageSupported(statics, lang)
	if err != nil {
		return err
	}
	if !supported {
		return &UnsupportedLanguageError{Tag: tag}
	}

	lu, err := lang.Unknown()
	if err != nil {
		return err
	}
	var raw *winrt.Unknown
	hr, err := statics.Call(winrt.SlotOcrStaticsTryCreateFromLanguage, lu.Addr(), uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return err
	}
	if hr.Failed() {
		return &winrt.CallError{Method: "IOcrEngineStatics.TryCreateFromLanguage", HR: hr}
	}
	engine, err := winrt.NewHandle(raw)
	if err != nil {
		// a null engine for a supported tag means the pack lacks OCR data
		return &UnsupportedLanguageError{Tag: tag}
	}

	actual, err := c.recognizerTag(engine)
	if err != nil || actual == "" {
		actual = tag
	}
	if c.native.engine != nil {
		_ = c.native.engine.Close()
	}
	c.native.engine = engine
	c.native.engineTag = actual
	return nil
}

// ensureEngineLocked makes sure an engine is loaded, honoring an explicit
// tag over the user profile languages.
func (c *Client) ensureEngineLocked(tag string) error {
	if tag != "" {
		return c.loadLanguageLocked(tag)
	}
	if c.native.engine != nil {
		return nil
	}

	statics, err := c.ensureOcrStatics()
	if err != nil {
		return err
	}
	var raw *winrt.Unknown
	hr, err := statics.Call(winrt.SlotOcrStaticsTryCreateFromUserProfileLanguages, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return err
	}
	if hr.Failed() {
		return &winrt.CallError{Method: "IOcrEngineStatics.TryCreateFromUserProfileLanguages", HR: hr}
	}
	engine, err := winrt.NewHandle(raw)
	if err != nil {
		// none of the profile languages has an OCR pack installed
		return &UnsupportedLanguageError{Tag: "user profile"}
	}

	actual, err := c.recognizerTag(engine)
	if err != nil {
		actual = ""
	}
	c.native.engine = engine
	c.native.engineTag = actual
	return nil
}

func (c *Client) createLanguage(tag string) (*winrt.Handle, error) {
	factory, err := c.ensureLanguageFactory()
	if err != nil {
		return nil, err
	}
	hs, err := winrt.NewHString(tag)
	if err != nil {
		return nil, err
	}
	defer hs.Delete()

	var lang *winrt.Unknown
	hr, err := factory.Call(winrt.SlotLanguageFactoryCreateLanguage, uintptr(hs), uintptr(unsafe.Pointer(&lang)))
	if err != nil {
		return nil, err
	}
	if hr.Failed() {
		// the factory rejects malformed BCP-47 tags
		return nil, &UnsupportedLanguageError{Tag: tag}
	}
	return winrt.NewHandle(lang)
}

func (c *Client) isLanguageSupported(statics, lang *winrt.Handle) (bool, error) {
	lu, err := lang.Unknown()
	if err != nil {
		return false, err
	}
	var supported byte
	hr, err := statics.Call(winrt.SlotOcrStaticsIsLanguageSupported, lu.Addr(), uintptr(unsafe.Pointer(&supported)))
	if err != nil {
		return false, err
	}
	if hr.Failed() {
		return false, &winrt.CallError{Method: "IOcrEngineStatics.IsLanguageSupported", HR: hr}
	}
	return supported != 0, nil
}

// recognizerTag reads the engine's own language tag, which is the canonical
// form of whatever created it.
func (c *Client) recognizerTag(engine *winrt.Handle) (string, error) {
	var raw *winrt.Unknown
	hr, err := engine.Call(winrt.SlotOcrEngineRecognizerLanguage, uintptr(unsafe.Pointer(&raw)))
	if err != nil {
		return "", err
	}
	if hr.Failed() {
		return "", &winrt.CallError{Method: "IOcrEngine.get_RecognizerLanguage", HR: hr}
	}
	lang, err := winrt.NewHandle(raw)
	if err != nil {
		return "", err
	}
	defer lang.Close()
	return winrt.ReadHString(lang, winrt.SlotLanguageTag, "ILanguage.get_LanguageTag")
}
