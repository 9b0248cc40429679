package winrt

// Every runtime class name, interface ID and vtable slot ordinal used by the
// binding lives in this one table. Slots count from the start of the vtable:
// IUnknown occupies 0-2, IInspectable 3-5, so WinRT interface methods start
// at 6. The ordinals follow the declaration order of the interface in the
// Windows SDK metadata.

// Runtime class names.
const (
	ClassOcrEngine     = "Windows.Media.Ocr.OcrEngine"
	ClassLanguage      = "Windows.Globalization.Language"
	ClassBitmapDecoder = "Windows.Graphics.Imaging.BitmapDecoder"
)

// Interface IDs.
var (
	IIDIOcrEngineStatics              = MustGUID("5BFFA85A-3384-3540-9940-699120D428A8")
	IIDIOcrEngine                     = MustGUID("5A14BC41-5B76-3140-B680-8825562683AC")
	IIDILanguageFactory               = MustGUID("9B0252AC-0C27-44F8-B792-9793FB66C63E")
	IIDIAsyncInfo                     = MustGUID("00000036-0000-0000-C000-000000000046")
	IIDIBitmapDecoderStatics          = MustGUID("438CCB26-BCEF-4E95-BAD6-23A822E58D01")
	IIDIBitmapFrame                   = MustGUID("72A49A1C-8081-438D-91BC-94ECFC8185C6")
	IIDIBitmapFrameWithSoftwareBitmap = MustGUID("FE287C9A-420C-4963-87AD-691436E08383")
	IIDIRandomAccessStream            = MustGUID("905A0FE1-BC53-11DF-8C49-001E4FC686DA")
)

// IOcrEngineStatics (factory interface of Windows.Media.Ocr.OcrEngine).
const (
	SlotOcrStaticsMaxImageDimension                 = 6
	SlotOcrStaticsAvailableRecognizerLanguages      = 7
	SlotOcrStaticsIsLanguageSupported               = 8
	SlotOcrStaticsTryCreateFromLanguage             = 9
	SlotOcrStaticsTryCreateFromUserProfileLanguages = 10
)

// IOcrEngine.
const (
	SlotOcrEngineRecognizeAsync     = 6
	SlotOcrEngineRecognizerLanguage = 7
)

// ILanguageFactory and ILanguage (Windows.Globalization.Language).
const (
	SlotLanguageFactoryCreateLanguage = 6
	SlotLanguageTag                   = 6
	SlotLanguageDisplayName           = 7
)

// IAsyncInfo and IAsyncOperation<T>.
const (
	SlotAsyncInfoStatus          = 7
	SlotAsyncInfoErrorCode       = 8
	SlotAsyncInfoClose           = 10
	SlotAsyncOperationGetResults = 8
)

// IBitmapDecoderStatics, IBitmapFrame, IBitmapFrameWithSoftwareBitmap.
const (
	SlotDecoderStaticsCreateAsync   = 14
	SlotFramePixelWidth             = 12
	SlotFramePixelHeight            = 13
	SlotFrameGetSoftwareBitmapAsync = 6
)

// IOcrResult, IOcrLine, IOcrWord.
const (
	SlotOcrResultLines      = 6
	SlotOcrResultTextAngle  = 7
	SlotOcrResultText       = 8
	SlotOcrLineWords        = 6
	SlotOcrLineText         = 7
	SlotOcrWordBoundingRect = 6
	SlotOcrWordText         = 7
)

// IVectorView<T> and IReference<T>.
const (
	SlotVectorViewGetAt = 6
	SlotVectorViewSize  = 7
	SlotReferenceValue  = 6
)
