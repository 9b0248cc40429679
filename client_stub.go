//go:build !windows

package winocr

// nativeState is empty on platforms without the native engine.
type nativeState struct{}

func (c *Client) closeNative() error { return nil }

func (c *Client) recognizeBytes(_ []byte, _ Settings) (*Result, error) {
	return nil, ErrPlatformUnsupported
}

func (c *Client) recognizeFile(_ string, _ Settings) (*Result, error) {
	return nil, ErrPlatformUnsupported
}

// LoadLanguage is unavailable without the native engine.
func (c *Client) LoadLanguage(_ string) error {
	return ErrPlatformUnsupported
}

// Languages is unavailable without the native engine.
func (c *Client) Languages() ([]Language, error) {
	return nil, ErrPlatformUnsupported
}

// MaxDimension is unavailable without the native engine.
func (c *Client) MaxDimension() (uint32, error) {
	return 0, ErrPlatformUnsupported
}
