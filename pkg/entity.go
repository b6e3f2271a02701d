package pkg

type Format string

const (
	FormatPNG Format = "png"
	FormatICO Format = "ico"
)

// ContentType returns the MIME type used when publishing a file of this format.
func (f Format) ContentType() string {
	switch f {
	case FormatPNG:
		return "image/png"
	case FormatICO:
		return "image/x-icon"
	}
	return "application/octet-stream"
}

type ResultSize struct {
	Path   string `json:"path"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type Target struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Format Format `json:"format"`
}

// Targets returns the icons generated for every source, in write order.
func Targets() []Target {
	return []Target{
		{Name: "pwa-192x192.png", Width: 192, Height: 192, Format: FormatPNG},
		{Name: "pwa-512x512.png", Width: 512, Height: 512, Format: FormatPNG},
		{Name: "favicon.ico", Width: 32, Height: 32, Format: FormatICO},
	}
}
