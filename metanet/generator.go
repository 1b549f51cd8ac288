package metanet

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"time"
)

// Generator produces one subprotocol payload instance per call.
type Generator interface {
	Generate(rnd Rand) (Payload, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(rnd Rand) (Payload, error)

// Generate calls f(rnd).
func (f GeneratorFunc) Generate(rnd Rand) (Payload, error) { return f(rnd) }

// DefaultPool returns the generator pool used when building chains. The
// nil entry is a no-op draw, so not every draw attaches a payload.
func DefaultPool() []Generator {
	return []Generator{
		nil,
		MediaGenerator{},
		PastebinGenerator{},
		RandomDataGenerator{},
	}
}

var defaultArtists = []string{"Pablo Picasso", "Piet Mondrian", "Paul Cézanne"}

// MediaGenerator produces a small JPEG image of a random solid colour.
type MediaGenerator struct {
	Artists []string // defaults to a fixed list of painters
	Size    int      // image width and height in pixels, default 32
}

// Generate implements Generator.
func (g MediaGenerator) Generate(rnd Rand) (Payload, error) {
	artists := g.Artists
	if len(artists) == 0 {
		artists = defaultArtists
	}
	size := g.Size
	if size <= 0 {
		size = 32
	}

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	fill := color.RGBA{R: uint8(rnd.Intn(256)), G: uint8(rnd.Intn(256)), B: uint8(rnd.Intn(256)), A: 0xff}
	draw.Draw(img, img.Bounds(), &image.Uniform{C: fill}, image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		return nil, fmt.Errorf("metanet: encode jpeg: %w", err)
	}

	return &Media{
		ID:       MediaProtocolID,
		MimeType: "image/jpg",
		Filename: "test.jpg",
		Artist:   artists[rnd.Intn(len(artists))],
		Content:  buf.Bytes(),
	}, nil
}

var defaultTitles = []string{"Aloha", "歡迎", "ようこそ", "ยินดีต้อนรับ"}

// PastebinGenerator produces a short timestamped text snippet.
type PastebinGenerator struct {
	Now func() time.Time // defaults to time.Now
}

// Generate implements Generator.
func (g PastebinGenerator) Generate(rnd Rand) (Payload, error) {
	now := g.Now
	if now == nil {
		now = time.Now
	}
	return &Pastebin{
		ID:          PastebinProtocolID,
		Title:       []byte(defaultTitles[rnd.Intn(len(defaultTitles))]),
		Tags:        []string{"Lorem", "Ipsum", "Dolor"},
		ContentType: "text/plain",
		Charset:     "utf-8",
		Contents:    []byte("Created at " + now().Format(time.ANSIC)),
	}, nil
}

// MaxRandomDataLen bounds the payload of a RandomData subprotocol.
const MaxRandomDataLen = 100

// RandomDataGenerator produces 1 to MaxRandomDataLen random bytes.
type RandomDataGenerator struct{}

// Generate implements Generator.
func (RandomDataGenerator) Generate(rnd Rand) (Payload, error) {
	data := make([]byte, 1+rnd.Intn(MaxRandomDataLen))
	if _, err := rnd.Read(data); err != nil {
		return nil, fmt.Errorf("metanet: random data: %w", err)
	}
	return &RandomData{
		ID:          RandomDataProtocolID,
		Tags:        []string{"random", "binary", "data"},
		ContentType: "application/octet-stream",
		Data:        data,
	}, nil
}
